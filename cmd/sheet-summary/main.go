// Command sheet-summary writes a descriptive profile of an xlsx worksheet:
// per-column shape and coarse types, numeric statistics, and date ranges.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"jeaudit/internal/config"
	"jeaudit/internal/dataprocessing"
	"jeaudit/internal/files"
	"jeaudit/internal/infrastructure"
	"jeaudit/internal/validation"
	"jeaudit/internal/xlsx"
)

func main() {
	input := flag.String("input", "je_samples.xlsx", "xlsx workbook or directory of workbooks to profile")
	outputDir := flag.String("output-dir", "", "directory for report files (defaults to the configured output dir, outputs)")
	configPath := flag.String("config", "", "optional YAML config file (defaults to jeaudit.yaml when present)")
	logLevel := flag.String("log-level", "", "override the configured log level (debug, info, warn, error)")
	trace := flag.Bool("trace", false, "export pipeline stage spans to stdout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	applyFlagOverrides(cfg, *outputDir, *logLevel, *trace)

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	ctx := infrastructure.EnsureRunID(context.Background())
	if err := run(ctx, *input, cfg, logger); err != nil {
		logger.ErrorContext(ctx, "Sheet profiling failed",
			slog.String("input", *input),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func applyFlagOverrides(cfg *config.Config, outputDir, logLevel string, trace bool) {
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if trace {
		cfg.Tracing.Enabled = true
	}
}

// target pairs one workbook with the directory its reports are written to.
type target struct {
	source    string
	outputDir string
}

type workbookProfile struct {
	target  target
	summary *dataprocessing.SheetSummary
}

// run profiles every workbook the input resolves to. Individual workbook
// failures are logged and skipped; run fails only when validation fails or
// every workbook failed.
func run(ctx context.Context, input string, cfg *config.Config, logger *slog.Logger) error {
	validator := validation.NewFileValidator(logger)

	info, err := validator.ValidateInputPath(input)
	if err != nil {
		return err
	}
	if err := validator.ValidateOutputDirectory(cfg.Output.Dir); err != nil {
		return err
	}

	targets, err := resolveTargets(input, info.IsDir(), cfg.Output.Dir)
	if err != nil {
		return err
	}

	tracing, err := infrastructure.InitializeTracing(ctx, cfg.Tracing, logger)
	if err != nil {
		return err
	}
	defer tracing.Shutdown(ctx)

	logger.InfoContext(ctx, "Starting sheet profiling",
		slog.String("input", input),
		slog.String("output_dir", cfg.Output.Dir),
		slog.Int("workbooks", len(targets)))

	profiles := make([]workbookProfile, 0, len(targets))
	for i, t := range targets {
		fmt.Printf("Profiling workbook %d of %d: %s\n", i+1, len(targets), t.source)

		summary, err := profileWorkbook(ctx, tracing, validator, t, cfg, logger)
		if err != nil {
			logger.ErrorContext(ctx, "Workbook profiling failed",
				slog.String("file", t.source),
				slog.String("error", err.Error()))
			continue
		}
		profiles = append(profiles, workbookProfile{target: t, summary: summary})
	}

	printProfiles(profiles, cfg.Output.DateFormat)
	fmt.Printf("Profiling complete: %d of %d workbooks\n", len(profiles), len(targets))

	if len(profiles) == 0 {
		return fmt.Errorf("no workbook profiled successfully: all %d failed", len(targets))
	}
	return nil
}

// resolveTargets expands the input into per-workbook targets; directory
// inputs fan out into per-stem subdirectories of the output directory.
func resolveTargets(input string, isDir bool, outputDir string) ([]target, error) {
	if !isDir {
		return []target{{source: input, outputDir: outputDir}}, nil
	}

	workbooks, err := files.FindExcelFiles(input)
	if err != nil {
		return nil, err
	}
	if len(workbooks) == 0 {
		return nil, fmt.Errorf("no .xlsx workbooks found in %s", input)
	}

	targets := make([]target, 0, len(workbooks))
	for _, wb := range workbooks {
		targets = append(targets, target{
			source:    wb.Path,
			outputDir: filepath.Join(outputDir, files.Stem(wb.Path)),
		})
	}
	return targets, nil
}

// profileWorkbook decodes one workbook's first worksheet, summarizes it,
// and writes the descriptive reports.
func profileWorkbook(ctx context.Context, tracing *infrastructure.Tracing, validator *validation.FileValidator, t target, cfg *config.Config, logger *slog.Logger) (*dataprocessing.SheetSummary, error) {
	if err := validator.ValidateWorkbookFile(t.source); err != nil {
		return nil, err
	}

	_, span := tracing.StartStage(ctx, "extract", attribute.String("file", t.source))
	sheet, err := xlsx.ExtractSheet(t.source)
	infrastructure.EndStage(span, err)
	if err != nil {
		return nil, err
	}

	summarizer := dataprocessing.NewSummarizer(logger, dataprocessing.SummarizerConfig{
		Heuristics: dataprocessing.ClassifierConfig{
			DateSerialMin:    cfg.Analysis.DateSerialMin,
			DateSerialMax:    cfg.Analysis.DateSerialMax,
			DateLikeFraction: cfg.Analysis.DateLikeFraction,
			IntegerTolerance: cfg.Analysis.IntegerTolerance,
		},
		DateFormat: cfg.Output.DateFormat,
	})

	summarizeCtx, span := tracing.StartStage(ctx, "summarize", attribute.Int("columns", sheet.ColumnCount()))
	summary := summarizer.Summarize(summarizeCtx, sheet)
	infrastructure.EndStage(span, nil)

	emitCtx, span := tracing.StartStage(ctx, "emit", attribute.String("output_dir", t.outputDir))
	err = summarizer.WriteReports(emitCtx, summary, t.outputDir)
	infrastructure.EndStage(span, err)
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// printProfiles prints the console digest for every profiled workbook.
func printProfiles(profiles []workbookProfile, dateFormat string) {
	for _, p := range profiles {
		fmt.Printf("\n=== Sheet Profile: %s ===\n", p.target.source)
		fmt.Printf("Rows: %d  Columns: %d\n", p.summary.RowCount, p.summary.ColumnCount)
		fmt.Printf("Numeric columns (%d): %s\n", len(p.summary.Numeric), nameList(p.summary.NumericNames()))
		fmt.Printf("Date columns (%d): %s\n", len(p.summary.Dates), nameList(p.summary.DateNames()))
		if min, max, ok := p.summary.DateRange(); ok {
			fmt.Printf("Date range: %s to %s\n", min.Format(dateFormat), max.Format(dateFormat))
		}
		fmt.Printf("Reports written to %s\n", p.target.outputDir)
	}
}

func nameList(names []string) string {
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, ", ")
}
