// Command benford-report runs Benford's-Law leading-digit analysis over the
// numeric columns of an xlsx workbook and writes CSV, JSON, text, and SVG
// reports. Pointing -input at a directory analyzes every workbook inside it,
// each into its own subdirectory of the output directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"jeaudit/internal/benford"
	"jeaudit/internal/config"
	"jeaudit/internal/dataprocessing"
	"jeaudit/internal/files"
	"jeaudit/internal/infrastructure"
	"jeaudit/internal/validation"
	"jeaudit/internal/xlsx"
)

func main() {
	input := flag.String("input", "je_samples.xlsx", "xlsx workbook or directory of workbooks to analyze")
	outputDir := flag.String("output-dir", "", "directory for report files (defaults to the configured output dir, outputs)")
	configPath := flag.String("config", "", "optional YAML config file (defaults to jeaudit.yaml when present)")
	logLevel := flag.String("log-level", "", "override the configured log level (debug, info, warn, error)")
	parallel := flag.Int("parallel", 0, "max columns analyzed concurrently (0 = configured value, or one per CPU)")
	trace := flag.Bool("trace", false, "export pipeline stage spans to stdout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	applyFlagOverrides(cfg, *outputDir, *logLevel, *parallel, *trace)

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	ctx := infrastructure.EnsureRunID(context.Background())
	if err := run(ctx, *input, cfg, logger); err != nil {
		logger.ErrorContext(ctx, "Benford analysis failed",
			slog.String("input", *input),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// applyFlagOverrides lets command-line flags win over file and environment
// configuration. Zero values leave the configured setting untouched.
func applyFlagOverrides(cfg *config.Config, outputDir, logLevel string, parallel int, trace bool) {
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if parallel > 0 {
		cfg.Analysis.Parallelism = parallel
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

// workbookAnalysis is one successfully analyzed workbook.
type workbookAnalysis struct {
	target target
	result *benford.Result
}

// run executes the analysis for every workbook the input resolves to and
// prints the console summary. Individual workbook failures are logged and
// skipped; run returns an error only when validation fails or no workbook
// could be analyzed at all.
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

	logger.InfoContext(ctx, "Starting Benford analysis",
		slog.String("input", input),
		slog.String("output_dir", cfg.Output.Dir),
		slog.Int("workbooks", len(targets)),
		slog.Int("parallelism", cfg.Analysis.EffectiveParallelism()))

	analyses := make([]workbookAnalysis, 0, len(targets))
	for i, t := range targets {
		fmt.Printf("Analyzing workbook %d of %d: %s\n", i+1, len(targets), t.source)

		result, err := analyzeWorkbook(ctx, tracing, validator, t, cfg, logger)
		if err != nil {
			logger.ErrorContext(ctx, "Workbook analysis failed",
				slog.String("file", t.source),
				slog.String("error", err.Error()))
			continue
		}
		analyses = append(analyses, workbookAnalysis{target: t, result: result})
	}

	printRunSummary(analyses)
	fmt.Printf("Analysis complete: %d of %d workbooks\n", len(analyses), len(targets))

	if len(analyses) == 0 {
		return fmt.Errorf("no workbook analyzed successfully: all %d failed", len(targets))
	}
	return nil
}

// resolveTargets expands the input into per-workbook analysis targets. A
// directory input fans out to every workbook inside it, each reporting into
// its own subdirectory named after the file stem.
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

// analyzeWorkbook runs the pipeline for one workbook: decode the first
// worksheet, classify numeric columns, compute the digit analysis, and
// persist the report artifacts. Each stage runs inside its own span.
func analyzeWorkbook(ctx context.Context, tracing *infrastructure.Tracing, validator *validation.FileValidator, t target, cfg *config.Config, logger *slog.Logger) (*benford.Result, error) {
	start := time.Now()

	if err := validator.ValidateWorkbookFile(t.source); err != nil {
		return nil, err
	}

	_, span := tracing.StartStage(ctx, "extract", attribute.String("file", t.source))
	sheet, err := xlsx.ExtractSheet(t.source)
	infrastructure.EndStage(span, err)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Extracted worksheet",
		slog.String("file", t.source),
		slog.Int("rows", len(sheet.Rows)),
		slog.Int("columns", sheet.ColumnCount()))

	classifier := dataprocessing.NewClassifier(logger, classifierConfig(cfg.Analysis))
	classifyCtx, span := tracing.StartStage(ctx, "classify", attribute.Int("columns", sheet.ColumnCount()))
	columns := classifier.NumericColumns(classifyCtx, sheet)
	infrastructure.EndStage(span, nil)

	calculator := benford.NewCalculator(logger, benford.Config{
		Parallelism: cfg.Analysis.EffectiveParallelism(),
	})
	analyzeCtx, span := tracing.StartStage(ctx, "analyze", attribute.Int("numeric_columns", len(columns)))
	result, err := calculator.Calculate(analyzeCtx, columns)
	infrastructure.EndStage(span, err)
	if err != nil {
		return nil, err
	}

	writer := benford.NewWriter(t.outputDir, logger)
	meta := benford.ReportMeta{
		RunID:       infrastructure.RunIDFromContext(ctx),
		Source:      t.source,
		GeneratedAt: time.Now().UTC(),
		Duration:    time.Since(start),
	}
	emitCtx, span := tracing.StartStage(ctx, "emit", attribute.String("output_dir", t.outputDir))
	err = writer.WriteAll(emitCtx, result, meta)
	infrastructure.EndStage(span, err)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// classifierConfig maps the analysis settings onto the classifier's
// date-detection thresholds.
func classifierConfig(cfg config.AnalysisConfig) dataprocessing.ClassifierConfig {
	return dataprocessing.ClassifierConfig{
		DateSerialMin:    cfg.DateSerialMin,
		DateSerialMax:    cfg.DateSerialMax,
		DateLikeFraction: cfg.DateLikeFraction,
		IntegerTolerance: cfg.IntegerTolerance,
	}
}

// printRunSummary prints the ranked deviation table for every analyzed
// workbook.
func printRunSummary(analyses []workbookAnalysis) {
	for _, a := range analyses {
		fmt.Printf("\n=== Benford Deviation Ranking: %s ===\n", a.target.source)
		if len(a.result.Summary) == 0 {
			fmt.Println("No numeric columns to analyze.")
			fmt.Printf("Reports written to %s\n", a.target.outputDir)
			continue
		}

		fmt.Printf("%-28s %10s %10s %10s %6s\n", "Column", "Values", "MAD", "Max Dev", "Digit")
		for _, s := range a.result.Summary {
			fmt.Printf("%-28s %10d %10.4f %10.4f %6d\n",
				s.Column, s.TotalValues, s.MAD, s.MaxAbsDeviation, s.TopDeviationDigit)
		}
		fmt.Printf("Reports written to %s\n", a.target.outputDir)
	}
}
