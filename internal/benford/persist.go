package benford

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"jeaudit/internal/chart"
	"jeaudit/internal/exporter"
)

// Report file names created under the output directory.
const (
	SummaryFile      = "benford_summary.csv"
	DetailFile       = "benford_digit_detail.csv"
	ReportJSONFile   = "benford_report.json"
	ReportTextFile   = "benford_report.txt"
	OverallChartFile = "benford_overall.svg"
	MADChartFile     = "benford_mad_by_column.svg"
)

// significanceLevel is the p-value threshold below which a column's
// chi-square result is called out in the text report.
const significanceLevel = 0.05

// Chart colors for the observed, expected, and MAD series.
const (
	observedColor = "#1b9e77"
	expectedColor = "#7570b3"
	madColor      = "#d95f02"
)

// ReportMeta carries run provenance stamped into the JSON and text
// reports.
type ReportMeta struct {
	RunID       string
	Source      string
	GeneratedAt time.Time
	Duration    time.Duration
}

// Writer persists analysis results into an output directory.
type Writer struct {
	outputDir string
	csv       *exporter.CSVWriter
	logger    *slog.Logger
}

// NewWriter creates a report writer rooted at outputDir. A nil logger
// falls back to slog.Default().
func NewWriter(outputDir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		outputDir: outputDir,
		csv:       exporter.NewCSVWriter(outputDir, logger),
		logger:    logger,
	}
}

// WriteAll persists every report artifact for the result.
func (w *Writer) WriteAll(ctx context.Context, result *Result, meta ReportMeta) error {
	if err := w.WriteSummaryCSV(result); err != nil {
		return fmt.Errorf("summary csv: %w", err)
	}
	if err := w.WriteDetailCSV(result); err != nil {
		return fmt.Errorf("detail csv: %w", err)
	}
	if err := w.WriteJSON(result, meta); err != nil {
		return fmt.Errorf("json report: %w", err)
	}
	if err := w.WriteTextReport(result, meta); err != nil {
		return fmt.Errorf("text report: %w", err)
	}
	if err := w.WriteCharts(result); err != nil {
		return fmt.Errorf("charts: %w", err)
	}

	w.logger.InfoContext(ctx, "wrote benford reports",
		slog.String("output_dir", w.outputDir),
		slog.Int("columns", len(result.Summary)),
		slog.Int("digits", result.TotalDigits()))
	return nil
}

// WriteSummaryCSV writes the ranked per-column table. An empty summary
// produces an empty file rather than a lone header row.
func (w *Writer) WriteSummaryCSV(result *Result) error {
	if len(result.Summary) == 0 {
		return w.csv.WriteEmptyCSV(SummaryFile)
	}

	records := make([][]string, 0, len(result.Summary))
	for _, row := range result.Summary {
		records = append(records, []string{
			row.Column,
			exporter.FormatInt(row.TotalValues),
			exporter.FormatFloat(row.MAD),
			exporter.FormatFloat(row.MaxAbsDeviation),
			exporter.FormatInt(row.TopDeviationDigit),
		})
	}
	headers := []string{"column", "total_values", "mad", "max_abs_deviation", "top_deviation_digit"}
	return w.csv.WriteSimpleCSV(SummaryFile, headers, records)
}

// WriteDetailCSV streams the per-digit table, nine rows per column. An
// empty detail produces an empty file.
func (w *Writer) WriteDetailCSV(result *Result) error {
	if len(result.Detail) == 0 {
		return w.csv.WriteEmptyCSV(DetailFile)
	}

	headers := []string{"column", "digit", "count", "observed", "expected", "deviation"}
	stream, err := w.csv.CreateStreamWriter(DetailFile, headers)
	if err != nil {
		return err
	}
	for _, row := range result.Detail {
		record := []string{
			row.Column,
			exporter.FormatInt(row.Digit),
			exporter.FormatInt(row.Count),
			exporter.FormatFloat(row.Observed),
			exporter.FormatFloat(row.Expected),
			exporter.FormatFloat(row.Deviation),
		}
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return fmt.Errorf("write detail row: %w", err)
		}
	}
	return stream.Close()
}

// WriteJSON writes the full analysis with run metadata.
func (w *Writer) WriteJSON(result *Result, meta ReportMeta) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	payload := map[string]any{
		"metadata": map[string]any{
			"run_id":       meta.RunID,
			"source":       meta.Source,
			"generated_at": meta.GeneratedAt.Format(time.RFC3339),
			"duration_ms":  meta.Duration.Milliseconds(),
			"columns":      len(result.Summary),
			"total_digits": result.TotalDigits(),
		},
		"summary": result.Summary,
		"detail":  result.Detail,
	}

	path := filepath.Join(w.outputDir, ReportJSONFile)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteTextReport writes the human-readable run digest.
func (w *Writer) WriteTextReport(result *Result, meta ReportMeta) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var b strings.Builder
	title := "Benford Analysis"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n")
	if meta.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n", meta.Source)
	}
	fmt.Fprintf(&b, "Columns analyzed: %d\n", len(result.Summary))
	fmt.Fprintf(&b, "Leading digits counted: %d\n", result.TotalDigits())

	if len(result.Summary) > 0 {
		b.WriteString("\nColumns by deviation (descending MAD):\n")
		for i, row := range result.Summary {
			fmt.Fprintf(&b, "%d. %s: mad=%.4f max_dev=%.4f (digit %d) n=%d chi2=%.2f p=%.4f\n",
				i+1, row.Column, row.MAD, row.MaxAbsDeviation, row.TopDeviationDigit,
				row.TotalValues, row.ChiSquare, row.PValue)
		}

		var flagged []string
		for _, row := range result.Summary {
			if row.PValue < significanceLevel {
				flagged = append(flagged, row.Column)
			}
		}
		if len(flagged) > 0 {
			fmt.Fprintf(&b, "\nChi-square flags (p < %.2f): %s\n",
				significanceLevel, strings.Join(flagged, ", "))
		}
	}

	b.WriteString("\nOutputs:\n")
	b.WriteString("- benford_summary.csv (per-column deviation ranking)\n")
	b.WriteString("- benford_digit_detail.csv (observed vs expected per digit)\n")
	b.WriteString("- benford_report.json (full analysis with metadata)\n")

	path := filepath.Join(w.outputDir, ReportTextFile)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write text report: %w", err)
	}
	return nil
}

// WriteCharts renders the SVG charts. The overall chart needs digit
// rows and the MAD chart needs summary rows; either is skipped when its
// table is empty.
func (w *Writer) WriteCharts(result *Result) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if len(result.Detail) > 0 {
		c := overallChart(result.Detail)
		if err := c.WriteFile(filepath.Join(w.outputDir, OverallChartFile)); err != nil {
			return err
		}
	}
	if len(result.Summary) > 0 {
		c := madChart(result.Summary)
		if err := c.WriteFile(filepath.Join(w.outputDir, MADChartFile)); err != nil {
			return err
		}
	}
	return nil
}

// overallChart aggregates digit counts across all columns and plots the
// pooled observed frequencies next to the expected distribution.
func overallChart(detail []DigitRow) *chart.BarChart {
	var totals [10]int
	totalCount := 0
	for _, row := range detail {
		totals[row.Digit] += row.Count
		totalCount += row.Count
	}

	labels := make([]string, 0, 9)
	observed := make([]float64, 0, 9)
	expected := make([]float64, 0, 9)
	for digit := 1; digit <= 9; digit++ {
		labels = append(labels, strconv.Itoa(digit))
		freq := 0.0
		if totalCount > 0 {
			freq = float64(totals[digit]) / float64(totalCount)
		}
		observed = append(observed, freq)
		expected = append(expected, expectedDigits[digit])
	}

	return chart.NewBarChart(
		"Overall Benford Analysis (Observed vs Expected)",
		labels,
		chart.Series{Name: "Observed", Values: observed, Color: observedColor},
		chart.Series{Name: "Expected", Values: expected, Color: expectedColor},
	)
}

// madChart plots each column's MAD in ranking order.
func madChart(summary []ColumnSummary) *chart.BarChart {
	labels := make([]string, 0, len(summary))
	values := make([]float64, 0, len(summary))
	for _, row := range summary {
		labels = append(labels, row.Column)
		values = append(values, row.MAD)
	}

	return chart.NewBarChart(
		"Benford MAD by Column (Higher = More Deviation)",
		labels,
		chart.Series{Name: "MAD", Values: values, Color: madColor},
	)
}
