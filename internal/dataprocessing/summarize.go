package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"jeaudit/internal/exporter"
	"jeaudit/internal/xlsx"
)

// Coarse column types reported in the column profile.
const (
	DTypeNumeric = "numeric"
	DTypeDate    = "date"
	DTypeText    = "text"
)

// Text date layouts accepted as date evidence, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	time.RFC3339,
}

// serialEpoch is the base of the 1900 date system; adding a serial-date
// day count to it yields the calendar date for every serial after the
// 1900 leap-year quirk, which the detection range sits safely above.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ColumnProfile describes one column's shape: how many cells carry a
// value, how many distinct values appear, and the coarse type.
type ColumnProfile struct {
	Column       string
	NonNullCount int
	NullCount    int
	UniqueCount  int
	DType        string
}

// NumericProfile holds descriptive statistics for one numeric column.
// Std is the sample standard deviation and is NaN when the column has
// fewer than two values.
type NumericProfile struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Median float64
	Max    float64
	Sum    float64
}

// DateProfile holds the observed range of a date column.
type DateProfile struct {
	Column string
	Min    time.Time
	Max    time.Time
}

// SheetSummary aggregates everything the descriptive report prints.
type SheetSummary struct {
	RowCount    int
	ColumnCount int
	Columns     []ColumnProfile
	Numeric     []NumericProfile
	Dates       []DateProfile
}

// NumericNames lists the numeric column headers in sheet order.
func (s *SheetSummary) NumericNames() []string {
	names := make([]string, 0, len(s.Numeric))
	for _, p := range s.Numeric {
		names = append(names, p.Column)
	}
	return names
}

// DateNames lists the date column headers in sheet order.
func (s *SheetSummary) DateNames() []string {
	names := make([]string, 0, len(s.Dates))
	for _, p := range s.Dates {
		names = append(names, p.Column)
	}
	return names
}

// DateRange returns the overall min and max across all date columns.
// ok is false when no date column produced a parseable value.
func (s *SheetSummary) DateRange() (min, max time.Time, ok bool) {
	for _, p := range s.Dates {
		if !ok {
			min, max, ok = p.Min, p.Max, true
			continue
		}
		if p.Min.Before(min) {
			min = p.Min
		}
		if p.Max.After(max) {
			max = p.Max
		}
	}
	return min, max, ok
}

// SummarizerConfig holds configuration for the descriptive summarizer.
type SummarizerConfig struct {
	Heuristics ClassifierConfig // serial-date detection thresholds
	DateFormat string           // format for rendered dates
}

// DefaultSummarizerConfig returns the standard summarizer settings.
func DefaultSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{
		Heuristics: DefaultClassifierConfig(),
		DateFormat: "2006-01-02",
	}
}

// Summarizer profiles a sheet for the descriptive report.
type Summarizer struct {
	logger *slog.Logger
	config SummarizerConfig
}

// NewSummarizer creates a summarizer. A nil logger falls back to
// slog.Default(); zero config fields take their defaults.
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.DateFormat == "" {
		config.DateFormat = "2006-01-02"
	}
	if config.Heuristics == (ClassifierConfig{}) {
		config.Heuristics = DefaultClassifierConfig()
	}
	return &Summarizer{logger: logger, config: config}
}

// Summarize profiles every column of the sheet.
//
// A column's coarse type is decided per cell population: columns whose
// bulk of values parse as dates (or whose header names a date) report as
// dates; columns whose every non-null cell is a number report as numeric;
// everything else is text. Numeric statistics cover only truly numeric
// cells, so a column of comma-formatted text amounts profiles as text
// here even though the Benford classifier parses it.
func (s *Summarizer) Summarize(ctx context.Context, sheet *xlsx.Sheet) *SheetSummary {
	summary := &SheetSummary{
		RowCount:    len(sheet.Rows),
		ColumnCount: len(sheet.Headers),
	}

	for i, header := range sheet.Headers {
		var (
			nonNull    int
			numbers    []float64
			dates      []time.Time
			dateEvid   int
			allNumeric = true
		)
		uniques := make(map[xlsx.CellValue]struct{})

		for _, row := range sheet.Rows {
			cell := row[i]
			if cell.IsEmpty() {
				continue
			}
			nonNull++
			uniques[cell] = struct{}{}
			if cell.Kind == xlsx.KindNumber {
				numbers = append(numbers, cell.Number)
			} else {
				allNumeric = false
			}
			if t, ok := s.parseDate(cell); ok {
				dateEvid++
				dates = append(dates, t)
			}
		}

		isDate := strings.Contains(strings.ToLower(header), "date")
		if !isDate && nonNull > 0 {
			isDate = float64(dateEvid)/float64(nonNull) >= s.config.Heuristics.DateLikeFraction
		}

		dtype := DTypeText
		switch {
		case isDate:
			dtype = DTypeDate
		case nonNull > 0 && allNumeric:
			dtype = DTypeNumeric
		}

		summary.Columns = append(summary.Columns, ColumnProfile{
			Column:       header,
			NonNullCount: nonNull,
			NullCount:    len(sheet.Rows) - nonNull,
			UniqueCount:  len(uniques),
			DType:        dtype,
		})

		switch dtype {
		case DTypeNumeric:
			summary.Numeric = append(summary.Numeric, s.numericProfile(header, numbers))
		case DTypeDate:
			if profile, ok := dateProfile(header, dates); ok {
				summary.Dates = append(summary.Dates, profile)
			}
		}
	}

	s.logger.InfoContext(ctx, "summarized sheet",
		slog.Int("rows", summary.RowCount),
		slog.Int("columns", summary.ColumnCount),
		slog.Int("numeric_columns", len(summary.Numeric)),
		slog.Int("date_columns", len(summary.Dates)))
	return summary
}

// parseDate reports whether a cell plausibly encodes a date: a serial
// number on a whole day inside the detection range, or text matching one
// of the accepted layouts.
func (s *Summarizer) parseDate(cell xlsx.CellValue) (time.Time, bool) {
	switch cell.Kind {
	case xlsx.KindNumber:
		if s.config.Heuristics.isDateSerial(cell.Number) {
			return serialEpoch.AddDate(0, 0, int(math.Round(cell.Number))), true
		}
	case xlsx.KindText:
		text := strings.TrimSpace(cell.Text)
		if text == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, text); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func (s *Summarizer) numericProfile(header string, values []float64) NumericProfile {
	profile := NumericProfile{
		Column: header,
		Count:  len(values),
		Mean:   statOrNaN(stats.Mean, values),
		Std:    math.NaN(),
		Min:    statOrNaN(stats.Min, values),
		Median: statOrNaN(stats.Median, values),
		Max:    statOrNaN(stats.Max, values),
		Sum:    statOrNaN(stats.Sum, values),
	}
	if len(values) >= 2 {
		profile.Std = statOrNaN(stats.StandardDeviationSample, values)
	}
	return profile
}

func dateProfile(header string, dates []time.Time) (DateProfile, bool) {
	if len(dates) == 0 {
		// A header-hinted date column may carry no parseable value; it
		// keeps its dtype but has no observable range.
		return DateProfile{}, false
	}
	profile := DateProfile{Column: header, Min: dates[0], Max: dates[0]}
	for _, t := range dates[1:] {
		if t.Before(profile.Min) {
			profile.Min = t
		}
		if t.After(profile.Max) {
			profile.Max = t
		}
	}
	return profile, true
}

func statOrNaN(f func(stats.Float64Data) (float64, error), values []float64) float64 {
	v, err := f(values)
	if err != nil {
		return math.NaN()
	}
	return v
}

// WriteReports writes the descriptive outputs into outputDir:
// column_summary.csv always, numeric_summary.csv and date_summary.csv when
// the corresponding columns exist, and sheet_summary.txt always.
func (s *Summarizer) WriteReports(ctx context.Context, summary *SheetSummary, outputDir string) error {
	writer := exporter.NewCSVWriter(outputDir, s.logger)

	columnRecords := make([][]string, 0, len(summary.Columns))
	for _, p := range summary.Columns {
		columnRecords = append(columnRecords, []string{
			p.Column,
			exporter.FormatInt(p.NonNullCount),
			exporter.FormatInt(p.NullCount),
			exporter.FormatInt(p.UniqueCount),
			p.DType,
		})
	}
	headers := []string{"column", "non_null_count", "null_count", "unique_count", "dtype"}
	if err := writer.WriteSimpleCSV("column_summary.csv", headers, columnRecords); err != nil {
		return fmt.Errorf("write column summary: %w", err)
	}

	if len(summary.Numeric) > 0 {
		numericRecords := make([][]string, 0, len(summary.Numeric))
		for _, p := range summary.Numeric {
			numericRecords = append(numericRecords, []string{
				p.Column,
				exporter.FormatInt(p.Count),
				exporter.FormatFloat(p.Mean),
				exporter.FormatFloat(p.Std),
				exporter.FormatFloat(p.Min),
				exporter.FormatFloat(p.Median),
				exporter.FormatFloat(p.Max),
				exporter.FormatFloat(p.Sum),
			})
		}
		headers := []string{"column", "count", "mean", "std", "min", "median", "max", "sum"}
		if err := writer.WriteSimpleCSV("numeric_summary.csv", headers, numericRecords); err != nil {
			return fmt.Errorf("write numeric summary: %w", err)
		}
	}

	if len(summary.Dates) > 0 {
		dateRecords := make([][]string, 0, len(summary.Dates))
		for _, p := range summary.Dates {
			dateRecords = append(dateRecords, []string{
				p.Column,
				p.Min.Format(s.config.DateFormat),
				p.Max.Format(s.config.DateFormat),
			})
		}
		if err := writer.WriteSimpleCSV("date_summary.csv", []string{"column", "min", "max"}, dateRecords); err != nil {
			return fmt.Errorf("write date summary: %w", err)
		}
	}

	if err := s.writeTextSummary(summary, outputDir); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "wrote descriptive reports",
		slog.String("output_dir", outputDir),
		slog.Int("numeric_columns", len(summary.Numeric)),
		slog.Int("date_columns", len(summary.Dates)))
	return nil
}

func (s *Summarizer) writeTextSummary(summary *SheetSummary, outputDir string) error {
	var b strings.Builder
	title := "Sheet Summary"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n")
	fmt.Fprintf(&b, "Rows: %d\n", summary.RowCount)
	fmt.Fprintf(&b, "Columns: %d\n\n", summary.ColumnCount)

	fmt.Fprintf(&b, "Numeric columns (%d): %s\n", len(summary.Numeric), nameList(summary.NumericNames()))
	fmt.Fprintf(&b, "Date columns (%d): %s\n", len(summary.Dates), nameList(summary.DateNames()))

	if min, max, ok := summary.DateRange(); ok {
		fmt.Fprintf(&b, "\nOverall date range: %s to %s\n",
			min.Format(s.config.DateFormat), max.Format(s.config.DateFormat))
	}

	b.WriteString("\nOutputs:\n")
	b.WriteString("- column_summary.csv (row counts, nulls, uniques, dtypes)\n")
	b.WriteString("- numeric_summary.csv (descriptive stats for numeric columns)\n")
	b.WriteString("- date_summary.csv (min/max for date-like columns)\n")

	path := filepath.Join(outputDir, "sheet_summary.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write text summary: %w", err)
	}
	return nil
}

func nameList(names []string) string {
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, ", ")
}
