package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"jeaudit/internal/xlsx"
)

// NumericColumn is a read-only numeric view over one sheet column after
// parsing and date filtering. Values keeps row order but skips cells that
// did not parse, so it may be shorter than the sheet has rows.
type NumericColumn struct {
	Header string
	Values []float64
}

// ClassifierConfig holds the date-like detection thresholds. The defaults
// correspond to serial dates between 1954 and 2064, which covers any
// plausible journal-entry posting date.
type ClassifierConfig struct {
	// DateSerialMin and DateSerialMax bound the spreadsheet serial-date
	// range treated as date evidence.
	DateSerialMin float64
	DateSerialMax float64
	// DateLikeFraction is the share of parsed values that must look like
	// serial dates before a column is dropped as date-like.
	DateLikeFraction float64
	// IntegerTolerance is how far from a whole number a serial may sit
	// and still count as a date.
	IntegerTolerance float64
}

// DefaultClassifierConfig returns the standard detection thresholds.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		DateSerialMin:    20000,
		DateSerialMax:    60000,
		DateLikeFraction: 0.8,
		IntegerTolerance: 0.01,
	}
}

// Classifier derives the numeric-column view of a sheet.
type Classifier struct {
	logger *slog.Logger
	config ClassifierConfig
}

// NewClassifier creates a classifier with the given thresholds. A nil
// logger falls back to slog.Default().
func NewClassifier(logger *slog.Logger, config ClassifierConfig) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{logger: logger, config: config}
}

// NumericColumns returns the sheet's numeric columns in sheet order.
// A column survives when at least one cell parses as a number and the
// column is not date-like; everything else is omitted entirely. The
// result is an ordered slice rather than a map so downstream output is
// deterministic.
func (c *Classifier) NumericColumns(ctx context.Context, sheet *xlsx.Sheet) []NumericColumn {
	columns := make([]NumericColumn, 0, len(sheet.Headers))
	dropped := 0
	for i, header := range sheet.Headers {
		values := make([]float64, 0, len(sheet.Rows))
		for _, row := range sheet.Rows {
			if v, ok := ParseNumeric(row[i]); ok {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		if c.isDateLike(header, values) {
			dropped++
			c.logger.DebugContext(ctx, "dropping date-like column",
				slog.String("column", header),
				slog.Int("parsed_values", len(values)))
			continue
		}
		columns = append(columns, NumericColumn{Header: header, Values: values})
	}

	c.logger.InfoContext(ctx, "classified sheet columns",
		slog.Int("total_columns", len(sheet.Headers)),
		slog.Int("numeric_columns", len(columns)),
		slog.Int("date_like_columns", dropped))
	return columns
}

// ParseNumeric extracts a float from a cell. Numbers pass through; text
// parses after thousands-separator commas are removed; everything else is
// rejected.
func ParseNumeric(v xlsx.CellValue) (float64, bool) {
	switch v.Kind {
	case xlsx.KindNumber:
		return v.Number, true
	case xlsx.KindText:
		s := strings.TrimSpace(strings.ReplaceAll(v.Text, ",", ""))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// isDateLike reports whether a column should be excluded from Benford
// analysis as a date column: either the header names a date, or the bulk
// of its values sit on whole numbers inside the serial-date range.
func (c *Classifier) isDateLike(header string, values []float64) bool {
	if strings.Contains(strings.ToLower(header), "date") {
		return true
	}
	if len(values) == 0 {
		return false
	}
	dateLike := 0
	for _, v := range values {
		if c.config.isDateSerial(v) {
			dateLike++
		}
	}
	return float64(dateLike)/float64(len(values)) >= c.config.DateLikeFraction
}

func (cfg ClassifierConfig) isDateSerial(v float64) bool {
	return v >= cfg.DateSerialMin && v <= cfg.DateSerialMax &&
		math.Abs(v-math.Round(v)) < cfg.IntegerTolerance
}
