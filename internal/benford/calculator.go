package benford

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"jeaudit/internal/dataprocessing"
)

// Config holds tuning options for the calculator.
type Config struct {
	// Parallelism caps the number of columns analyzed concurrently.
	// Values below 1 mean sequential analysis.
	Parallelism int
}

// DefaultConfig returns the standard calculator settings.
func DefaultConfig() Config {
	return Config{Parallelism: runtime.NumCPU()}
}

// Calculator computes Benford statistics over numeric columns.
type Calculator struct {
	logger *slog.Logger
	config Config
}

// NewCalculator creates a calculator. A nil logger falls back to
// slog.Default().
func NewCalculator(logger *slog.Logger, config Config) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{logger: logger, config: config}
}

// Calculate analyzes every column and returns the ranked result.
//
// Columns are processed concurrently up to the configured parallelism.
// Each column's histogram depends only on its own values, and per-column
// results are assembled in input order before ranking, so the output is
// identical regardless of scheduling.
func (c *Calculator) Calculate(ctx context.Context, columns []dataprocessing.NumericColumn) (*Result, error) {
	analyses := make([]columnAnalysis, len(columns))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.limit())
	for i, column := range columns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			analyses[i] = analyzeColumn(column)
			c.logger.DebugContext(gctx, "analyzed column",
				slog.String("column", column.Header),
				slog.Int("digits", analyses[i].summary.TotalValues),
				slog.Float64("mad", analyses[i].summary.MAD))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		Summary: make([]ColumnSummary, 0, len(columns)),
		Detail:  make([]DigitRow, 0, len(columns)*9),
	}
	for _, analysis := range analyses {
		result.Summary = append(result.Summary, analysis.summary)
		result.Detail = append(result.Detail, analysis.rows...)
	}

	// Stable sort keeps the sheet column order for equal deviations.
	sort.SliceStable(result.Summary, func(i, j int) bool {
		return result.Summary[i].MAD > result.Summary[j].MAD
	})

	c.logger.InfoContext(ctx, "benford analysis complete",
		slog.Int("columns", len(columns)),
		slog.Int("digits", result.TotalDigits()))
	return result, nil
}

func (c *Calculator) limit() int {
	if c.config.Parallelism < 1 {
		return 1
	}
	return c.config.Parallelism
}

type columnAnalysis struct {
	summary ColumnSummary
	rows    []DigitRow
}

func analyzeColumn(column dataprocessing.NumericColumn) columnAnalysis {
	var counts [10]int
	total := 0
	for _, value := range column.Values {
		digit, ok := leadingDigit(value)
		if !ok {
			continue
		}
		counts[digit]++
		total++
	}

	summary := ColumnSummary{
		Column:            column.Header,
		TotalValues:       total,
		TopDeviationDigit: 1,
	}
	rows := make([]DigitRow, 0, 9)
	var deviationSum float64
	for digit := 1; digit <= 9; digit++ {
		observed := 0.0
		if total > 0 {
			observed = float64(counts[digit]) / float64(total)
		}
		deviation := observed - expectedDigits[digit]
		rows = append(rows, DigitRow{
			Column:    column.Header,
			Digit:     digit,
			Count:     counts[digit],
			Observed:  observed,
			Expected:  expectedDigits[digit],
			Deviation: deviation,
		})

		abs := math.Abs(deviation)
		deviationSum += abs
		// Strict comparison in ascending digit order makes the lowest
		// digit win deviation ties.
		if abs > summary.MaxAbsDeviation {
			summary.MaxAbsDeviation = abs
			summary.TopDeviationDigit = digit
		}
	}
	summary.MAD = deviationSum / 9
	summary.ChiSquare, summary.PValue = chiSquareFit(counts, total)
	return columnAnalysis{summary: summary, rows: rows}
}

// leadingDigit returns the first significant digit of v's magnitude.
// Zero has no leading digit. Floating-point rounding near exact powers
// of ten can push the computed digit outside 1..9; such values are
// dropped from the population rather than treated as an error.
func leadingDigit(v float64) (int, bool) {
	v = math.Abs(v)
	if v == 0 {
		return 0, false
	}
	exponent := math.Floor(math.Log10(v))
	digit := int(v / math.Pow(10, exponent))
	if digit < 1 || digit > 9 {
		return 0, false
	}
	return digit, true
}

// chiSquareFit tests the observed histogram against the Benford
// distribution with eight degrees of freedom. An empty population fits
// trivially: statistic 0, p-value 1.
func chiSquareFit(counts [10]int, total int) (statistic, pValue float64) {
	if total == 0 {
		return 0, 1
	}
	for digit := 1; digit <= 9; digit++ {
		observed := float64(counts[digit]) / float64(total)
		diff := observed - expectedDigits[digit]
		statistic += diff * diff / expectedDigits[digit]
	}
	statistic *= float64(total)

	chiDist := distuv.ChiSquared{K: 8}
	return statistic, 1 - chiDist.CDF(statistic)
}
