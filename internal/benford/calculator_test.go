package benford

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jeaudit/internal/dataprocessing"
	"jeaudit/internal/xlsx"
)

// TestExpected tests the Benford reference distribution.
func TestExpected(t *testing.T) {
	assert.InDelta(t, 0.30102999566398, Expected(1), 1e-12)
	assert.InDelta(t, 0.17609125905568, Expected(2), 1e-12)
	assert.InDelta(t, 0.04575749056067, Expected(9), 1e-12)
	assert.Zero(t, Expected(0))
	assert.Zero(t, Expected(10))

	sum := 0.0
	for d := 1; d <= 9; d++ {
		sum += Expected(d)
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

// TestLeadingDigit tests first-digit extraction across magnitudes.
func TestLeadingDigit(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		digit int
		ok    bool
	}{
		{name: "single digit", value: 7, digit: 7, ok: true},
		{name: "smallest digit", value: 1, digit: 1, ok: true},
		{name: "largest digit", value: 9, digit: 9, ok: true},
		{name: "hundreds", value: 123.45, digit: 1, ok: true},
		{name: "negative", value: -789, digit: 7, ok: true},
		{name: "fraction", value: 0.00456, digit: 4, ok: true},
		{name: "near ten", value: 9.875, digit: 9, ok: true},
		{name: "tiny", value: 5e-7, digit: 5, ok: true},
		{name: "large", value: 3.2e11, digit: 3, ok: true},
		{name: "zero excluded", value: 0, ok: false},
		{name: "negative zero excluded", value: math.Copysign(0, -1), ok: false},
		{name: "nan dropped", value: math.NaN(), ok: false},
		{name: "inf dropped", value: math.Inf(1), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digit, ok := leadingDigit(tt.value)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.digit, digit)
			}
		})
	}
}

// TestCalculateUniformDistribution tests the histogram for one value
// per digit: every observed frequency is exactly 1/9 and the MAD is the
// mean distance between the uniform and Benford distributions.
func TestCalculateUniformDistribution(t *testing.T) {
	column := dataprocessing.NumericColumn{
		Header: "Amount",
		Values: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9},
	}

	calc := NewCalculator(nil, DefaultConfig())
	result, err := calc.Calculate(context.Background(), []dataprocessing.NumericColumn{column})
	require.NoError(t, err)

	require.Len(t, result.Detail, 9)
	wantMAD := 0.0
	for i, row := range result.Detail {
		digit := i + 1
		assert.Equal(t, "Amount", row.Column)
		assert.Equal(t, digit, row.Digit)
		assert.Equal(t, 1, row.Count)
		assert.Equal(t, 1.0/9.0, row.Observed)
		assert.Equal(t, Expected(digit), row.Expected)
		wantMAD += math.Abs(1.0/9.0 - Expected(digit))
	}
	wantMAD /= 9

	require.Len(t, result.Summary, 1)
	summary := result.Summary[0]
	assert.Equal(t, 9, summary.TotalValues)
	assert.InDelta(t, wantMAD, summary.MAD, 1e-15)
	// Digit 1 sits farthest from uniform: 1/9 observed against 0.301.
	assert.InDelta(t, Expected(1)-1.0/9.0, summary.MaxAbsDeviation, 1e-15)
	assert.Equal(t, 1, summary.TopDeviationDigit)
}

// TestCalculateZeroValues tests that zeros leave the digit population
// empty while still producing nine rows of zero observations.
func TestCalculateZeroValues(t *testing.T) {
	column := dataprocessing.NumericColumn{Header: "Adjustments", Values: []float64{0, 0, 0}}

	calc := NewCalculator(nil, DefaultConfig())
	result, err := calc.Calculate(context.Background(), []dataprocessing.NumericColumn{column})
	require.NoError(t, err)

	require.Len(t, result.Detail, 9)
	for _, row := range result.Detail {
		assert.Equal(t, 0, row.Count)
		assert.Equal(t, 0.0, row.Observed)
		assert.Equal(t, -row.Expected, row.Deviation)
	}

	require.Len(t, result.Summary, 1)
	summary := result.Summary[0]
	assert.Equal(t, 0, summary.TotalValues)
	// With all observations zero the deviations are the expected
	// frequencies themselves, which sum to one.
	assert.InDelta(t, 1.0/9.0, summary.MAD, 1e-15)
	assert.InDelta(t, Expected(1), summary.MaxAbsDeviation, 1e-15)
	assert.Equal(t, 1, summary.TopDeviationDigit)
	assert.Equal(t, 0.0, summary.ChiSquare)
	assert.Equal(t, 1.0, summary.PValue)
}

// TestCalculateRanking tests descending MAD order with a stable tie
// break on the input order.
func TestCalculateRanking(t *testing.T) {
	benfordish := make([]float64, 0, 100)
	for digit := 1; digit <= 9; digit++ {
		n := int(math.Round(Expected(digit) * 100))
		for i := 0; i < n; i++ {
			benfordish = append(benfordish, float64(digit))
		}
	}
	skewed := make([]float64, 100)
	for i := range skewed {
		skewed[i] = 9
	}

	columns := []dataprocessing.NumericColumn{
		{Header: "Clean", Values: benfordish},
		{Header: "Skewed", Values: skewed},
		{Header: "CleanCopy", Values: benfordish},
	}

	calc := NewCalculator(nil, DefaultConfig())
	result, err := calc.Calculate(context.Background(), columns)
	require.NoError(t, err)

	require.Len(t, result.Summary, 3)
	assert.Equal(t, "Skewed", result.Summary[0].Column)
	// Equal MADs keep their input order.
	assert.Equal(t, "Clean", result.Summary[1].Column)
	assert.Equal(t, "CleanCopy", result.Summary[2].Column)
	assert.Greater(t, result.Summary[0].MAD, result.Summary[1].MAD)
	assert.Equal(t, result.Summary[1].MAD, result.Summary[2].MAD)

	// Detail rows stay grouped in input column order.
	require.Len(t, result.Detail, 27)
	assert.Equal(t, "Clean", result.Detail[0].Column)
	assert.Equal(t, "Skewed", result.Detail[9].Column)
	assert.Equal(t, "CleanCopy", result.Detail[18].Column)
}

// TestCalculateChiSquare tests the goodness-of-fit supplement: a
// heavily skewed column is flagged with a near-zero p-value while a
// conforming column is not.
func TestCalculateChiSquare(t *testing.T) {
	benfordish := make([]float64, 0, 1000)
	for digit := 1; digit <= 9; digit++ {
		n := int(math.Round(Expected(digit) * 1000))
		for i := 0; i < n; i++ {
			benfordish = append(benfordish, float64(digit))
		}
	}
	skewed := make([]float64, 100)
	for i := range skewed {
		skewed[i] = 9
	}

	columns := []dataprocessing.NumericColumn{
		{Header: "Clean", Values: benfordish},
		{Header: "Skewed", Values: skewed},
	}

	calc := NewCalculator(nil, DefaultConfig())
	result, err := calc.Calculate(context.Background(), columns)
	require.NoError(t, err)

	byColumn := make(map[string]ColumnSummary, len(result.Summary))
	for _, row := range result.Summary {
		byColumn[row.Column] = row
	}

	assert.Less(t, byColumn["Skewed"].PValue, 0.001)
	assert.Greater(t, byColumn["Skewed"].ChiSquare, 100.0)
	assert.Greater(t, byColumn["Clean"].PValue, 0.05)
	assert.Less(t, byColumn["Clean"].ChiSquare, byColumn["Skewed"].ChiSquare)
}

// TestCalculateNoColumns tests the degenerate empty input.
func TestCalculateNoColumns(t *testing.T) {
	calc := NewCalculator(nil, DefaultConfig())
	result, err := calc.Calculate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Summary)
	assert.Empty(t, result.Detail)
	assert.Zero(t, result.TotalDigits())
}

// TestCalculateIdempotent tests that repeated runs over the same
// columns produce identical output.
func TestCalculateIdempotent(t *testing.T) {
	columns := []dataprocessing.NumericColumn{
		{Header: "Amount", Values: []float64{125.5, 980, 1200.75, 33, 47, 91}},
		{Header: "Tax", Values: []float64{8.25, 12, 3.1}},
	}

	calc := NewCalculator(nil, DefaultConfig())
	first, err := calc.Calculate(context.Background(), columns)
	require.NoError(t, err)
	second, err := calc.Calculate(context.Background(), columns)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestCalculateParallelism tests that concurrent and sequential runs
// agree for every parallelism setting.
func TestCalculateParallelism(t *testing.T) {
	columns := make([]dataprocessing.NumericColumn, 0, 16)
	for i := 0; i < 16; i++ {
		values := make([]float64, 0, 50)
		for j := 1; j <= 50; j++ {
			values = append(values, float64((i+1)*j)+0.5)
		}
		columns = append(columns, dataprocessing.NumericColumn{
			Header: string(rune('A' + i)),
			Values: values,
		})
	}

	sequential, err := NewCalculator(nil, Config{Parallelism: 1}).Calculate(context.Background(), columns)
	require.NoError(t, err)

	for _, parallelism := range []int{0, 2, 4, 16} {
		calc := NewCalculator(nil, Config{Parallelism: parallelism})
		got, err := calc.Calculate(context.Background(), columns)
		require.NoError(t, err)
		assert.Equal(t, sequential, got)
	}
}

// TestCalculateCanceledContext tests that a canceled context aborts the
// run.
func TestCalculateCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	columns := []dataprocessing.NumericColumn{
		{Header: "Amount", Values: []float64{1, 2, 3}},
	}
	calc := NewCalculator(nil, DefaultConfig())
	_, err := calc.Calculate(ctx, columns)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestClassifyAndCalculate tests the classifier and calculator
// together: a date-like column is excluded and the remaining column
// concentrates all counts on digit one.
func TestClassifyAndCalculate(t *testing.T) {
	sheet := &xlsx.Sheet{
		Headers: []string{"A", "B"},
		Rows: [][]xlsx.CellValue{
			{xlsx.NumberValue(100), xlsx.NumberValue(20000)},
			{xlsx.NumberValue(110), xlsx.NumberValue(20001)},
			{xlsx.NumberValue(120), xlsx.TextValue("x")},
		},
	}

	classifier := dataprocessing.NewClassifier(nil, dataprocessing.DefaultClassifierConfig())
	columns := classifier.NumericColumns(context.Background(), sheet)
	require.Len(t, columns, 1)
	require.Equal(t, "A", columns[0].Header)
	require.Equal(t, []float64{100, 110, 120}, columns[0].Values)

	calc := NewCalculator(nil, DefaultConfig())
	result, err := calc.Calculate(context.Background(), columns)
	require.NoError(t, err)

	require.Len(t, result.Detail, 9)
	for i, row := range result.Detail {
		digit := i + 1
		assert.Equal(t, "A", row.Column)
		assert.Equal(t, digit, row.Digit)
		if digit == 1 {
			assert.Equal(t, 3, row.Count)
			assert.Equal(t, 1.0, row.Observed)
		} else {
			assert.Equal(t, 0, row.Count)
			assert.Equal(t, 0.0, row.Observed)
		}
	}

	require.Len(t, result.Summary, 1)
	summary := result.Summary[0]
	assert.Equal(t, 3, summary.TotalValues)
	wantMAD := math.Abs(1 - Expected(1))
	for digit := 2; digit <= 9; digit++ {
		wantMAD += Expected(digit)
	}
	wantMAD /= 9
	assert.InDelta(t, wantMAD, summary.MAD, 1e-15)
	assert.Equal(t, 1, summary.TopDeviationDigit)
}
