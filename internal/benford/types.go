package benford

import "math"

// expectedDigits holds the Benford frequency log10(1+1/d) for each
// digit, indexed by digit value. Index 0 is unused.
var expectedDigits [10]float64

func init() {
	for d := 1; d <= 9; d++ {
		expectedDigits[d] = math.Log10(1 + 1/float64(d))
	}
}

// Expected returns the Benford expected frequency for a leading digit.
// Digits outside 1..9 return 0.
func Expected(digit int) float64 {
	if digit < 1 || digit > 9 {
		return 0
	}
	return expectedDigits[digit]
}

// DigitRow is one observed-versus-expected entry of a column's
// leading-digit histogram. Every analyzed column produces exactly nine
// rows, digits 1 through 9, even when no value contributed a digit.
type DigitRow struct {
	Column    string  `json:"column"`
	Digit     int     `json:"digit"`
	Count     int     `json:"count"`
	Observed  float64 `json:"observed"`
	Expected  float64 `json:"expected"`
	Deviation float64 `json:"deviation"`
}

// ColumnSummary condenses a column's nine digit rows into its ranking
// metrics. ChiSquare and PValue carry the goodness-of-fit test against
// the expected distribution with eight degrees of freedom.
type ColumnSummary struct {
	Column            string  `json:"column"`
	TotalValues       int     `json:"total_values"`
	MAD               float64 `json:"mad"`
	MaxAbsDeviation   float64 `json:"max_abs_deviation"`
	TopDeviationDigit int     `json:"top_deviation_digit"`
	ChiSquare         float64 `json:"chi_square"`
	PValue            float64 `json:"p_value"`
}

// Result is the complete output of one analysis run. Summary rows are
// ordered by descending MAD; Detail rows are grouped per column in the
// input column order, nine rows per column with ascending digits.
type Result struct {
	Summary []ColumnSummary `json:"summary"`
	Detail  []DigitRow      `json:"detail"`
}

// TotalDigits sums the leading digits counted across all columns.
func (r *Result) TotalDigits() int {
	total := 0
	for _, s := range r.Summary {
		total += s.TotalValues
	}
	return total
}
