package exporter

import (
	"math"
	"strconv"
)

// FormatFloat renders a float for CSV output in its shortest round-trip
// form ("0.3010299956639812", "3", "1.5"), so tables keep full precision
// without trailing noise. NaN renders as the empty string, the way a
// missing statistic is conventionally shown in a CSV cell.
func FormatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatInt renders an integer for CSV output.
func FormatInt(i int) string {
	return strconv.Itoa(i)
}
