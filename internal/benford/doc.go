// Package benford implements leading-digit frequency analysis against
// the Benford distribution, the core anomaly screen of the audit
// pipeline.
//
// The package provides:
//   - Calculator: tallies per-column leading-digit histograms and ranks
//     columns by mean absolute deviation from the expected distribution
//   - Writer: persists the analysis as CSV tables, a JSON report, a
//     plain-text report, and SVG charts
//
// Example usage:
//
//	calc := benford.NewCalculator(logger, benford.DefaultConfig())
//	result, err := calc.Calculate(ctx, columns)
//	if err != nil {
//		return err
//	}
//	writer := benford.NewWriter(outputDir, logger)
//	if err := writer.WriteAll(ctx, result, meta); err != nil {
//		return err
//	}
//
// Columns whose total deviation is largest appear first in the summary,
// surfacing the most anomalous columns for review.
package benford
