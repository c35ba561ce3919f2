// Package dataprocessing turns an extracted worksheet grid into the typed
// views the analysis and reporting layers consume.
//
// The package is organized into two components:
//
// Classifier: parses each sheet column's non-empty cells as numbers and
// filters out date-like columns so spreadsheet serial dates cannot corrupt
// leading-digit statistics. The surviving columns form the input to the
// Benford engine.
//
// Summarizer: profiles the whole sheet for the descriptive report: per
// column null/unique counts and a coarse type, descriptive statistics for
// numeric columns, and observed ranges for date columns, together with the
// writers for the summary CSV and text outputs.
//
// Basic classification example:
//
//	classifier := dataprocessing.NewClassifier(logger, dataprocessing.DefaultClassifierConfig())
//	columns := classifier.NumericColumns(ctx, sheet)
//	for _, col := range columns {
//	    _ = col.Header // column order follows the sheet
//	}
package dataprocessing
