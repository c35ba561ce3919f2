// Package xlsx reads tabular data out of xlsx workbooks using only the
// standard library zip and XML decoders, with no spreadsheet dependency.
//
// The reader is deliberately minimal: it understands just enough of the
// SpreadsheetML package structure to recover a header row and a dense,
// rectangular grid of typed cell values from the first worksheet of a
// workbook. It does not evaluate formulas, resolve styles, merge cells,
// or look at any worksheet beyond the first.
//
// The package exposes four pieces:
//
// ColumnIndex: converts the letter prefix of a cell reference ("AB12")
// into its 1-based column number.
//
// SharedStrings: the workbook's shared-string table, loaded once per
// package and indexed by the integer ids that cells reference.
//
// CellValue: a three-state value (empty, number, or text) decoded from a
// raw cell record. Malformed cells degrade to a safe state instead of
// failing the extraction.
//
// ExtractSheet: opens a workbook file, deterministically selects the
// first worksheet part, and assembles the Sheet grid.
//
// Example usage:
//
//	sheet, err := xlsx.ExtractSheet("je_samples.xlsx")
//	if err != nil {
//	    // *xlsx.FormatError and *xlsx.HeaderMissingError identify the
//	    // two structural failures; anything else is a container error.
//	}
//	for _, row := range sheet.Rows {
//	    _ = row // one CellValue per header
//	}
package xlsx
