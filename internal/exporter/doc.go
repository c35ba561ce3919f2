// Package exporter provides CSV writing helpers shared by the report
// emitters.
//
// CSVWriter resolves relative file names against a base output directory,
// creates missing directories, and writes header-plus-records tables in one
// call. WriteOptions exposes append mode and an optional UTF-8 BOM prefix
// for consumers that open the files in Excel.
//
// StreamWriter writes large tables row by row without holding every record
// in memory; Close flushes and reports any buffered write error.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter("outputs", logger)
//	err := writer.WriteSimpleCSV("benford_summary.csv", headers, records)
//
//	stream, err := writer.CreateStreamWriter("benford_digit_detail.csv", headers)
//	for _, row := range rows {
//	    if err := stream.WriteRecord(row); err != nil { ... }
//	}
//	err = stream.Close()
package exporter
