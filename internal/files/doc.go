// Package files provides workbook discovery for directory-mode analysis runs.
//
// When a run is pointed at a directory instead of a single workbook, the
// discovery pass decides which files enter the pipeline: only .xlsx files
// directly under the directory, sorted by name, with Office "~$" lock files
// excluded.
//
// Example usage:
//
//	workbooks, err := files.FindExcelFiles("ledgers")
//	if err != nil {
//		return err
//	}
//	for _, wb := range workbooks {
//		outDir := filepath.Join(baseOut, files.Stem(wb.Path))
//		// analyze wb.Path into outDir
//	}
package files
