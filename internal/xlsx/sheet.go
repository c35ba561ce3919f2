package xlsx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

const worksheetPrefix = "xl/worksheets/sheet"

// FormatError reports a package that contains no worksheet part. It is
// fatal: without a worksheet there is nothing to extract.
type FormatError struct {
	Path string
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return "xlsx: no worksheet found in workbook"
	}
	return fmt.Sprintf("xlsx: %s: no worksheet found in workbook", e.Path)
}

// HeaderMissingError reports a worksheet with no row at index 1. The first
// row is consumed as the header row, so a sheet without it has no usable
// shape.
type HeaderMissingError struct {
	Path string
}

func (e *HeaderMissingError) Error() string {
	if e.Path == "" {
		return "xlsx: unable to locate header row"
	}
	return fmt.Sprintf("xlsx: %s: unable to locate header row", e.Path)
}

// Sheet is the dense, rectangular form of the first worksheet. Row 1 of
// the source becomes Headers and is excluded from Rows; every row in Rows
// has exactly len(Headers) cells, padded with Empty where the source had
// no record.
type Sheet struct {
	Headers []string
	Rows    [][]CellValue
}

// ColumnCount returns the number of columns in the sheet.
func (s *Sheet) ColumnCount() int {
	return len(s.Headers)
}

// xmlWorksheet maps the worksheet root element. Everything but sheetData
// is ignored.
type xmlWorksheet struct {
	XMLName   xml.Name     `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main worksheet"`
	SheetData xmlSheetData `xml:"sheetData"`
}

type xmlSheetData struct {
	Rows []xmlRow `xml:"row"`
}

// xmlRow maps a row element. R is the declared 1-based row index; rows
// without one cannot be placed in the grid and are dropped.
type xmlRow struct {
	R     int       `xml:"r,attr"`
	Cells []xmlCell `xml:"c"`
}

// ExtractSheet opens the workbook at path and extracts its first
// worksheet. The worksheet part is chosen deterministically: candidate
// part names are sorted and the lexicographically first one wins, so the
// choice does not depend on the archive's internal ordering.
//
// It returns *FormatError when the package has no worksheet part and
// *HeaderMissingError when the worksheet has no row at index 1.
func ExtractSheet(path string) (*Sheet, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open %s: %w", path, err)
	}
	defer zr.Close()
	return extractSheet(&zr.Reader, path)
}

// ExtractSheetReader extracts the first worksheet from an in-memory
// workbook. size must be the total byte length of the zip data.
func ExtractSheetReader(r io.ReaderAt, size int64) (*Sheet, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open reader: %w", err)
	}
	return extractSheet(zr, "")
}

func extractSheet(zr *zip.Reader, path string) (*Sheet, error) {
	var sheetNames []string
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, worksheetPrefix) && strings.HasSuffix(f.Name, ".xml") {
			sheetNames = append(sheetNames, f.Name)
		}
	}
	if len(sheetNames) == 0 {
		return nil, &FormatError{Path: path}
	}
	sort.Strings(sheetNames)

	shared, err := loadSharedStrings(zr)
	if err != nil {
		return nil, err
	}

	data, err := readZipEntry(zr, sheetNames[0])
	if err != nil {
		return nil, fmt.Errorf("xlsx: read %s: %w", sheetNames[0], err)
	}
	var ws xmlWorksheet
	if err := xml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("xlsx: parse %s: %w", sheetNames[0], err)
	}

	// Sparse accumulation first: cells are not guaranteed to arrive in
	// row or column order, so the grid is resolved only after the full
	// scan.
	rows := make(map[int]map[int]CellValue)
	maxCol := 0
	for _, row := range ws.SheetData.Rows {
		rowCells := make(map[int]CellValue)
		for _, c := range row.Cells {
			col := ColumnIndex(c.R)
			if col == 0 {
				continue
			}
			rowCells[col] = decodeCell(c, shared)
			if col > maxCol {
				maxCol = col
			}
		}
		if row.R != 0 {
			rows[row.R] = rowCells
		}
	}

	headerRow, ok := rows[1]
	if !ok {
		return nil, &HeaderMissingError{Path: path}
	}

	headers := make([]string, 0, maxCol)
	for col := 1; col <= maxCol; col++ {
		s := headerRow[col].String()
		if s == "" {
			s = fmt.Sprintf("Column%d", col)
		}
		headers = append(headers, strings.TrimSpace(s))
	}

	indices := make([]int, 0, len(rows))
	for idx := range rows {
		if idx != 1 {
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)

	dataRows := make([][]CellValue, 0, len(indices))
	for _, idx := range indices {
		rowCells := rows[idx]
		row := make([]CellValue, maxCol)
		for col := 1; col <= maxCol; col++ {
			row[col-1] = rowCells[col]
		}
		dataRows = append(dataRows, row)
	}

	return &Sheet{Headers: headers, Rows: dataRows}, nil
}

// loadSharedStrings reads the optional shared-strings part. A package
// without one simply has no shared text, so an absent part yields an
// empty table. A part that is present but unreadable is a real failure.
func loadSharedStrings(zr *zip.Reader) (*SharedStrings, error) {
	if !hasZipEntry(zr, sharedStringsPart) {
		return &SharedStrings{}, nil
	}
	data, err := readZipEntry(zr, sharedStringsPart)
	if err != nil {
		return nil, fmt.Errorf("xlsx: read %s: %w", sharedStringsPart, err)
	}
	return parseSharedStrings(data)
}

func hasZipEntry(zr *zip.Reader, name string) bool {
	for _, f := range zr.File {
		if f.Name == name {
			return true
		}
	}
	return false
}

func readZipEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			data, readErr := io.ReadAll(rc)
			closeErr := rc.Close()
			if readErr != nil {
				return nil, readErr
			}
			// A decompressor checksum failure surfaces on Close even when
			// the read itself appeared to succeed.
			if closeErr != nil {
				return nil, closeErr
			}
			return data, nil
		}
	}
	return nil, fmt.Errorf("%q not found in archive", name)
}
