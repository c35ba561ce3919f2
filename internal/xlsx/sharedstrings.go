package xlsx

import (
	"encoding/xml"
	"fmt"
)

// sharedStringsPart is the conventional location of the shared-string table
// inside an xlsx package. The part is optional.
const sharedStringsPart = "xl/sharedStrings.xml"

// SharedStrings is the workbook's deduplicated pool of text values. Cells
// typed as shared strings carry an integer index into this table instead of
// the text itself. The table is built once per package and never mutated.
type SharedStrings struct {
	values []string
}

// Get returns the string at index i and whether the index is valid.
func (st *SharedStrings) Get(i int) (string, bool) {
	if st == nil || i < 0 || i >= len(st.values) {
		return "", false
	}
	return st.values[i], true
}

// Len returns the number of entries in the table.
func (st *SharedStrings) Len() int {
	if st == nil {
		return 0
	}
	return len(st.values)
}

// xmlSST maps the sst root element of xl/sharedStrings.xml.
type xmlSST struct {
	XMLName xml.Name `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main sst"`
	Items   []xmlSI  `xml:"si"`
}

// xmlSI is one string-table entry: either a single t element or a sequence
// of rich-text runs, each with its own t.
type xmlSI struct {
	T    *xmlText `xml:"t"`
	Runs []xmlRun `xml:"r"`
}

type xmlRun struct {
	T *xmlText `xml:"t"`
}

// xmlText captures a t element's character data. A pointer distinguishes a
// missing element from one that is present but empty.
type xmlText struct {
	Text string `xml:",chardata"`
}

// parseSharedStrings builds the table from the raw bytes of the
// shared-strings part. Entries composed of rich-text runs are flattened by
// concatenating every fragment's text in document order; fragments without
// text contribute the empty string.
func parseSharedStrings(data []byte) (*SharedStrings, error) {
	var sst xmlSST
	if err := xml.Unmarshal(data, &sst); err != nil {
		return nil, fmt.Errorf("xlsx: parse shared strings: %w", err)
	}
	values := make([]string, 0, len(sst.Items))
	for _, si := range sst.Items {
		s := ""
		if si.T != nil {
			s = si.T.Text
		}
		for _, run := range si.Runs {
			if run.T != nil {
				s += run.T.Text
			}
		}
		values = append(values, s)
	}
	return &SharedStrings{values: values}, nil
}
