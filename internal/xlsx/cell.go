package xlsx

import (
	"strconv"
	"strings"
)

// CellKind discriminates the three states a decoded cell can be in.
type CellKind uint8

const (
	// KindEmpty marks a cell with no usable value. Missing cells, blank
	// value nodes, and unresolvable shared-string references all decode
	// to this state.
	KindEmpty CellKind = iota
	// KindNumber marks a cell decoded to a float64.
	KindNumber
	// KindText marks a cell decoded to a string.
	KindText
)

// CellValue is a decoded worksheet cell: empty, a number, or text. The
// zero value is the empty cell.
type CellValue struct {
	Kind   CellKind
	Number float64
	Text   string
}

// Empty is the canonical empty cell.
var Empty = CellValue{}

// NumberValue returns a cell holding the given number.
func NumberValue(f float64) CellValue {
	return CellValue{Kind: KindNumber, Number: f}
}

// TextValue returns a cell holding the given text.
func TextValue(s string) CellValue {
	return CellValue{Kind: KindText, Text: s}
}

// IsEmpty reports whether the cell holds no value.
func (v CellValue) IsEmpty() bool {
	return v.Kind == KindEmpty
}

// String renders the cell for display: text as-is, numbers in their
// shortest round-trip form, and the empty cell as "".
func (v CellValue) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case KindText:
		return v.Text
	default:
		return ""
	}
}

// xmlCell maps a c element inside a worksheet row. Only the attributes and
// children this reader consumes are modeled.
type xmlCell struct {
	R  string     `xml:"r,attr"` // cell reference, e.g. "B12"
	T  string     `xml:"t,attr"` // declared type: "s", "n", "inlineStr", ...
	V  *xmlText   `xml:"v"`
	IS *xmlInline `xml:"is"`
}

// xmlInline maps an is element, a string embedded directly in the cell
// rather than referenced through the shared-string table.
type xmlInline struct {
	T    *xmlText `xml:"t"`
	Runs []xmlRun `xml:"r"`
}

// text returns the first text fragment of the inline string in document
// order, or "" when the element carries no text.
func (in *xmlInline) text() string {
	if in == nil {
		return ""
	}
	if in.T != nil {
		return in.T.Text
	}
	for _, run := range in.Runs {
		if run.T != nil {
			return run.T.Text
		}
	}
	return ""
}

// decodeCell turns a raw cell record into a CellValue. Anomalies degrade
// to a safe state instead of failing the extraction: an unresolvable
// shared-string index becomes Empty, and a numeric-typed cell whose value
// does not parse keeps its raw text. Some producers emit non-numeric
// content in numeric-typed cells, so the raw text is the only honest
// fallback.
func decodeCell(c xmlCell, shared *SharedStrings) CellValue {
	if c.T == "inlineStr" {
		if s := c.IS.text(); s != "" {
			return TextValue(s)
		}
		return Empty
	}

	if c.V == nil || c.V.Text == "" {
		return Empty
	}
	raw := c.V.Text

	switch c.T {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Empty
		}
		s, ok := shared.Get(idx)
		if !ok {
			return Empty
		}
		return TextValue(s)
	case "", "n":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return TextValue(raw)
		}
		return NumberValue(f)
	default:
		return TextValue(raw)
	}
}
