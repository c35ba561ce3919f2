package xlsx

// ColumnIndex converts the leading column letters of a cell reference into
// a 1-based column number: "A" is 1, "Z" is 26, "AA" is 27, "AB12" is 28.
// The letter run is read as a base-26 numeral whose digits are A=1..Z=26;
// there is no zero digit.
//
// A reference that does not start with an uppercase letter has no column
// and yields 0. Callers must treat 0 as "skip this cell" rather than an
// addressable column.
func ColumnIndex(ref string) int {
	idx := 0
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		if c < 'A' || c > 'Z' {
			break
		}
		idx = idx*26 + int(c-'A'+1)
	}
	return idx
}
