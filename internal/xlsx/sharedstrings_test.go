package xlsx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseSharedStrings tests shared-string table construction, including
// rich-text entries that must flatten into a single string.
func TestParseSharedStrings(t *testing.T) {
	data := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="4" uniqueCount="4">
  <si><t>Alpha</t></si>
  <si><r><t>Beta</t></r><r><t> Gamma</t></r></si>
  <si><t/></si>
  <si><r><t>Mixed </t></r><r><t/></r><r><t>runs</t></r></si>
</sst>`

	st, err := parseSharedStrings([]byte(data))
	require.NoError(t, err)
	require.Equal(t, 4, st.Len())

	tests := []struct {
		name string
		idx  int
		want string
	}{
		{"plain entry", 0, "Alpha"},
		{"rich text concatenated", 1, "Beta Gamma"},
		{"empty fragment", 2, ""},
		{"textless run contributes empty", 3, "Mixed runs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := st.Get(tt.idx)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestSharedStringsGet tests index bounds on the table
func TestSharedStringsGet(t *testing.T) {
	st := &SharedStrings{values: []string{"Alpha", "Beta"}}

	got, ok := st.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "Beta", got)

	_, ok = st.Get(5)
	assert.False(t, ok)
	_, ok = st.Get(-1)
	assert.False(t, ok)

	var empty *SharedStrings
	_, ok = empty.Get(0)
	assert.False(t, ok)
	assert.Equal(t, 0, empty.Len())
}

// TestParseSharedStringsMalformed tests that broken XML surfaces an error
func TestParseSharedStringsMalformed(t *testing.T) {
	_, err := parseSharedStrings([]byte("<sst><si><t>unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse shared strings")
}
