package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestFindExcelFiles(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "q3_ledger.xlsx")
	writeFile(t, dir, "april.XLSX")
	writeFile(t, dir, "~$q3_ledger.xlsx")
	writeFile(t, dir, "notes.csv")
	writeFile(t, dir, "legacy.xls")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.xlsx"), 0o755))

	found, err := FindExcelFiles(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(found))
	for _, f := range found {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"april.XLSX", "q3_ledger.xlsx"}, names)

	for _, f := range found {
		assert.Equal(t, filepath.Join(dir, f.Name), f.Path)
		assert.Positive(t, f.Size)
		assert.False(t, f.ModTime.IsZero())
	}
}

func TestFindExcelFilesSortedByName(t *testing.T) {
	dir := t.TempDir()

	// Written out of lexical order; discovery must not depend on mtime.
	for _, name := range []string{"zeta.xlsx", "alpha.xlsx", "mid.xlsx"} {
		writeFile(t, dir, name)
	}

	found, err := FindExcelFiles(dir)
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, "alpha.xlsx", found[0].Name)
	assert.Equal(t, "mid.xlsx", found[1].Name)
	assert.Equal(t, "zeta.xlsx", found[2].Name)
}

func TestFindExcelFilesEmptyDirectory(t *testing.T) {
	found, err := FindExcelFiles(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFindExcelFilesMissingDirectory(t *testing.T) {
	_, err := FindExcelFiles(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read directory")
}

func TestIsLockFile(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "lock file", path: "~$ledger.xlsx", want: true},
		{name: "lock file with directory", path: "data/~$ledger.xlsx", want: true},
		{name: "regular workbook", path: "ledger.xlsx", want: false},
		{name: "tilde inside name", path: "ledger~$old.xlsx", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLockFile(tt.path))
		})
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "plain file", path: "je_samples.xlsx", want: "je_samples"},
		{name: "nested path", path: "data/input/q3_ledger.xlsx", want: "q3_ledger"},
		{name: "no extension", path: "ledger", want: "ledger"},
		{name: "dotted name", path: "2025.q3.xlsx", want: "2025.q3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stem(tt.path))
		})
	}
}
