package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo describes a discovered workbook file.
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// IsLockFile reports whether name is an Office owner lock file. Excel drops
// a "~$" sibling next to any open workbook; lock files are not valid zip
// containers and must never be analyzed.
func IsLockFile(name string) bool {
	return strings.HasPrefix(filepath.Base(name), "~$")
}

// Stem returns the base name of path without its extension. Directory runs
// use the stem to name the per-workbook output subdirectory.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FindExcelFiles returns the .xlsx workbooks directly under dir, sorted by
// file name so repeated runs process workbooks in a stable order.
// Subdirectories, Office lock files, and files with other extensions are
// skipped.
func FindExcelFiles(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var found []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".xlsx") || IsLockFile(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		found = append(found, FileInfo{
			Path:    filepath.Join(dir, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Name < found[j].Name
	})

	return found, nil
}
