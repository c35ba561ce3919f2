package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"jeaudit/internal/files"
)

// FileValidator checks run inputs and outputs before the pipeline touches them,
// so path problems surface as one clear error instead of a mid-run failure.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputPath verifies that the analysis input exists. Both a single
// workbook file and a directory of workbooks are accepted; the returned
// FileInfo lets the caller distinguish the two modes without a second stat.
func (v *FileValidator) ValidateInputPath(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Input path does not exist",
			slog.String("path", path))
		return nil, fmt.Errorf("input path %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat input path",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to stat input path %s: %w", path, err)
	}
	return info, nil
}

// ValidateOutputDirectory ensures the output directory exists or can be
// created, and that report files can actually be written into it.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateWorkbookFile checks that path names a readable .xlsx workbook.
// Office "~$" lock files are rejected: they sit next to open workbooks but
// are not zip containers.
func (v *FileValidator) ValidateWorkbookFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Workbook does not exist",
			slog.String("file", path))
		return fmt.Errorf("workbook %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat workbook",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat workbook %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Workbook path is a directory",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a workbook", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" {
		v.logger.Error("File is not an xlsx workbook",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("file %s is not an xlsx workbook (extension: %s)", path, ext)
	}

	if files.IsLockFile(path) {
		v.logger.Warn("Refusing Office lock file",
			slog.String("file", path))
		return fmt.Errorf("file %s is an Office lock file", path)
	}

	// Check it is readable before the decoder commits to it.
	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Workbook is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("workbook %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("Workbook validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}
