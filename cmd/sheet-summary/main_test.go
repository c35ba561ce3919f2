package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"jeaudit/internal/config"
	"jeaudit/internal/shared/testutil"
)

func writeWorkbook(t *testing.T, path string, cells map[string]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	for ref, value := range cells {
		require.NoError(t, f.SetCellValue("Sheet1", ref, value))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
}

func testConfig(outputDir string) *config.Config {
	cfg := config.Default()
	cfg.Output.Dir = outputDir
	return cfg
}

func TestRunSingleWorkbook(t *testing.T) {
	dir := t.TempDir()
	workbook := filepath.Join(dir, "ledger.xlsx")
	writeWorkbook(t, workbook, map[string]interface{}{
		"A1": "Account", "B1": "Amount", "C1": "Posting Date",
		"A2": "Cash", "B2": 100.5, "C2": 45000,
		"A3": "Rent", "B3": 220.0, "C3": 45002,
	})
	outDir := filepath.Join(dir, "out")

	logger, handler := testutil.NewTestLogger(t)

	require.NoError(t, run(context.Background(), workbook, testConfig(outDir), logger))

	assert.FileExists(t, filepath.Join(outDir, "column_summary.csv"))
	assert.FileExists(t, filepath.Join(outDir, "numeric_summary.csv"))
	assert.FileExists(t, filepath.Join(outDir, "date_summary.csv"))
	assert.FileExists(t, filepath.Join(outDir, "sheet_summary.txt"))

	columns, err := os.ReadFile(filepath.Join(outDir, "column_summary.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(columns), "Account,2,0,2,text")
	assert.Contains(t, string(columns), "Amount,2,0,2,numeric")
	assert.Contains(t, string(columns), "Posting Date,2,0,2,date")

	dates, err := os.ReadFile(filepath.Join(outDir, "date_summary.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(dates), "Posting Date,2023-03-15,2023-03-17")

	testutil.AssertNoErrors(t, handler)
	assert.True(t, handler.ContainsMessage("wrote descriptive reports"))
}

func TestRunDirectoryMode(t *testing.T) {
	dir := t.TempDir()
	inDir := filepath.Join(dir, "ledgers")
	require.NoError(t, os.Mkdir(inDir, 0o755))
	writeWorkbook(t, filepath.Join(inDir, "april.xlsx"), map[string]interface{}{
		"A1": "Amount", "A2": 123.0,
	})
	writeWorkbook(t, filepath.Join(inDir, "may.xlsx"), map[string]interface{}{
		"A1": "Amount", "A2": 456.0,
	})
	outDir := filepath.Join(dir, "out")

	logger, handler := testutil.NewTestLogger(t)

	require.NoError(t, run(context.Background(), inDir, testConfig(outDir), logger))

	assert.FileExists(t, filepath.Join(outDir, "april", "column_summary.csv"))
	assert.FileExists(t, filepath.Join(outDir, "may", "column_summary.csv"))
	testutil.AssertNoErrors(t, handler)
}

func TestRunCorruptWorkbook(t *testing.T) {
	dir := t.TempDir()
	workbook := filepath.Join(dir, "corrupt.xlsx")
	require.NoError(t, os.WriteFile(workbook, []byte("not a zip"), 0o644))

	logger, handler := testutil.NewTestLogger(t)

	err := run(context.Background(), workbook, testConfig(filepath.Join(dir, "out")), logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no workbook profiled successfully")
	assert.True(t, handler.ContainsMessage("Workbook profiling failed"))
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	logger, _ := testutil.NewTestLogger(t)

	err := run(context.Background(), filepath.Join(dir, "absent.xlsx"), testConfig(filepath.Join(dir, "out")), logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := config.Default()
	applyFlagOverrides(cfg, "", "", false)
	assert.Equal(t, "outputs", cfg.Output.Dir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Tracing.Enabled)

	applyFlagOverrides(cfg, "profiles", "warn", true)
	assert.Equal(t, "profiles", cfg.Output.Dir)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Tracing.Enabled)
}

func TestNameList(t *testing.T) {
	assert.Equal(t, "None", nameList(nil))
	assert.Equal(t, "Amount, Quantity", nameList([]string{"Amount", "Quantity"}))
}
