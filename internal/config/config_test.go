package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefault tests the built-in configuration values.
func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)

	assert.Equal(t, 20000.0, cfg.Analysis.DateSerialMin)
	assert.Equal(t, 60000.0, cfg.Analysis.DateSerialMax)
	assert.Equal(t, 0.8, cfg.Analysis.DateLikeFraction)
	assert.Equal(t, 0.01, cfg.Analysis.IntegerTolerance)
	assert.Zero(t, cfg.Analysis.Parallelism)

	assert.Equal(t, "outputs", cfg.Output.Dir)
	assert.Equal(t, "2006-01-02", cfg.Output.DateFormat)
	assert.False(t, cfg.Tracing.Enabled)

	require.NoError(t, cfg.Validate())
}

// TestLoadWithoutFile tests that Load falls back to defaults when no
// config file exists.
func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

// TestLoadFromFile tests YAML overrides merged over defaults.
func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jeaudit.yaml")
	content := `logging:
  level: warn
  output: file
  file_path: /tmp/jeaudit-test.log
analysis:
  date_serial_min: 10000
  date_serial_max: 70000
output:
  dir: reports
tracing:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "file", cfg.Logging.Output)
	assert.Equal(t, "/tmp/jeaudit-test.log", cfg.Logging.FilePath)
	assert.Equal(t, 10000.0, cfg.Analysis.DateSerialMin)
	assert.Equal(t, 70000.0, cfg.Analysis.DateSerialMax)
	assert.Equal(t, "reports", cfg.Output.Dir)
	assert.True(t, cfg.Tracing.Enabled)

	// Untouched settings keep their defaults.
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 0.8, cfg.Analysis.DateLikeFraction)
	assert.Equal(t, "2006-01-02", cfg.Output.DateFormat)
}

// TestLoadEnvOverridesFile tests the precedence of environment
// variables over file values.
func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jeaudit.yaml")
	content := `logging:
  level: warn
output:
  dir: reports
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("JEAUDIT_LOGGING_LEVEL", "debug")
	t.Setenv("JEAUDIT_OUTPUT_DIR", "env-outputs")
	t.Setenv("JEAUDIT_ANALYSIS_PARALLELISM", "3")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "env-outputs", cfg.Output.Dir)
	assert.Equal(t, 3, cfg.Analysis.Parallelism)
}

// TestLoadMissingExplicitFile tests that a named config file must
// exist.
func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

// TestLoadInvalidYAML tests the parse error path.
func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jeaudit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging: [not a map"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

// TestValidate tests rejection of out-of-range settings.
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "unknown log level",
			mutate: func(c *Config) { c.Logging.Level = "verbose" },
		},
		{
			name:   "unknown log format",
			mutate: func(c *Config) { c.Logging.Format = "xml" },
		},
		{
			name:   "unknown log output",
			mutate: func(c *Config) { c.Logging.Output = "syslog" },
		},
		{
			name:   "serial range inverted",
			mutate: func(c *Config) { c.Analysis.DateSerialMax = c.Analysis.DateSerialMin - 1 },
		},
		{
			name:   "date fraction above one",
			mutate: func(c *Config) { c.Analysis.DateLikeFraction = 1.5 },
		},
		{
			name:   "negative tolerance",
			mutate: func(c *Config) { c.Analysis.IntegerTolerance = -0.5 },
		},
		{
			name:   "negative parallelism",
			mutate: func(c *Config) { c.Analysis.Parallelism = -1 },
		},
		{
			name:   "empty output dir",
			mutate: func(c *Config) { c.Output.Dir = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation")
		})
	}
}

// TestLoadRejectsInvalidFile tests that validation runs on merged file
// settings.
func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jeaudit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation")
}

// TestEffectiveParallelism tests the zero-means-auto resolution.
func TestEffectiveParallelism(t *testing.T) {
	cfg := Default()
	assert.Equal(t, runtime.NumCPU(), cfg.Analysis.EffectiveParallelism())

	cfg.Analysis.Parallelism = 4
	assert.Equal(t, 4, cfg.Analysis.EffectiveParallelism())
}
