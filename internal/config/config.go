package config

import (
	"fmt"
	"os"
	"reflect"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix is the environment variable prefix for all settings.
const envPrefix = "JEAUDIT"

// Config represents the complete application configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
	Tracing  TracingConfig  `yaml:"tracing" envconfig:"TRACING"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/jeaudit.log"`
}

// AnalysisConfig tunes column classification and the Benford engine.
// The serial range and tolerance drive the date-like column heuristic.
type AnalysisConfig struct {
	DateSerialMin    float64 `yaml:"date_serial_min" envconfig:"DATE_SERIAL_MIN" default:"20000" validate:"gt=0"`
	DateSerialMax    float64 `yaml:"date_serial_max" envconfig:"DATE_SERIAL_MAX" default:"60000" validate:"gtfield=DateSerialMin"`
	DateLikeFraction float64 `yaml:"date_like_fraction" envconfig:"DATE_LIKE_FRACTION" default:"0.8" validate:"gt=0,lte=1"`
	IntegerTolerance float64 `yaml:"integer_tolerance" envconfig:"INTEGER_TOLERANCE" default:"0.01" validate:"gte=0,lt=1"`
	Parallelism      int     `yaml:"parallelism" envconfig:"PARALLELISM" validate:"gte=0"`
}

// OutputConfig controls where and how reports are written.
type OutputConfig struct {
	Dir        string `yaml:"dir" envconfig:"DIR" default:"outputs" validate:"required"`
	DateFormat string `yaml:"date_format" envconfig:"DATE_FORMAT" default:"2006-01-02" validate:"required"`
}

// TracingConfig controls span export for pipeline stages.
type TracingConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"ENABLED"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Use YAML key names in validation error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Load builds the configuration from defaults, an optional YAML file,
// and JEAUDIT_* environment variables, then validates it. An empty path
// falls back to the default config locations; a missing default file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	resolved := path
	if resolved == "" {
		resolved = findConfigFile()
	}
	if resolved != "" {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", resolved, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	// Environment variables take precedence over file values.
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its declared constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	return nil
}

// EffectiveParallelism resolves the configured analysis parallelism,
// where zero means one worker per CPU.
func (c *AnalysisConfig) EffectiveParallelism() int {
	if c.Parallelism > 0 {
		return c.Parallelism
	}
	return runtime.NumCPU()
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/jeaudit.log",
		},
		Analysis: AnalysisConfig{
			DateSerialMin:    20000,
			DateSerialMax:    60000,
			DateLikeFraction: 0.8,
			IntegerTolerance: 0.01,
		},
		Output: OutputConfig{
			Dir:        "outputs",
			DateFormat: "2006-01-02",
		},
	}
}

// findConfigFile checks the default config file locations.
func findConfigFile() string {
	locations := []string{
		"jeaudit.yaml",
		"configs/jeaudit.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}
