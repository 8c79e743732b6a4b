// Package config holds the planner's runtime configuration.
package config

import (
	"io"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/star/quadplan/internal/report"
	"github.com/star/quadplan/internal/visibility"
)

// Log formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Config represents the application configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Planner PlannerConfig `yaml:"planner"`
	Output  OutputConfig  `yaml:"output"`
	Sites   SitesConfig   `yaml:"sites"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.Planner.Validate(); err != nil {
		return err
	}
	return c.Output.Validate()
}

// LogConfig controls the diagnostic logger. Logs go to stderr.
type LogConfig struct {
	Level  slog.Level `yaml:"level"`
	Format string     `yaml:"format"`
}

// Validate validates the log configuration.
func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Format, validation.Required, validation.In(LogFormatJSON, LogFormatText)),
	)
}

// NewLogger builds a logger writing to w.
func (c *LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level}
	if c.Format == LogFormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// PlannerConfig holds the solar model and concurrency settings.
type PlannerConfig struct {
	Provider         string `yaml:"provider"`
	Workers          int    `yaml:"workers"`
	CollapseInstants bool   `yaml:"collapse_instants"`
}

// Validate validates the planner configuration.
func (c *PlannerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Provider, validation.Required, validation.In(visibility.ProviderAlmanac, visibility.ProviderSunrise)),
		validation.Field(&c.Workers, validation.Required, validation.Min(1), validation.Max(256)),
	)
}

// OutputConfig selects the report format and optional metrics export.
type OutputConfig struct {
	Format      string `yaml:"format"`
	MetricsFile string `yaml:"metrics_file"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Format, validation.Required, validation.In(report.FormatText, report.FormatJSON)),
	)
}

// SitesConfig points at an optional YAML file of extra observatories.
type SitesConfig struct {
	File string `yaml:"file"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  slog.LevelInfo,
			Format: LogFormatJSON,
		},
		Planner: PlannerConfig{
			Provider: visibility.ProviderAlmanac,
			Workers:  1,
		},
		Output: OutputConfig{
			Format: report.FormatText,
		},
	}
}
