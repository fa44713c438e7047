// Package config loads the YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hed1ad/spectrashield/pkg/anomaly"
	"github.com/hed1ad/spectrashield/pkg/sdr"
)

// Config represents the main application configuration.
type Config struct {
	Settings  Settings        `yaml:"settings"`
	Scan      sdr.Config      `yaml:"scan"`
	Detection DetectionConfig `yaml:"detection"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

// Settings represents global application settings.
type Settings struct {
	// LogEnv selects the logger configuration: "dev" or "prod".
	LogEnv   string `yaml:"logEnv"`
	LogLevel string `yaml:"logLevel"`
}

// DetectionConfig holds the anomaly detector settings.
type DetectionConfig struct {
	Enabled      bool    `yaml:"enabled"`
	StdThreshold float64 `yaml:"stdThreshold"`
	Seed         int64   `yaml:"seed"`
	Trees        int     `yaml:"trees"`
	SampleSize   int     `yaml:"sampleSize"`
}

// Options converts the settings into detector options.
func (d DetectionConfig) Options() []anomaly.Option {
	return []anomaly.Option{
		anomaly.WithStdThreshold(d.StdThreshold),
		anomaly.WithSeed(d.Seed),
		anomaly.WithTrees(d.Trees),
		anomaly.WithSampleSize(d.SampleSize),
	}
}

// DashboardConfig holds the HTML dashboard settings.
type DashboardConfig struct {
	Output string `yaml:"output"`
	Title  string `yaml:"title"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Settings: Settings{
			LogEnv:   "dev",
			LogLevel: "info",
		},
		Scan: sdr.DefaultConfig(),
		Detection: DetectionConfig{
			Enabled:      true,
			StdThreshold: anomaly.DefaultStdThreshold,
			Seed:         42,
			Trees:        100,
			SampleSize:   256,
		},
		Dashboard: DashboardConfig{
			Output: "dashboard.html",
			Title:  "SpectraShield",
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that can be checked without running anything.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Scan.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Detection.StdThreshold <= 0 {
		errs = append(errs, fmt.Errorf("config: detection.stdThreshold must be positive: %g", c.Detection.StdThreshold))
	}
	if c.Detection.Trees <= 0 {
		errs = append(errs, fmt.Errorf("config: detection.trees must be positive: %d", c.Detection.Trees))
	}
	if c.Detection.SampleSize <= 0 {
		errs = append(errs, fmt.Errorf("config: detection.sampleSize must be positive: %d", c.Detection.SampleSize))
	}
	switch c.Settings.LogEnv {
	case "dev", "prod":
	default:
		errs = append(errs, fmt.Errorf("config: settings.logEnv must be dev or prod: %q", c.Settings.LogEnv))
	}
	return errors.Join(errs...)
}
