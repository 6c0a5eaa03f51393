// Package config provides the static configuration surface of the report
// pipeline. Values come from the environment; a .env file is honoured when
// present.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every knob a run needs. The region marker, top-N count,
// weekly lookback, baseline reference and character budget are static
// configuration, never discovered dynamically.
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	Repository string `envconfig:"GITHUB_REPOSITORY" required:"true"`
	Token      string `envconfig:"GITHUB_TOKEN"`

	Region           string `envconfig:"REGION" default:"madrid"`
	TopN             int    `envconfig:"TOP_N" default:"3"`
	WeekLookbackDays int    `envconfig:"WEEK_LOOKBACK_DAYS" default:"7"`
	BaselineDate     string `envconfig:"BASELINE_DATE" default:"2026-01-04"`
	BaselineLabel    string `envconfig:"BASELINE_LABEL" default:"enero de 2026"`

	// CharLimit is the publisher's hard budget; 0 disables truncation.
	CharLimit int `envconfig:"CHAR_LIMIT" default:"280"`

	OutputDir string `envconfig:"OUTPUT_DIR" default:"output"`
	DBPath    string `envconfig:"DB_PATH" default:"output/runs.sqlite"`

	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	// FailFast decides whether a fatal pipeline error fails the surrounding
	// automation (exit 1) or is logged and swallowed (exit 0). Both are
	// legitimate deployment choices.
	FailFast bool `envconfig:"FAIL_FAST" default:"false"`
}

// Load collects configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	if _, err := cfg.BaselineTime(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// BaselineTime parses the configured baseline date.
func (c Config) BaselineTime() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.BaselineDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid BASELINE_DATE %q: %w", c.BaselineDate, err)
	}
	return t, nil
}
