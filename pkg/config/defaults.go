package config

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Default values for configuration.
const (
	DefaultWarningThreshold = 5 * time.Minute
	DefaultErrorThreshold   = 10 * time.Minute
	DefaultWebhookTimeout   = 10 * time.Second
)

// Environment variable names.
const (
	EnvLogSources       = "JOBLOG_LOG_SOURCES"
	EnvWarningThreshold = "JOBLOG_WARNING_THRESHOLD"
	EnvErrorThreshold   = "JOBLOG_ERROR_THRESHOLD"
	EnvNoColor          = "NO_COLOR"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogSources: []string{},
		Thresholds: ThresholdsConfig{
			Warning: DefaultWarningThreshold,
			Error:   DefaultErrorThreshold,
		},
		Output: OutputConfig{
			Color:  true,
			Report: ReportNone,
		},
	}
}

// ApplyEnvironment applies environment variable overrides to the config.
func (c *Config) ApplyEnvironment() error {
	if v := os.Getenv(EnvLogSources); v != "" {
		var sources []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sources = append(sources, s)
			}
		}
		c.LogSources = sources
	}

	if v := os.Getenv(EnvWarningThreshold); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "%s", EnvWarningThreshold)
		}
		c.Thresholds.Warning = d
	}

	if v := os.Getenv(EnvErrorThreshold); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "%s", EnvErrorThreshold)
		}
		c.Thresholds.Error = d
	}

	// https://no-color.org
	if os.Getenv(EnvNoColor) != "" {
		c.Output.Color = false
	}

	return nil
}
