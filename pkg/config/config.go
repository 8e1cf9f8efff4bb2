package config

import (
	"context"
	"net/url"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/joblog/pkg/job"
)

// Load reads and validates a configuration file.
// Environment overrides are applied before validation.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config file")
	}

	if err := cfg.ApplyEnvironment(); err != nil {
		return nil, errors.Wrap(err, "applying environment")
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}

	return cfg, nil
}

// Validate checks a configuration for errors and fills in webhook defaults.
func Validate(cfg *Config) error {
	if err := cfg.Thresholds.Validate(); err != nil {
		return errors.Wrap(err, "thresholds")
	}

	switch cfg.Output.Report {
	case "":
		cfg.Output.Report = ReportNone
	case ReportNone, ReportText, ReportJSON:
	default:
		return errors.Newf("output.report: invalid format %q (must be none, text, or json)", cfg.Output.Report)
	}

	for i := range cfg.Webhooks {
		if err := cfg.Webhooks[i].Validate(); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return errors.Wrapf(err, "webhooks[%d] (%s)", i, name)
		}
	}

	return nil
}

// Validate checks that the thresholds can grade jobs.
func (t ThresholdsConfig) Validate() error {
	_, err := t.Thresholds()
	return err
}

// Thresholds converts the configured durations into validated job thresholds.
func (t ThresholdsConfig) Thresholds() (job.Thresholds, error) {
	return job.NewThresholds(t.Warning, t.Error)
}

// Validate checks the URL and trigger, expands the token, and fills in
// defaults.
func (wh *WebhookConfig) Validate() error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return errors.Wrap(err, "invalid url")
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Newf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.Token = expandEnvVar(wh.Token)

	switch wh.Trigger {
	case "":
		wh.Trigger = WebhookTriggerOnIssues
	case WebhookTriggerOnIssues, WebhookTriggerAlways, WebhookTriggerNever:
	default:
		return errors.Newf("invalid trigger %q (must be on_issues, always, or never)", wh.Trigger)
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands a token given as ${VAR} or $VAR.
func expandEnvVar(s string) string {
	switch {
	case strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}"):
		return os.Getenv(s[2 : len(s)-1])
	case strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${"):
		return os.Getenv(s[1:])
	default:
		return s
	}
}
