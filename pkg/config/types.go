// Package config provides configuration loading and validation for joblog.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	LogSources []string         `yaml:"log_sources"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Output     OutputConfig     `yaml:"output"`
	Webhooks   []WebhookConfig  `yaml:"webhooks,omitempty"`
}

// ThresholdsConfig defines the durations that grade completed jobs.
type ThresholdsConfig struct {
	// Warning is the duration above which a job is reported as a warning.
	Warning time.Duration `yaml:"warning"`

	// Error is the duration above which a job is reported as severe.
	Error time.Duration `yaml:"error"`
}

// ReportFormat selects how the end-of-run report is rendered.
type ReportFormat string

const (
	ReportNone ReportFormat = "none"
	ReportText ReportFormat = "text"
	ReportJSON ReportFormat = "json"
)

// OutputConfig controls console output.
type OutputConfig struct {
	// Color enables colored levels on the console.
	Color bool `yaml:"color"`

	// Report is the end-of-run report format.
	Report ReportFormat `yaml:"report,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnIssues fires only when something SEVERE was reported (default).
	WebhookTriggerOnIssues WebhookTrigger = "on_issues"
	// WebhookTriggerAlways fires after every run.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint that receives the run report.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token. ${VAR} and $VAR are expanded.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
