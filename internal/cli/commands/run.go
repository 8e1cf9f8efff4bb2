package commands

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/joblog/pkg/config"
	"github.com/ccollicutt/joblog/pkg/output"
	"github.com/ccollicutt/joblog/pkg/parser"
	"github.com/ccollicutt/joblog/pkg/processor"
	"github.com/ccollicutt/joblog/pkg/sink"
	"github.com/ccollicutt/joblog/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// RunOptions holds command-line options for the run command.
type RunOptions struct {
	ConfigFile string
	Warning    time.Duration
	Error      time.Duration
	NoColor    bool
	Report     string
	Verbose    bool
	Quiet      bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run [log-file...]",
		Short: "Check job durations in log files",
		Long: `Read each log file, pair START and END events, and report every job.

Files are taken from the arguments, or from log_sources in the config file.
Glob patterns are expanded and "-" reads standard input. Each file is checked
on its own; jobs never carry over between files.

Messages:
  INFO     job finished within the warning threshold
  WARNING  job exceeded the warning threshold, or a line was skipped
  SEVERE   job exceeded the error threshold, END without START,
           job never finished, or the file could not be read

Exit codes:
  0 - No SEVERE messages
  1 - At least one SEVERE message
  2 - Configuration or usage error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Configuration file (YAML)")
	cmd.Flags().DurationVar(&opts.Warning, "warning", config.DefaultWarningThreshold, "Warning threshold")
	cmd.Flags().DurationVar(&opts.Error, "error", config.DefaultErrorThreshold, "Error threshold")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false, "Disable colored levels")
	cmd.Flags().StringVarP(&opts.Report, "report", "r", "", "End-of-run report (none|text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include findings in the text report")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Report summary only")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_issues", "When to fire webhook (on_issues|always|never)")

	return cmd
}

func runRun(cmd *cobra.Command, args []string, opts *RunOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadRunConfig(ctx, cmd, opts)
	if err != nil {
		return err
	}

	patterns := args
	if len(patterns) == 0 {
		patterns = cfg.LogSources
	}
	if len(patterns) == 0 {
		return errors.WithHint(errors.New("no log files specified"),
			"pass log files as arguments or set log_sources in the config file")
	}

	webhooks, err := collectWebhooks(cfg, opts)
	if err != nil {
		return err
	}

	files, err := parser.ExpandGlobs(patterns)
	if err != nil {
		return errors.Wrap(err, "expanding log sources")
	}

	formatter, err := createFormatter(cfg.Output.Report, opts)
	if err != nil {
		return err
	}

	console := sink.NewConsole(cmd.OutOrStdout(), sink.WithColor(cfg.Output.Color))
	recorder := sink.NewRecorder()

	p, err := processor.New(processor.Config{
		WarningThreshold: cfg.Thresholds.Warning,
		ErrorThreshold:   cfg.Thresholds.Error,
		Sink:             sink.Tee(console, recorder),
	})
	if err != nil {
		return errors.Wrap(err, "creating processor")
	}

	started := time.Now()
	report := output.NewReport(opts.ConfigFile, p.Thresholds())

	for _, file := range files {
		p.Reset()
		recorder.Reset()
		result := p.ProcessFile(ctx, file)
		report.Add(result, recorder.Findings())
	}
	_ = console.Sync()

	report.Finish(started, time.Now())

	if formatter != nil {
		if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
			return errors.Wrap(err, "formatting report")
		}
	}

	logger := newDiagnosticLogger(cmd.ErrOrStderr())
	defer func() { _ = logger.Sync() }()
	sendWebhooks(ctx, logger, webhooks, report)

	if report.HasIssues() {
		ExitCode = 1
	}

	return nil
}

// loadRunConfig loads the config file, if any, and applies flag overrides.
// Flags win over the file and the environment.
func loadRunConfig(ctx context.Context, cmd *cobra.Command, opts *RunOptions) (*config.Config, error) {
	var cfg *config.Config
	if opts.ConfigFile != "" {
		loaded, err := config.Load(ctx, opts.ConfigFile)
		if err != nil {
			return nil, errors.Wrap(err, "loading config")
		}
		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
		if err := cfg.ApplyEnvironment(); err != nil {
			return nil, errors.Wrap(err, "applying environment")
		}
	}

	flags := cmd.Flags()
	if flags.Changed("warning") {
		cfg.Thresholds.Warning = opts.Warning
	}
	if flags.Changed("error") {
		cfg.Thresholds.Error = opts.Error
	}
	if opts.NoColor {
		cfg.Output.Color = false
	}
	if opts.Report != "" {
		cfg.Output.Report = config.ReportFormat(opts.Report)
	}

	return cfg, nil
}

// createFormatter returns nil when no report is wanted.
func createFormatter(format config.ReportFormat, opts *RunOptions) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	}

	switch format {
	case "", config.ReportNone:
		return nil, nil
	case config.ReportText:
		return output.NewTextFormatter(formatOpts), nil
	case config.ReportJSON:
		return output.NewJSONFormatter(formatOpts), nil
	default:
		return nil, errors.Newf("unknown report format %q (use none, text, or json)", format)
	}
}

// sendWebhooks sends the report to all configured webhooks.
// Failures are logged but don't fail the run.
func sendWebhooks(ctx context.Context, logger *zap.Logger, webhooks []config.WebhookConfig, report *output.Report) {
	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient(Version)

	for _, wh := range webhooks {
		if !shouldFireWebhook(wh.Trigger, report.HasIssues()) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			logger.Info("webhook sent",
				zap.String("webhook", name),
				zap.Int("status", resp.StatusCode),
				zap.Duration("duration", resp.Duration))
		} else {
			logger.Warn("webhook failed",
				zap.String("webhook", name),
				zap.Int("status", resp.StatusCode),
				zap.Error(resp.Error))
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
// The CLI webhook is validated like one from the config file.
func collectWebhooks(cfg *config.Config, opts *RunOptions) ([]config.WebhookConfig, error) {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		wh := config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: config.WebhookTrigger(opts.WebhookTrigger),
		}
		if err := wh.Validate(); err != nil {
			return nil, errors.WithHint(errors.Wrap(err, "--webhook-url"),
				"use an http(s) URL and a trigger of on_issues, always, or never")
		}
		webhooks = append(webhooks, wh)
	}

	return webhooks, nil
}

// shouldFireWebhook determines if a webhook should fire based on trigger and issues.
func shouldFireWebhook(trigger config.WebhookTrigger, hasIssues bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return hasIssues
	}
}
