package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/joblog/pkg/config"
	"github.com/ccollicutt/joblog/pkg/output"
)

// clearEnv keeps the host environment from leaking into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvLogSources, config.EnvWarningThreshold, config.EnvErrorThreshold, config.EnvNoColor} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execRun runs the run command and returns stdout, stderr, and the error.
func execRun(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	ExitCode = 0

	cmd := NewRunCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestNewRunCommand(t *testing.T) {
	cmd := NewRunCommand()
	assert.Equal(t, "run [log-file...]", cmd.Use)

	flags := []string{"config", "warning", "error", "no-color", "report", "verbose", "quiet",
		"webhook-url", "webhook-token", "webhook-trigger"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "missing flag %s", flag)
	}
}

func TestRun_Scenarios(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name     string
		log      string
		want     []string
		exitCode int
	}{
		{
			name:     "normal job",
			log:      "19:00:00, BackupJob, START, 12345\n19:02:00, BackupJob, END, 12345\n",
			want:     []string{"[INFO] BackupJob-12345 completed in 2 minutes, 0 seconds.\n"},
			exitCode: 0,
		},
		{
			name:     "warning threshold exceeded",
			log:      "09:00:00, BackupJob, START, 12345\n09:06:00, BackupJob, END, 12345\n",
			want:     []string{"[WARNING] BackupJob-12345 took 6 minutes"},
			exitCode: 0,
		},
		{
			name:     "error threshold exceeded",
			log:      "09:00:00, BackupJob, START, 12345\n09:11:00, BackupJob, END, 12345\n",
			want:     []string{"[SEVERE] BackupJob-12345 took 11 minutes"},
			exitCode: 1,
		},
		{
			name:     "missing start",
			log:      "09:00:00, BackupJob, END, 12345\n",
			want:     []string{"[SEVERE] Found END without START for job: BackupJob-12345\n"},
			exitCode: 1,
		},
		{
			name:     "cross midnight",
			log:      "23:58:00, NightJob, START, 12345\n00:02:00, NightJob, END, 12345\n",
			want:     []string{"[INFO] NightJob-12345 completed in 4 minutes"},
			exitCode: 0,
		},
		{
			name:     "missing end",
			log:      "09:00:00, BackupJob, START, 12345\n",
			want:     []string{"[SEVERE] Job BackupJob-12345 started but never finished\n"},
			exitCode: 1,
		},
		{
			name:     "invalid line",
			log:      "invalid_timestamp, BackupJob, START, 12345\n",
			want:     []string{"[WARNING] [SKIPPING] Invalid log entry format: invalid_timestamp, BackupJob, START, 12345\n"},
			exitCode: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logPath := writeFile(t, t.TempDir(), "logs.log", tt.log)

			stdout, _, err := execRun(t, "--no-color", logPath)
			require.NoError(t, err)

			for _, w := range tt.want {
				assert.Contains(t, stdout, w)
			}
			assert.Equal(t, tt.exitCode, ExitCode)
		})
	}
}

func TestRun_InterleavedJobs(t *testing.T) {
	clearEnv(t)
	log := "09:00:00, Job1, START, 12345\n09:01:00, Job2, START, 67890\n09:02:00, Job1, END, 12345\n09:03:00, Job2, END, 67890\n"
	logPath := writeFile(t, t.TempDir(), "logs.log", log)

	stdout, _, err := execRun(t, "--no-color", logPath)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(stdout, "[INFO]"))
	assert.Equal(t, 2, strings.Count(stdout, "\n"))
	assert.Equal(t, 0, ExitCode)
}

func TestRun_ThresholdFlags(t *testing.T) {
	clearEnv(t)
	logPath := writeFile(t, t.TempDir(), "logs.log",
		"09:00:00, BackupJob, START, 1\n09:02:00, BackupJob, END, 1\n")

	stdout, _, err := execRun(t, "--no-color", "--warning", "30s", "--error", "1m", logPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "[SEVERE] BackupJob-1 took 2 minutes, 0 seconds. (started at 09:00, ended at 09:02)")
}

func TestRun_InvalidThresholdFlags(t *testing.T) {
	clearEnv(t)
	logPath := writeFile(t, t.TempDir(), "logs.log", "09:00:00, BackupJob, START, 1\n")

	tests := [][]string{
		{"--warning", "0s"},
		{"--error", "-1m"},
		{"--warning", "10m", "--error", "5m"},
	}
	for _, flags := range tests {
		stdout, _, err := execRun(t, append(flags, logPath)...)
		require.Error(t, err, "flags %v", flags)
		assert.Empty(t, stdout, "nothing is processed when construction fails")
	}
}

func TestRun_NoFiles(t *testing.T) {
	clearEnv(t)
	_, _, err := execRun(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no log files specified")
}

func TestRun_MissingFile(t *testing.T) {
	clearEnv(t)
	missing := filepath.Join(t.TempDir(), "missing.log")

	stdout, _, err := execRun(t, "--no-color", missing)
	require.NoError(t, err)
	assert.Contains(t, stdout, "[SEVERE] Error reading log file "+missing)
	assert.Equal(t, 1, ExitCode)
}

func TestRun_FilesAreIndependent(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "a.log", "09:00:00, BackupJob, START, 1\n")
	writeFile(t, dir, "b.log", "09:02:00, BackupJob, END, 1\n")

	stdout, _, err := execRun(t, "--no-color", filepath.Join(dir, "*.log"))
	require.NoError(t, err)

	assert.Contains(t, stdout, "[SEVERE] Job BackupJob-1 started but never finished")
	assert.Contains(t, stdout, "[SEVERE] Found END without START for job: BackupJob-1")
	assert.NotContains(t, stdout, "completed in")
}

func TestRun_ConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	logPath := writeFile(t, dir, "logs.log", "09:00:00, BackupJob, START, 1\n09:03:00, BackupJob, END, 1\n")
	cfgPath := writeFile(t, dir, "joblog.yaml", `
log_sources:
  - `+logPath+`
thresholds:
  warning: 1m
  error: 5m
output:
  color: false
  report: text
`)

	stdout, _, err := execRun(t, "--config", cfgPath)
	require.NoError(t, err)

	assert.Contains(t, stdout, "[WARNING] BackupJob-1 took 3 minutes, 0 seconds.")
	assert.Contains(t, stdout, "=== joblog Report ===")
	assert.Contains(t, stdout, "[FILE] "+logPath)
	assert.Equal(t, 0, ExitCode)
}

func TestRun_InvalidConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "joblog.yaml", "thresholds:\n  warning: 10m\n  error: 5m\n")

	_, _, err := execRun(t, "--config", cfgPath, filepath.Join(dir, "x.log"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestRun_JSONReport(t *testing.T) {
	clearEnv(t)
	logPath := writeFile(t, t.TempDir(), "logs.log",
		"09:00:00, BackupJob, START, 1\n09:00:00, Hung, START, 2\n09:01:00, BackupJob, END, 1\n")

	stdout, _, err := execRun(t, "--no-color", "--report", "json", logPath)
	require.NoError(t, err)

	i := strings.Index(stdout, "{")
	require.GreaterOrEqual(t, i, 0, "no JSON in output: %s", stdout)

	var report output.Report
	require.NoError(t, json.Unmarshal([]byte(stdout[i:]), &report))
	assert.Equal(t, 1, report.Summary.Completed)
	assert.Equal(t, 1, report.Summary.Unfinished)
	require.Len(t, report.Files, 1)
	assert.Equal(t, []string{"Hung-2"}, report.Files[0].Unfinished)
	require.Len(t, report.Files[0].Findings, 1)
	assert.Equal(t, "Job Hung-2 started but never finished", report.Files[0].Findings[0].Text)
}

func TestRun_InvalidReportFormat(t *testing.T) {
	clearEnv(t)
	logPath := writeFile(t, t.TempDir(), "logs.log", "")

	_, _, err := execRun(t, "--report", "xml", logPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report format")
}

func TestRun_EnvironmentThresholds(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvWarningThreshold, "1m")
	t.Setenv(config.EnvErrorThreshold, "2m")
	logPath := writeFile(t, t.TempDir(), "logs.log",
		"09:00:00, BackupJob, START, 1\n09:01:30, BackupJob, END, 1\n")

	stdout, _, err := execRun(t, "--no-color", logPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "[WARNING] BackupJob-1 took 1 minutes, 30 seconds.")
}

func TestRun_Webhook(t *testing.T) {
	clearEnv(t)
	var received output.Report
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
	}))
	defer server.Close()

	logPath := writeFile(t, t.TempDir(), "logs.log", "09:00:00, BackupJob, END, 1\n")

	_, stderr, err := execRun(t, "--no-color",
		"--webhook-url", server.URL,
		"--webhook-token", "secret",
		logPath)
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, 1, received.Summary.Orphans)
	assert.Contains(t, stderr, "webhook sent")
	assert.Equal(t, 1, ExitCode)
}

func TestRun_WebhookNotFiredWithoutIssues(t *testing.T) {
	clearEnv(t)
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	logPath := writeFile(t, t.TempDir(), "logs.log",
		"09:00:00, BackupJob, START, 1\n09:01:00, BackupJob, END, 1\n")

	_, stderr, err := execRun(t, "--no-color", "--webhook-url", server.URL, logPath)
	require.NoError(t, err)
	assert.False(t, called)
	assert.Empty(t, stderr)
}

func TestShouldFireWebhook(t *testing.T) {
	tests := []struct {
		trigger   config.WebhookTrigger
		hasIssues bool
		want      bool
	}{
		{config.WebhookTriggerOnIssues, true, true},
		{config.WebhookTriggerOnIssues, false, false},
		{config.WebhookTriggerAlways, true, true},
		{config.WebhookTriggerAlways, false, true},
		{config.WebhookTriggerNever, true, false},
		{config.WebhookTriggerNever, false, false},
		{"", true, true},
		{"", false, false},
	}

	for _, tt := range tests {
		got := shouldFireWebhook(tt.trigger, tt.hasIssues)
		assert.Equal(t, tt.want, got, "shouldFireWebhook(%q, %v)", tt.trigger, tt.hasIssues)
	}
}

func TestCollectWebhooks(t *testing.T) {
	cfg := &config.Config{
		Webhooks: []config.WebhookConfig{{Name: "ops", URL: "https://ops.example.com/hook"}},
	}

	webhooks, err := collectWebhooks(cfg, &RunOptions{})
	require.NoError(t, err)
	assert.Len(t, webhooks, 1)

	t.Setenv("JOBLOG_TEST_TOKEN", "from-env")
	webhooks, err = collectWebhooks(cfg, &RunOptions{
		WebhookURL:   "https://cli.example.com",
		WebhookToken: "${JOBLOG_TEST_TOKEN}",
	})
	require.NoError(t, err)
	require.Len(t, webhooks, 2)
	assert.Equal(t, "cli", webhooks[1].Name)
	assert.Equal(t, "from-env", webhooks[1].Token)
	assert.Equal(t, config.WebhookTriggerOnIssues, webhooks[1].Trigger)
	assert.Equal(t, config.DefaultWebhookTimeout, webhooks[1].Timeout)
}

func TestCollectWebhooks_InvalidCLIWebhook(t *testing.T) {
	tests := []struct {
		name string
		opts RunOptions
		want string
	}{
		{"ftp scheme", RunOptions{WebhookURL: "ftp://example.com/hook"}, "scheme must be http or https"},
		{"no host", RunOptions{WebhookURL: "https://"}, "must have a host"},
		{"bad trigger", RunOptions{WebhookURL: "https://example.com", WebhookTrigger: "sometimes"}, "invalid trigger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collectWebhooks(&config.Config{}, &tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRun_InvalidWebhookFlag(t *testing.T) {
	clearEnv(t)
	logPath := writeFile(t, t.TempDir(), "logs.log", "09:00:00, BackupJob, END, 1\n")

	stdout, _, err := execRun(t, "--no-color", "--webhook-url", "https://example.com",
		"--webhook-trigger", "sometimes", logPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid trigger")
	assert.Empty(t, stdout, "nothing is processed with an invalid webhook")
}
