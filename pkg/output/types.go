// Package output builds and renders the end-of-run report.
package output

import (
	"time"

	"github.com/ccollicutt/joblog/pkg/job"
	"github.com/ccollicutt/joblog/pkg/processor"
	"github.com/ccollicutt/joblog/pkg/sink"
)

// Report is the complete run output.
type Report struct {
	// Summary provides totals across all files.
	Summary Summary `json:"summary"`

	// Files holds one entry per log file, in processing order.
	Files []FileReport `json:"files"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// FileReport is the outcome of one log file.
type FileReport struct {
	processor.Result

	// Findings are the WARNING and SEVERE messages emitted for this file.
	Findings []sink.Message `json:"findings,omitempty"`
}

// Summary provides totals across all files.
type Summary struct {
	Files        int `json:"files"`
	Lines        int `json:"lines"`
	Completed    int `json:"completed"`
	Warnings     int `json:"warnings"`
	Severe       int `json:"severe"`
	Orphans      int `json:"orphans"`
	Unfinished   int `json:"unfinished"`
	Skipped      int `json:"skipped"`
	ReadFailures int `json:"read_failures"`
}

// Metadata provides context about the run.
type Metadata struct {
	// ConfigFile is the configuration file used, if any.
	ConfigFile string `json:"config_file,omitempty"`

	// WarningThreshold and ErrorThreshold are the thresholds in effect.
	WarningThreshold time.Duration `json:"warning_threshold"`
	ErrorThreshold   time.Duration `json:"error_threshold"`

	// AnalyzedAt is when the run finished.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates an empty report for a run with the given thresholds.
func NewReport(configFile string, thresholds job.Thresholds) *Report {
	return &Report{
		Files: []FileReport{},
		Metadata: Metadata{
			ConfigFile:       configFile,
			WarningThreshold: thresholds.Warning,
			ErrorThreshold:   thresholds.Error,
		},
	}
}

// Add appends the result of one file and updates the summary.
func (r *Report) Add(result processor.Result, findings []sink.Message) {
	r.Files = append(r.Files, FileReport{Result: result, Findings: findings})

	s := result.Stats
	r.Summary.Files++
	r.Summary.Lines += s.LinesRead
	r.Summary.Completed += s.Completed
	r.Summary.Warnings += s.Warnings
	r.Summary.Severe += s.Severe
	r.Summary.Orphans += s.Orphans
	r.Summary.Unfinished += s.Unfinished
	r.Summary.Skipped += s.Skipped
	if s.ReadFailed {
		r.Summary.ReadFailures++
	}
}

// Finish stamps the report with its completion time and run duration.
func (r *Report) Finish(started, finished time.Time) {
	r.Metadata.AnalyzedAt = finished
	r.Metadata.Duration = finished.Sub(started)
}

// HasIssues returns true if anything was reported at SEVERE level.
func (r *Report) HasIssues() bool {
	s := r.Summary
	return s.Severe > 0 || s.Orphans > 0 || s.Unfinished > 0 || s.ReadFailures > 0
}
