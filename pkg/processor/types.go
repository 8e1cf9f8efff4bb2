// Package processor pairs START and END job events from a log and reports
// how long each job took.
package processor

import (
	"time"

	"github.com/ccollicutt/joblog/pkg/sink"
)

// Config holds everything needed to build a Processor. All fields are required.
type Config struct {
	// WarningThreshold is the duration above which a job is reported as a warning.
	WarningThreshold time.Duration

	// ErrorThreshold is the duration above which a job is reported as severe.
	// Must be greater than WarningThreshold.
	ErrorThreshold time.Duration

	// Sink receives every message the processor emits.
	Sink sink.Sink
}

// Stats counts what happened during one pass over a log.
type Stats struct {
	// LinesRead is the number of lines consumed from the source.
	LinesRead int `json:"lines_read"`

	// Skipped is the number of malformed lines.
	Skipped int `json:"skipped"`

	// Completed is the number of jobs that ended within the warning threshold.
	Completed int `json:"completed"`

	// Warnings is the number of jobs that exceeded the warning threshold.
	Warnings int `json:"warnings"`

	// Severe is the number of jobs that exceeded the error threshold.
	Severe int `json:"severe"`

	// Orphans is the number of END events without an open START.
	Orphans int `json:"orphans"`

	// Unfinished is the number of jobs still open at end of stream.
	Unfinished int `json:"unfinished"`

	// Ignored is the number of well-formed lines with an unknown status.
	Ignored int `json:"ignored"`

	// Restarted is the number of START events that replaced an open job.
	Restarted int `json:"restarted"`

	// ReadFailed is set when the source could not be opened or read to the end.
	ReadFailed bool `json:"read_failed"`
}

// HasSevere returns true if anything was reported at SEVERE level.
func (s Stats) HasSevere() bool {
	return s.Severe > 0 || s.Orphans > 0 || s.Unfinished > 0 || s.ReadFailed
}

// Result is the outcome of one pass over a log.
type Result struct {
	// Source is the name of the log that was read.
	Source string `json:"source"`

	// Stats are the pass counters.
	Stats Stats `json:"stats"`

	// Unfinished lists the keys of jobs that never ended, sorted.
	Unfinished []string `json:"unfinished,omitempty"`
}
