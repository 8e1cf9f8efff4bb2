// Package parser provides log line reading and job event parsing.
package parser

import (
	"time"

	"github.com/ccollicutt/joblog/pkg/job"
)

// Status is the event kind of a log entry.
type Status string

const (
	StatusStart Status = "START"
	StatusEnd   Status = "END"
)

// Entry is one parsed job event.
type Entry struct {
	// Time is the time of day of the event (date fields are unset).
	Time time.Time

	// Description identifies the job, trimmed.
	Description string

	// Status is the event kind, trimmed. Values other than START and END
	// are passed through untouched.
	Status Status

	// ProcessID is the process identifier, trimmed.
	ProcessID string

	// Raw is the original line.
	Raw string
}

// Key returns the job key used to pair START and END events.
func (e *Entry) Key() string {
	return job.Key(e.Description, e.ProcessID)
}

// LogLine is a raw log line before parsing.
type LogLine struct {
	// Content is the raw line text.
	Content string

	// Source is the file path (or "-" for stdin) this line came from.
	Source string

	// LineNum is the 1-based line number in the source.
	LineNum int
}
