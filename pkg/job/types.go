// Package job provides the job record and duration classification used to
// grade completed jobs.
package job

import "time"

// Record holds what is known about a single job run.
type Record struct {
	// StartTime is the time of day the job started.
	StartTime time.Time

	// EndTime is the time of day the job ended.
	// Zero while the job is still open.
	EndTime time.Time

	// Description is the job description as it appeared in the log.
	Description string
}

// NewRecord creates an open record started at the given time of day.
func NewRecord(start time.Time, description string) *Record {
	return &Record{
		StartTime:   start,
		Description: description,
	}
}

// Open returns true if the job has not ended yet.
// Parsed times of day fall on year 0, so they are never the zero time.
func (r *Record) Open() bool {
	return r.EndTime.IsZero()
}

// Finish marks the job as ended at the given time of day.
func (r *Record) Finish(end time.Time) {
	r.EndTime = end
}

// Key builds the identity used to pair START and END events.
// Separators inside description or processID are not escaped.
func Key(description, processID string) string {
	return description + "-" + processID
}
