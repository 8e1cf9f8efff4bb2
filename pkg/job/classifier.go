package job

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrInvalidThresholds marks threshold validation failures.
var ErrInvalidThresholds = errors.New("invalid thresholds")

// Severity grades a completed job.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeveritySevere
)

// String returns the level name used in messages.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeveritySevere:
		return "SEVERE"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Thresholds are the duration boundaries between severities.
type Thresholds struct {
	Warning time.Duration
	Error   time.Duration
}

// NewThresholds validates and returns thresholds.
// Both must be positive and Error must be greater than Warning.
func NewThresholds(warning, errorAt time.Duration) (Thresholds, error) {
	t := Thresholds{Warning: warning, Error: errorAt}
	if err := t.Validate(); err != nil {
		return Thresholds{}, err
	}
	return t, nil
}

// Validate checks the thresholds without constructing new ones.
func (t Thresholds) Validate() error {
	if t.Warning <= 0 {
		return errors.Mark(
			errors.WithHint(errors.Newf("warning threshold must be positive, got %s", t.Warning),
				"use a Go duration such as 5m"),
			ErrInvalidThresholds)
	}
	if t.Error <= 0 {
		return errors.Mark(
			errors.WithHint(errors.Newf("error threshold must be positive, got %s", t.Error),
				"use a Go duration such as 10m"),
			ErrInvalidThresholds)
	}
	if t.Error <= t.Warning {
		return errors.Mark(
			errors.Newf("error threshold (%s) must be greater than warning threshold (%s)", t.Error, t.Warning),
			ErrInvalidThresholds)
	}
	return nil
}

// Verdict is the outcome of classifying one job.
type Verdict struct {
	Severity Severity
	Duration time.Duration
}

// Classify grades the job that ran from start to end.
// A duration equal to a threshold falls into the lower tier.
func (t Thresholds) Classify(start, end time.Time) Verdict {
	d := Elapsed(start, end)
	switch {
	case d > t.Error:
		return Verdict{Severity: SeveritySevere, Duration: d}
	case d > t.Warning:
		return Verdict{Severity: SeverityWarning, Duration: d}
	default:
		return Verdict{Severity: SeverityInfo, Duration: d}
	}
}

// Elapsed returns the wall-clock time between two times of day.
// Only the clock is considered. An end before the start is taken to be on
// the next day, so jobs of 24 hours or more cannot be represented.
func Elapsed(start, end time.Time) time.Duration {
	d := sinceMidnight(end) - sinceMidnight(start)
	if d < 0 {
		d += 24 * time.Hour
	}
	return d
}

func sinceMidnight(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
}

// FormatDuration renders whole minutes and seconds, e.g. "2 minutes, 0 seconds.".
func FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	return fmt.Sprintf("%d minutes, %d seconds.", total/60, total%60)
}

// FormatClock renders a time of day as HH:MM, or HH:MM:SS when the
// seconds are not zero.
func FormatClock(t time.Time) string {
	if t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("15:04")
	}
	return t.Format("15:04:05")
}
