package parser

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// TimeLayout is the layout of the timestamp field.
const TimeLayout = "15:04:05"

// MinFields is the number of comma-separated fields a log entry needs.
const MinFields = 4

// ErrInvalidFormat marks lines that cannot be parsed into an Entry.
var ErrInvalidFormat = errors.New("invalid log entry format")

// ParseEntry parses a line of the form
//
//	HH:MM:SS, <description>, START|END, <process id>
//
// Fields beyond the fourth are ignored.
func ParseEntry(line string) (*Entry, error) {
	fields := splitFields(line)
	if len(fields) < MinFields {
		return nil, errors.Mark(
			errors.Newf("expected at least %d fields, got %d", MinFields, len(fields)),
			ErrInvalidFormat)
	}

	raw := strings.TrimSpace(fields[0])
	if !isClock(raw) {
		return nil, errors.Mark(errors.Newf("timestamp %q is not HH:MM:SS", raw), ErrInvalidFormat)
	}
	ts, err := time.Parse(TimeLayout, raw)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "parsing timestamp"), ErrInvalidFormat)
	}

	return &Entry{
		Time:        ts,
		Description: strings.TrimSpace(fields[1]),
		Status:      Status(strings.TrimSpace(fields[2])),
		ProcessID:   strings.TrimSpace(fields[3]),
		Raw:         line,
	}, nil
}

// isClock reports whether s has the exact HH:MM:SS shape. time.Parse alone
// accepts a one-digit hour and trailing fractional seconds.
func isClock(s string) bool {
	if len(s) != len(TimeLayout) {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch i {
		case 2, 5:
			if s[i] != ':' {
				return false
			}
		default:
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
	}
	return true
}

// splitFields splits on commas and drops trailing empty fields, so
// "a,b,c," has three fields. Whitespace-only fields are kept.
func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}
