package sink

import "strings"

// Recorder is a Sink that keeps every message in memory.
type Recorder struct {
	messages []Message
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Info(msg string)    { r.record(LevelInfo, msg) }
func (r *Recorder) Warning(msg string) { r.record(LevelWarning, msg) }
func (r *Recorder) Severe(msg string)  { r.record(LevelSevere, msg) }

func (r *Recorder) record(level Level, msg string) {
	r.messages = append(r.messages, Message{Level: level, Text: msg})
}

// Messages returns a copy of all recorded messages in arrival order.
func (r *Recorder) Messages() []Message {
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Count returns the number of messages at level.
func (r *Recorder) Count(level Level) int {
	n := 0
	for _, m := range r.messages {
		if m.Level == level {
			n++
		}
	}
	return n
}

// Contains reports whether a message at level contains substr.
func (r *Recorder) Contains(level Level, substr string) bool {
	for _, m := range r.messages {
		if m.Level == level && strings.Contains(m.Text, substr) {
			return true
		}
	}
	return false
}

// Findings returns the WARNING and SEVERE messages.
func (r *Recorder) Findings() []Message {
	var out []Message
	for _, m := range r.messages {
		if m.Level != LevelInfo {
			out = append(out, m)
		}
	}
	return out
}

// Reset drops all recorded messages.
func (r *Recorder) Reset() {
	r.messages = nil
}
