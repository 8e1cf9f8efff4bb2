// Package sink provides destinations for leveled job messages.
package sink

import "fmt"

// Level is the severity of a message.
type Level string

const (
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARNING"
	LevelSevere  Level = "SEVERE"
)

// Message is a single leveled message.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// String renders the message as "[LEVEL] text".
func (m Message) String() string {
	return fmt.Sprintf("[%s] %s", m.Level, m.Text)
}

// Sink receives leveled messages.
type Sink interface {
	Info(msg string)
	Warning(msg string)
	Severe(msg string)
}

// Tee returns a Sink that forwards every message to all sinks in order.
func Tee(sinks ...Sink) Sink {
	return tee(sinks)
}

type tee []Sink

func (t tee) Info(msg string) {
	for _, s := range t {
		s.Info(msg)
	}
}

func (t tee) Warning(msg string) {
	for _, s := range t {
		s.Warning(msg)
	}
}

func (t tee) Severe(msg string) {
	for _, s := range t {
		s.Severe(msg)
	}
}
