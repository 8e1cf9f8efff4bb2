package sink

import (
	"io"

	"github.com/pterm/pterm"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var levelStyles = map[zapcore.Level]*pterm.Style{
	zapcore.InfoLevel:  pterm.NewStyle(pterm.FgGreen),
	zapcore.WarnLevel:  pterm.NewStyle(pterm.FgYellow),
	zapcore.ErrorLevel: pterm.NewStyle(pterm.FgRed),
}

// Console is a Sink that writes "[LEVEL] message" lines through zap.
type Console struct {
	logger *zap.Logger
}

// ConsoleOption configures a Console.
type ConsoleOption func(*consoleOptions)

type consoleOptions struct {
	color bool
}

// WithColor enables or disables level colors.
func WithColor(enabled bool) ConsoleOption {
	return func(o *consoleOptions) {
		o.color = enabled
	}
}

// NewConsole creates a Console writing to w. Colors are on by default.
func NewConsole(w io.Writer, opts ...ConsoleOption) *Console {
	o := consoleOptions{color: true}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      plainLevelEncoder,
		ConsoleSeparator: " ",
	}
	if o.color {
		cfg.EncodeLevel = colorLevelEncoder
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.NewAtomicLevelAt(zapcore.InfoLevel),
	)
	return &Console{logger: zap.New(core)}
}

func (c *Console) Info(msg string)    { c.logger.Info(msg) }
func (c *Console) Warning(msg string) { c.logger.Warn(msg) }
func (c *Console) Severe(msg string)  { c.logger.Error(msg) }

// Sync flushes buffered output.
func (c *Console) Sync() error {
	return c.logger.Sync()
}

func levelName(l zapcore.Level) Level {
	switch l {
	case zapcore.WarnLevel:
		return LevelWarning
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return LevelSevere
	default:
		return LevelInfo
	}
}

func plainLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + string(levelName(l)) + "]")
}

func colorLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	text := "[" + string(levelName(l)) + "]"
	if style, ok := levelStyles[l]; ok {
		text = style.Sprint(text)
	}
	enc.AppendString(text)
}
