// Package logging builds the zap loggers used across volley.
//
// Output goes to stderr or a file and never to stdout, which the command
// line client keeps for response bodies. The level can be changed while the
// logger is in use.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a zap.Logger that owns its output and level.
type Logger struct {
	*zap.Logger
	level zap.AtomicLevel
	close func()
}

// Config defines logger configuration.
type Config struct {
	Level       string // debug, info, warn, error; empty means info
	Development bool   // console encoding with caller and stack traces
	Output      string // "stderr", "stdout" or a file path
}

// DefaultConfig logs info and above as JSON to stderr.
func DefaultConfig() Config {
	return Config{Level: "info", Output: "stderr"}
}

// DevelopmentConfig logs everything in console format.
func DevelopmentConfig() Config {
	return Config{Level: "debug", Development: true, Output: "stderr"}
}

// New creates a logger with the provided configuration.
func New(cfg Config) (*Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
	sink, closeSink, err := zap.Open(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to open log output %q: %w", cfg.Output, err)
	}

	opts := []zap.Option{zap.ErrorOutput(zapcore.Lock(os.Stderr))}
	var enc zapcore.Encoder
	if cfg.Development {
		enc = zapcore.NewConsoleEncoder(consoleEncoding())
		opts = append(opts, zap.Development(), zap.AddCaller(), zap.AddStacktrace(zapcore.WarnLevel))
	} else {
		enc = zapcore.NewJSONEncoder(jsonEncoding())
	}

	return &Logger{
		Logger: zap.New(zapcore.NewCore(enc, sink, level), opts...),
		level:  level,
		close:  closeSink,
	}, nil
}

// NewDefault creates a logger with DefaultConfig, or a no-op logger if
// stderr cannot be opened.
func NewDefault() *Logger {
	if l, err := New(DefaultConfig()); err == nil {
		return l
	}
	return Nop()
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop(), level: zap.NewAtomicLevel(), close: func() {}}
}

// Component returns a child logger named after a subsystem.
func (l *Logger) Component(name string) *zap.Logger {
	return l.Logger.Named(name)
}

// Level is the current minimum level.
func (l *Logger) Level() zapcore.Level {
	return l.level.Level()
}

// SetLevel changes the minimum level of l and every logger derived from it.
func (l *Logger) SetLevel(level string) error {
	return l.level.UnmarshalText([]byte(level))
}

// Close flushes buffered entries and releases the output.
func (l *Logger) Close() error {
	err := l.Sync()
	l.close()
	return err
}

func jsonEncoding() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "timestamp"
	ec.MessageKey = "message"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeDuration = zapcore.MillisDurationEncoder
	return ec
}

func consoleEncoding() zapcore.EncoderConfig {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	ec.EncodeDuration = zapcore.StringDurationEncoder
	return ec
}
