// Package logger is the structured logger shared by strategies, tasks and the
// CLI. Records can be mirrored onto the event bus through BusHook.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options describes logger configuration supplied at creation time.
type Options struct {
	Level string
	// HumanReadable selects the console writer instead of JSON lines.
	HumanReadable bool
	// NoColor disables ANSI colours in the console writer.
	NoColor bool
	Writer  io.Writer
	// Fields are attached to every record, for example a run id.
	Fields map[string]any
	Hooks  []zerolog.Hook
}

// Logger wraps zerolog with the small API rollout needs.
type Logger struct {
	base zerolog.Logger
}

// New creates a configured Logger instance based on Options.
func New(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var output io.Writer = opts.Writer
	if output == nil {
		output = os.Stderr
	}
	if opts.HumanReadable {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.Kitchen, NoColor: opts.NoColor}
	}

	ctx := zerolog.New(output).Level(level).With().Timestamp()
	for key, value := range opts.Fields {
		ctx = ctx.Interface(key, value)
	}
	base := ctx.Logger()
	for _, hook := range opts.Hooks {
		base = base.Hook(hook)
	}
	return &Logger{base: base}, nil
}

// ParseLevel accepts zerolog level names in any case; empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{base: zerolog.Nop()}
}

// WithFields returns a derived logger that always writes the supplied fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	if l == nil {
		return nil
	}

	builder := l.base.With()
	for key, value := range fields {
		builder = builder.Interface(key, value)
	}
	return &Logger{base: builder.Logger()}
}

// ForHost is shorthand for WithFields with the host name.
func (l *Logger) ForHost(host string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{base: l.base.With().Str("host", host).Logger()}
}

// WithContext binds ctx to every record so hooks can reach it.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{base: l.base.With().Ctx(ctx).Logger()}
}

// Enabled reports whether records at level would be written.
func (l *Logger) Enabled(level zerolog.Level) bool {
	return l != nil && l.base.GetLevel() <= level
}

// Info writes an informational log entry.
func (l *Logger) Info(msg string) {
	if l == nil {
		return
	}
	l.base.Info().Msg(msg)
}

// Debug writes a debug-level log entry if enabled.
func (l *Logger) Debug(msg string) {
	if l == nil {
		return
	}
	l.base.Debug().Msg(msg)
}

// Warn writes a warning level log entry.
func (l *Logger) Warn(msg string) {
	if l == nil {
		return
	}
	l.base.Warn().Msg(msg)
}

// Error writes an error log entry including the supplied error context.
func (l *Logger) Error(err error, msg string) {
	if l == nil {
		return
	}
	event := l.base.Error()
	if err != nil {
		event = event.Err(err)
	}
	event.Msg(msg)
}
