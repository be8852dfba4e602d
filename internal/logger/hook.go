package logger

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/alexisbeaulieu97/rollout/internal/event"
)

// BusHook republishes every emitted log record as an event.Log dispatch so
// collectors can grade a run by the diagnostics it produced.
type BusHook struct {
	bus *event.Bus
}

// NewBusHook builds a hook dispatching to bus.
func NewBusHook(bus *event.Bus) BusHook {
	return BusHook{bus: bus}
}

// Run implements zerolog.Hook.
func (h BusHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if h.bus == nil {
		return
	}
	ctx := e.GetCtx()
	if ctx == nil {
		ctx = context.Background()
	}
	// Log subscribers are passive collectors; their errors have nowhere to go.
	_, _ = h.bus.Dispatch(ctx, event.Log, &event.LogEntry{Level: LevelOf(level), Message: msg})
}

// LevelOf maps a zerolog level onto the diagnostic severity scale.
func LevelOf(level zerolog.Level) event.Level {
	switch level {
	case zerolog.PanicLevel:
		return event.LevelEmergency
	case zerolog.FatalLevel:
		return event.LevelCritical
	case zerolog.ErrorLevel:
		return event.LevelError
	case zerolog.WarnLevel:
		return event.LevelWarning
	case zerolog.DebugLevel, zerolog.TraceLevel:
		return event.LevelDebug
	default:
		return event.LevelInfo
	}
}
