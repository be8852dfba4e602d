package collector

import (
	"context"

	"github.com/alexisbeaulieu97/rollout/internal/event"
	"github.com/alexisbeaulieu97/rollout/internal/logger"
)

// EventLogger writes every lifecycle event as a structured debug entry.
type EventLogger struct {
	log *logger.Logger
}

// NewEventLogger creates a collector logging through log.
func NewEventLogger(log *logger.Logger) *EventLogger {
	return &EventLogger{log: log}
}

// Register subscribes the logger to every lifecycle event.
func (l *EventLogger) Register(bus *event.Bus) {
	for _, name := range event.Lifecycle() {
		name := name
		bus.Subscribe(name, func(ctx context.Context, ev event.Event) error {
			l.log.WithFields(Fields(name, ev)).Debug("lifecycle event")
			return nil
		})
	}
}

// Fields flattens the identifying parts of ev into log fields.
func Fields(name string, ev event.Event) map[string]any {
	fields := map[string]any{"event_type": name}
	switch e := ev.(type) {
	case *event.InitializeEvent:
		fields["command"] = e.Command
		fields["version"] = e.Version
		if e.Stage != "" {
			fields["stage"] = string(e.Stage)
		}
	case *event.PrepareWorkspace:
		fields["host"] = e.Host.Name
	case *event.PrepareRelease:
		if e.Workspace != nil {
			fields["host"] = e.Workspace.Host.Name
		}
		fields["version"] = e.Version
	case *event.InstallRelease:
		fields["host"] = e.Release.Host().Name
		if e.Release != nil {
			fields["version"] = e.Release.Version
		}
	case *event.DeployRelease:
		fields["host"] = e.Release.Host().Name
		if e.Release != nil {
			fields["version"] = e.Release.Version
		}
		fields["mode"] = string(e.Mode)
	case *event.Failed:
		fields["host"] = e.Host.Name
		fields["phase"] = e.Phase
		if e.Err != nil {
			fields["error"] = e.Err.Error()
		}
	case *event.CommandComplete:
		fields["command"] = e.Command
		fields["version"] = e.Version
		fields["installed"] = e.Installed
		fields["deployed"] = e.Deployed
		fields["failed"] = e.Failed
	}
	return fields
}
