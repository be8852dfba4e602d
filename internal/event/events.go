package event

import (
	"github.com/alexisbeaulieu97/rollout/internal/deploy"
)

// Event is the payload passed to subscribers. Phase events are pointers so
// subscribers can fill in their result slot; the dispatching loop owns the
// event for the duration of one dispatch and reads the slot afterwards.
type Event any

// Empty is substituted when Dispatch is called without an event.
type Empty struct{}

// InitializeEvent marks the start of a command.
type InitializeEvent struct {
	Command string
	Version string
	Stage   deploy.Stage
}

// PrepareWorkspace asks subscribers to connect to Host and produce a Workspace.
type PrepareWorkspace struct {
	Host      deploy.Host
	Workspace *deploy.Workspace
}

// PrepareRelease asks subscribers to materialise Version in Workspace.
type PrepareRelease struct {
	Workspace *deploy.Workspace
	Version   string
	Release   *deploy.Release
}

// InstallRelease asks subscribers to install Release.
type InstallRelease struct {
	Release *deploy.Release
}

// DeployMode tells deploy subscribers how the release reached the host.
type DeployMode string

const (
	// ModeUpdate promotes a release without reinstalling it.
	ModeUpdate DeployMode = "update"
	// ModeReinstall promotes a release that was installed from scratch.
	ModeReinstall DeployMode = "reinstall"
)

// DeployRelease asks subscribers to make Release the live one.
type DeployRelease struct {
	Release *deploy.Release
	Mode    DeployMode
}

// Failed records that Phase produced no result for Host.
type Failed struct {
	Phase   string
	Host    deploy.Host
	Version string
	Err     error
}

// CommandComplete closes an install or deploy command.
type CommandComplete struct {
	Command   string
	Version   string
	Stage     deploy.Stage
	Installed int
	Deployed  int
	Failed    int
}

// Level is a diagnostic severity.
type Level string

const (
	LevelEmergency Level = "emergency"
	LevelAlert     Level = "alert"
	LevelCritical  Level = "critical"
	LevelError     Level = "error"
	LevelWarning   Level = "warning"
	LevelNotice    Level = "notice"
	LevelInfo      Level = "info"
	LevelDebug     Level = "debug"
)

// Degrading reports whether a log at this level makes a run partially
// successful.
func (l Level) Degrading() bool {
	switch l {
	case LevelEmergency, LevelAlert, LevelCritical, LevelError, LevelWarning:
		return true
	default:
		return false
	}
}

// LogEntry is the payload of the Log event.
type LogEntry struct {
	Level   Level
	Message string
}
