package event

// Lifecycle event names. Failure variants carry a *Failed payload.
const (
	Initialize = "initialize"

	PrepareWorkspaceName       = "workspace.prepare"
	PrepareWorkspaceFailedName = "workspace.prepare.failed"
	PrepareReleaseName         = "release.prepare"
	PrepareReleaseFailedName   = "release.prepare.failed"
	InstallReleaseName         = "release.install"
	InstallReleaseFailedName   = "release.install.failed"
	DeployReleaseName          = "release.deploy"
	DeployReleaseFailedName    = "release.deploy.failed"

	InstallCommandComplete = "install.command.complete"
	DeployCommandComplete  = "deploy.command.complete"

	// Log is reserved for diagnostics. Dispatching it never changes the
	// last dispatched event.
	Log = "log"
)

// Lifecycle returns every event name except Log, in pipeline order.
func Lifecycle() []string {
	return []string{
		Initialize,
		PrepareWorkspaceName,
		PrepareWorkspaceFailedName,
		PrepareReleaseName,
		PrepareReleaseFailedName,
		InstallReleaseName,
		InstallReleaseFailedName,
		DeployReleaseName,
		DeployReleaseFailedName,
		InstallCommandComplete,
		DeployCommandComplete,
	}
}

// FailureNames returns the failure variants of the phase events.
func FailureNames() []string {
	return []string{
		PrepareWorkspaceFailedName,
		PrepareReleaseFailedName,
		InstallReleaseFailedName,
		DeployReleaseFailedName,
	}
}

// IsFailure reports whether name is a failure variant.
func IsFailure(name string) bool {
	for _, failure := range FailureNames() {
		if name == failure {
			return true
		}
	}
	return false
}

// FailureOf maps a phase event name to its failure variant.
func FailureOf(phase string) string {
	switch phase {
	case PrepareWorkspaceName:
		return PrepareWorkspaceFailedName
	case PrepareReleaseName:
		return PrepareReleaseFailedName
	case InstallReleaseName:
		return InstallReleaseFailedName
	case DeployReleaseName:
		return DeployReleaseFailedName
	default:
		return ""
	}
}
