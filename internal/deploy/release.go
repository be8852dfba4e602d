package deploy

// ReleaseState tracks how far a release has progressed on its host.
type ReleaseState string

const (
	ReleasePrepared  ReleaseState = "prepared"
	ReleaseInstalled ReleaseState = "installed"
	ReleaseDeployed  ReleaseState = "deployed"
)

// Release is a version materialised inside a workspace.
type Release struct {
	Version   string
	Path      string
	State     ReleaseState
	Workspace *Workspace
}

// Host returns the host the release lives on.
func (r *Release) Host() Host {
	if r == nil || r.Workspace == nil {
		return Host{}
	}
	return r.Workspace.Host
}

// Installed reports whether the release finished installing. A deployed
// release counts as installed.
func (r *Release) Installed() bool {
	return r != nil && (r.State == ReleaseInstalled || r.State == ReleaseDeployed)
}
