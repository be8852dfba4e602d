package deploy

import (
	"path"
	"time"
)

// Workspace is the per-run root on a host where releases are installed. It
// only exists once a task has connected to the host through its adapter.
type Workspace struct {
	ID   string
	Host Host
	Root string
	// CurrentVersion is the version live on the host before this run, empty
	// when nothing has been deployed yet.
	CurrentVersion string
	CreatedAt      time.Time
}

// ReleasesDir is the directory holding one sub-directory per version.
func (w *Workspace) ReleasesDir() string {
	return path.Join(w.Root, "releases")
}

// ReleaseDir is where version is materialised.
func (w *Workspace) ReleaseDir(version string) string {
	return path.Join(w.ReleasesDir(), version)
}

// CurrentLink is the symlink pointing at the live release.
func (w *Workspace) CurrentLink() string {
	return path.Join(w.Root, "current")
}
