// Package deploy holds the entities shared by strategies, tasks and
// collectors: hosts, workspaces and releases.
package deploy

import (
	"fmt"

	"github.com/alexisbeaulieu97/rollout/internal/adapter"
)

// Host is a deployment target. Hosts are built from configuration and never
// modified by the orchestration loop.
type Host struct {
	Name    string
	Address string
	User    string
	Port    int
	Stage   Stage
	// Root is the directory under which workspaces and releases live.
	Root string
	// AdapterName is the registry key Adapter was built from.
	AdapterName string
	Adapter     adapter.Adapter
}

func (h Host) String() string {
	if h.Address == "" {
		return h.Name
	}
	return fmt.Sprintf("%s (%s)", h.Name, h.Address)
}
