package config

import (
	"errors"
	"fmt"

	"github.com/alexisbeaulieu97/rollout/internal/adapter"
	"github.com/alexisbeaulieu97/rollout/internal/deploy"
)

// Inventory is the host set of a configuration with an adapter bound to each
// host. Hosts keep their configuration order.
type Inventory struct {
	hosts []deploy.Host
}

// NewInventory builds hosts from cfg, creating each adapter through adapters.
func NewInventory(cfg *Config, adapters *adapter.Registry) (*Inventory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("inventory: configuration is nil")
	}

	inv := &Inventory{hosts: make([]deploy.Host, 0, len(cfg.Hosts))}
	for i, hc := range cfg.Hosts {
		stage, err := deploy.ParseStage(hc.Stage)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fieldForHost(i, "stage"), err)
		}

		a, err := adapters.New(hc.AdapterName(), adapter.Params{
			Host:    hc.Name,
			Address: hc.Address,
			User:    hc.User,
			Port:    hc.Port,
			Root:    hc.Root,
			Options: hc.Options,
		})
		if err != nil {
			_ = inv.Close()
			return nil, fmt.Errorf("%s: %w", fieldForHost(i, "adapter"), err)
		}

		inv.hosts = append(inv.hosts, deploy.Host{
			Name:        hc.Name,
			Address:     hc.Address,
			User:        hc.User,
			Port:        hc.Port,
			Stage:       stage,
			Root:        hc.Root,
			AdapterName: hc.AdapterName(),
			Adapter:     a,
		})
	}
	return inv, nil
}

// Hosts returns every configured host.
func (i *Inventory) Hosts() []deploy.Host {
	return append([]deploy.Host(nil), i.hosts...)
}

// HostsByStage returns the hosts labelled stage.
func (i *Inventory) HostsByStage(stage deploy.Stage) []deploy.Host {
	var out []deploy.Host
	for _, h := range i.hosts {
		if h.Stage == stage {
			out = append(out, h)
		}
	}
	return out
}

// Close closes every bound adapter.
func (i *Inventory) Close() error {
	var errs []error
	for _, h := range i.hosts {
		if h.Adapter == nil {
			continue
		}
		if err := h.Adapter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", h.Name, err))
		}
	}
	return errors.Join(errs...)
}
