package config

import "time"

const (
	// DefaultStrategy is used when the document does not name one.
	DefaultStrategy = "release"
	// DefaultAdapter is used for hosts that do not name one.
	DefaultAdapter = "local"
)

// Config represents the full rollout configuration document.
type Config struct {
	Name        string       `yaml:"name" validate:"required,min=1,max=100"`
	Description string       `yaml:"description,omitempty"`
	Strategy    string       `yaml:"strategy,omitempty" validate:"omitempty,oneof=install release"`
	ReinstallOn string       `yaml:"reinstall_on,omitempty" validate:"omitempty,match_kind"`
	Settings    Settings     `yaml:"settings,omitempty"`
	Install     []string     `yaml:"install,omitempty" validate:"omitempty,dive,required"`
	Deploy      []string     `yaml:"deploy,omitempty" validate:"omitempty,dive,required"`
	Hosts       []HostConfig `yaml:"hosts" validate:"required,min=1,dive"`
}

// Settings holds global execution parameters.
type Settings struct {
	// Timeout bounds each host command, in seconds.
	Timeout  int    `yaml:"timeout,omitempty" validate:"omitempty,min=1,max=360000"`
	Verbose  bool   `yaml:"verbose,omitempty"`
	LogLevel string `yaml:"log_level,omitempty" validate:"omitempty,oneof=trace debug info warn error"`
}

// HostConfig describes one deployment target.
type HostConfig struct {
	Name    string            `yaml:"name" validate:"required,host_name"`
	Stage   string            `yaml:"stage" validate:"required,stage"`
	Adapter string            `yaml:"adapter,omitempty"`
	Address string            `yaml:"address,omitempty" validate:"omitempty,hostname_rfc1123|ip"`
	User    string            `yaml:"user,omitempty"`
	Port    int               `yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	Root    string            `yaml:"root" validate:"required"`
	Options map[string]string `yaml:"options,omitempty"`
}

// StrategyName returns the configured strategy tag or the default.
func (c *Config) StrategyName() string {
	if c.Strategy == "" {
		return DefaultStrategy
	}
	return c.Strategy
}

// CommandTimeout converts Settings.Timeout; zero means unbounded.
func (s Settings) CommandTimeout() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// AdapterName returns the configured adapter or the default.
func (h HostConfig) AdapterName() string {
	if h.Adapter == "" {
		return DefaultAdapter
	}
	return h.Adapter
}
