package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	rollouterrors "github.com/alexisbeaulieu97/rollout/pkg/errors"
)

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	host := func(name, stage string) HostConfig {
		return HostConfig{Name: name, Stage: stage, Root: "/srv/shop"}
	}

	cases := []struct {
		name      string
		cfg       *Config
		wantField string
	}{
		{
			name: "valid config passes",
			cfg:  &Config{Name: "shop", ReinstallOn: "always", Hosts: []HostConfig{host("web1", "production"), host("db-1.internal", "staging")}},
		},
		{
			name:      "nil config",
			cfg:       nil,
			wantField: "config",
		},
		{
			name:      "duplicate host names",
			cfg:       &Config{Name: "shop", Hosts: []HostConfig{host("web1", "production"), host("web1", "staging")}},
			wantField: "hosts[1].name",
		},
		{
			name:      "unknown reinstall rule",
			cfg:       &Config{Name: "shop", ReinstallOn: "sometimes", Hosts: []HostConfig{host("web1", "production")}},
			wantField: "reinstall_on",
		},
		{
			name:      "unknown strategy",
			cfg:       &Config{Name: "shop", Strategy: "canary", Hosts: []HostConfig{host("web1", "production")}},
			wantField: "strategy",
		},
		{
			name:      "host name with spaces",
			cfg:       &Config{Name: "shop", Hosts: []HostConfig{host("web 1", "production")}},
			wantField: "hosts[0].name",
		},
		{
			name:      "missing root",
			cfg:       &Config{Name: "shop", Hosts: []HostConfig{{Name: "web1", Stage: "testing"}}},
			wantField: "hosts[0].root",
		},
		{
			name: "port out of range",
			cfg: &Config{Name: "shop", Hosts: []HostConfig{
				{Name: "web1", Stage: "testing", Root: "/srv", Port: 70000},
			}},
			wantField: "hosts[0].port",
		},
		{
			name:      "empty install command",
			cfg:       &Config{Name: "shop", Install: []string{"make", ""}, Hosts: []HostConfig{host("web1", "production")}},
			wantField: "install[1]",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateConfig(tc.cfg)
			if tc.wantField == "" {
				require.NoError(t, err)
				return
			}
			var validationErr *rollouterrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, tc.wantField, validationErr.Field)
		})
	}
}

func TestToSnake(t *testing.T) {
	t.Parallel()

	require.Equal(t, "reinstall_on", toSnake("ReinstallOn"))
	require.Equal(t, "hosts[2]", toSnake("Hosts[2]"))
	require.Equal(t, "log_level", toSnake("LogLevel"))
}
