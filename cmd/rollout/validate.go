package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/rollout/internal/config"
	"github.com/alexisbeaulieu97/rollout/internal/deploy"
)

func newValidateCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a configuration file without touching any host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfigPath(root.configPath); err != nil {
				return err
			}
			cfg, err := config.ParseConfig(root.configPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s is valid: %d host(s), strategy %s\n", root.configPath, len(cfg.Hosts), cfg.StrategyName())
			for _, stage := range deploy.Stages() {
				n := 0
				for _, h := range cfg.Hosts {
					if h.Stage == stage {
						n++
					}
				}
				if n > 0 {
					fmt.Fprintf(out, "  %-12s %d\n", stage, n)
				}
			}
			return nil
		},
	}
}
