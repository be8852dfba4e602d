package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "rollout",
		Short:         "rollout installs and deploys releases across stages of hosts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "rollout.yaml", "Path to configuration file")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newInstallCmd(flags))
	cmd.AddCommand(newDeployCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
