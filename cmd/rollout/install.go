package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/rollout/internal/strategy"
)

func newInstallCmd(root *rootFlags) *cobra.Command {
	var stage string

	cmd := &cobra.Command{
		Use:   "install <version>",
		Short: "Install a version on every host, or on the hosts of one stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appOptions{
				ConfigPath: root.configPath,
				Verbose:    root.verbose,
				Stdout:     cmd.OutOrStdout(),
				Stderr:     cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.run(ctx, strategy.Strategy.Install, args[0], stage)
		},
	}

	cmd.Flags().StringVarP(&stage, "stage", "s", "", "Only install on hosts of this stage")

	return cmd
}
