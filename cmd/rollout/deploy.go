package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/rollout/internal/strategy"
)

func newDeployCmd(root *rootFlags) *cobra.Command {
	var stage string

	cmd := &cobra.Command{
		Use:   "deploy <version>",
		Short: "Promote a version on every host of a stage",
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
			return a.run(ctx, strategy.Strategy.Deploy, args[0], stage)
		},
	}

	cmd.Flags().StringVarP(&stage, "stage", "s", "", "Stage to deploy to")
	cmd.MarkFlagRequired("stage") //nolint:errcheck

	return cmd
}
