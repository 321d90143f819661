package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"treerun/internal/history"
	"treerun/internal/logging"
	"treerun/internal/runner"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "run <plan>",
		Short: "Execute a plan and report the final task tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			planPath, err := ctx.resolvePlanPath(args[0])
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			var store *history.Store
			if cfg.History.Enabled {
				store, err = history.Open(cfg)
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()
			}

			r, err := runner.New(cfg, logger, store)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			result, runErr := r.Execute(runCtx, planPath)
			if result != nil {
				if jsonOutput {
					if err := writeJSON(cmd, result.Snapshot); err != nil {
						return err
					}
				} else {
					printTree(cmd.OutOrStdout(), result.Snapshot)
				}
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the final tree snapshot as JSON")

	return cmd
}
