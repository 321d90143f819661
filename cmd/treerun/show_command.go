package main

import (
	"github.com/spf13/cobra"

	"treerun/internal/plan"
	"treerun/internal/tasktree"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <plan>",
		Short: "Render the task tree a plan would run, without running it",
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
			p, err := plan.Load(planPath)
			if err != nil {
				return err
			}
			snapshot := tasktree.Snapshot(plan.Build(cfg, p))
			if jsonOutput {
				return writeJSON(cmd, snapshot)
			}
			printTree(cmd.OutOrStdout(), snapshot)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the tree as JSON")

	return cmd
}
