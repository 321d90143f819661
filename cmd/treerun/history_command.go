package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"treerun/internal/history"
	"treerun/internal/tasktree"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recent runs, or the stage events of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("run history is disabled in the configuration")
			}
			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if len(args) == 1 {
				return printRunEvents(cmd, store, args[0], jsonOutput)
			}
			return printRecentRuns(cmd, store, limit, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit history as JSON")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")

	return cmd
}

func printRecentRuns(cmd *cobra.Command, store *history.Store, limit int, jsonOutput bool) error {
	runs, err := store.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		duration := ""
		if d := run.Duration(); d > 0 {
			duration = d.Round(time.Millisecond).String()
		}
		detail := run.ErrorMessage
		rows = append(rows, []string{
			run.ID,
			run.PlanTitle,
			string(run.Status),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			duration,
			detail,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Run", "Plan", "Status", "Started", "Duration", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	return nil
}

func printRunEvents(cmd *cobra.Command, store *history.Store, runID string, jsonOutput bool) error {
	run, err := store.GetRun(cmd.Context(), runID)
	if err != nil {
		return err
	}
	events, err := store.Events(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd, struct {
			Run    *history.Run    `json:"run"`
			Events []history.Event `json:"events"`
		}{run, events})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s) %s\n", run.PlanTitle, run.ID, run.Status)

	rows := make([][]string, 0, len(events))
	for _, event := range events {
		rows = append(rows, []string{
			event.CreatedAt.Local().Format("15:04:05"),
			event.TaskTitle,
			stageLabel(tasktree.Kind(event.Kind)),
			event.Message,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Time", "Task", "Stage", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
	))
	return nil
}
