package task

import (
	"fmt"

	"github.com/felixgeelhaar/priora/adapter/cli"
	"github.com/felixgeelhaar/priora/internal/productivity/application/commands"
	"github.com/spf13/cobra"
)

var (
	taskID       string
	importance   int
	hours        float64
	dueDate      string
	dependencies []string
)

var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new task",
	Long: `Create a new task with a title and optional properties.

Examples:
  priora task create "Complete project report"
  priora task create "Review PR" -i 8 --hours 0.5
  priora task create "Deploy" --due 2025-04-01 --depends-on 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CreateTaskHandler == nil {
			return cli.ErrNotInitialized
		}

		createCmd := commands.CreateTaskCommand{
			ID:           taskID,
			Title:        args[0],
			DueDate:      dueDate,
			Importance:   importance,
			Dependencies: dependencies,
		}
		if cmd.Flags().Changed("hours") {
			h := hours
			createCmd.EstimatedHours = &h
		}

		result, err := app.CreateTaskHandler.Handle(cmd.Context(), createCmd)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task created: %s\n", result.TaskID)
		fmt.Fprintf(out, "  title: %s\n", args[0])
		cli.PrintWarnings(out, result.Warnings)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&taskID, "id", "", "task id (generated when empty)")
	createCmd.Flags().IntVarP(&importance, "importance", "i", 0, "importance 1-10 (default 5)")
	createCmd.Flags().Float64Var(&hours, "hours", 0, "estimated effort in hours")
	createCmd.Flags().StringVar(&dueDate, "due", "", "due date (YYYY-MM-DD)")
	createCmd.Flags().StringSliceVar(&dependencies, "depends-on", nil, "ids of tasks this one depends on")
}
