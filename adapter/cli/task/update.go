package task

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/priora/adapter/cli"
	"github.com/felixgeelhaar/priora/internal/productivity/application/commands"
	"github.com/spf13/cobra"
)

var (
	updateTitle        string
	updateDue          string
	updateHours        float64
	updateImportance   int
	updateDependencies []string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a task",
	Long: `Update the fields given as flags. Other fields keep their values.

Pass --due "" to clear the due date and --depends-on "" to clear dependencies.

Examples:
  priora task update 3 --title "Review PR #42"
  priora task update 3 --importance 9 --hours 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.UpdateTaskHandler == nil {
			return cli.ErrNotInitialized
		}

		flags := cmd.Flags()
		update := commands.UpdateTaskCommand{TaskID: args[0]}
		if flags.Changed("title") {
			update.Title = &updateTitle
		}
		if flags.Changed("due") {
			update.DueDate = &updateDue
		}
		if flags.Changed("hours") {
			update.EstimatedHours = &updateHours
		}
		if flags.Changed("importance") {
			update.Importance = &updateImportance
		}
		if flags.Changed("depends-on") {
			deps := make([]string, 0, len(updateDependencies))
			for _, d := range updateDependencies {
				if d != "" {
					deps = append(deps, d)
				}
			}
			update.Dependencies = &deps
		}
		if update.Title == nil && update.DueDate == nil && update.EstimatedHours == nil &&
			update.Importance == nil && update.Dependencies == nil {
			return errors.New("nothing to update")
		}

		result, err := app.UpdateTaskHandler.Handle(cmd.Context(), update)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task updated: %s\n", result.TaskID)
		cli.PrintWarnings(out, result.Warnings)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "new title")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "new due date (YYYY-MM-DD)")
	updateCmd.Flags().Float64Var(&updateHours, "hours", 0, "new effort estimate in hours")
	updateCmd.Flags().IntVarP(&updateImportance, "importance", "i", 0, "new importance 1-10")
	updateCmd.Flags().StringSliceVar(&updateDependencies, "depends-on", nil, "replace dependencies")
}
