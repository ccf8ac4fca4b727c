package task

import (
	"fmt"

	"github.com/felixgeelhaar/priora/adapter/cli"
	"github.com/felixgeelhaar/priora/internal/productivity/application/queries"
	"github.com/spf13/cobra"
)

var (
	search           string
	filterImportance string
	filterEffort     string
	filterStatus     string
	sortBy           string
	limit            int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks with optional filtering and sorting.

Filter Options:
  --search      Case-insensitive text in the title
  --importance  high (8-10), mid (4-7), low (1-3)
  --effort      quick (<1h), small (1-3h), long (>3h)
  --status      backlog, in-progress, review, done, all

Sort Options:
  --sort        score, due_date, importance, title

Examples:
  priora task list
  priora task list --importance high --sort due_date
  priora task list --effort quick --limit 5`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListTasksHandler == nil {
			return cli.ErrNotInitialized
		}

		tasks, err := app.ListTasksHandler.Handle(cmd.Context(), queries.ListTasksQuery{
			Search:     search,
			Importance: filterImportance,
			Effort:     filterEffort,
			Status:     filterStatus,
			SortBy:     sortBy,
			Limit:      limit,
		})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}
		fmt.Fprintf(out, "Tasks (%d):\n", len(tasks))
		cli.PrintTaskTable(out, tasks)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&search, "search", "q", "", "text to search for in titles")
	listCmd.Flags().StringVar(&filterImportance, "importance", "", "importance bucket")
	listCmd.Flags().StringVar(&filterEffort, "effort", "", "effort bucket")
	listCmd.Flags().StringVar(&filterStatus, "status", "", "status")
	listCmd.Flags().StringVar(&sortBy, "sort", "", "sort field")
	listCmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of tasks")
}
