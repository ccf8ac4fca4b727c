package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var dashboardJSON bool

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Summarise the task list",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.DashboardHandler == nil {
			return ErrNotInitialized
		}

		d, err := app.DashboardHandler.Handle(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to build dashboard: %w", err)
		}

		out := cmd.OutOrStdout()
		if dashboardJSON {
			return WriteJSON(out, d)
		}

		fmt.Fprintf(out, "Tasks: %d\n", d.Total)
		statuses := make([]string, 0, len(d.ByStatus))
		for s := range d.ByStatus {
			statuses = append(statuses, s)
		}
		sort.Strings(statuses)
		for _, s := range statuses {
			fmt.Fprintf(out, "  %-12s %d\n", s, d.ByStatus[s])
		}
		fmt.Fprintf(out, "Scores: high %d, medium %d, low %d (unscored %d)\n", d.HighScore, d.MedScore, d.LowScore, d.Unscored)
		fmt.Fprintf(out, "Due: overdue %d, soon %d, later %d, none %d\n", d.Overdue, d.DueSoon, d.DueLater, d.NoDueDate)
		fmt.Fprintf(out, "With dependencies: %d\n", d.WithDeps)
		fmt.Fprintf(out, "Feedback records: %d\n", d.FeedbackOn)
		return nil
	},
}

func init() {
	dashboardCmd.Flags().BoolVar(&dashboardJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(dashboardCmd)
}
