package cli

import (
	"fmt"

	"github.com/felixgeelhaar/priora/internal/productivity/application/queries"
	"github.com/spf13/cobra"
)

var suggestStrategy string

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask the scoring engine what to work on next",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.SuggestTasksHandler == nil {
			return ErrNotInitialized
		}

		strategy := suggestStrategy
		if strategy == "" {
			strategy = app.Strategy()
		}
		resp, err := app.SuggestTasksHandler.Handle(cmd.Context(), queries.SuggestTasksQuery{Strategy: strategy})
		if err != nil {
			return fmt.Errorf("failed to get suggestions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(resp.Suggestions) == 0 {
			fmt.Fprintln(out, "No suggestions.")
		}
		for i, s := range resp.Suggestions {
			fmt.Fprintf(out, "%d. %s (%.2f)\n", i+1, s.Title, s.Score)
			if s.Why != "" {
				fmt.Fprintf(out, "   why: %s\n", s.Why)
			}
		}
		for _, alert := range resp.Alerts {
			fmt.Fprintf(out, "! %s\n", alert)
		}
		printCycles(out, resp.Cycles)
		return nil
	},
}

func init() {
	suggestCmd.Flags().StringVarP(&suggestStrategy, "strategy", "s", "", "scoring strategy (default from config)")
	rootCmd.AddCommand(suggestCmd)
}
