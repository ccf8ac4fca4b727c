package cli

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/priora/internal/productivity/application/commands"
	"github.com/spf13/cobra"
)

var analyzeStrategy string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score every task with the scoring engine",
	Long: `Send the task list and the current weights to the scoring engine and
store the returned scores and explanations.

Strategies: smart, fastest, high_impact, deadline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.AnalyzeTasksHandler == nil {
			return ErrNotInitialized
		}

		strategy := analyzeStrategy
		if strategy == "" {
			strategy = app.Strategy()
		}
		result, err := app.AnalyzeTasksHandler.Handle(cmd.Context(), commands.AnalyzeTasksCommand{Strategy: strategy})
		if err != nil {
			return fmt.Errorf("failed to analyze tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Scored %d tasks (strategy %s)\n", result.Applied, result.Strategy)
		for i, s := range result.Scored {
			fmt.Fprintf(out, "%2d. %-6s %s\n", i+1, FormatScore(s.Score), s.Title)
			if len(s.Explanation) > 0 {
				fmt.Fprintf(out, "            %s\n", strings.Join(s.Explanation, "; "))
			}
		}
		if result.Unmatched > 0 {
			PrintWarnings(out, []string{fmt.Sprintf("%d scored entries matched no task", result.Unmatched)})
		}
		for _, ie := range result.InputErrors {
			PrintWarnings(out, []string{fmt.Sprintf("task #%d rejected: %v", ie.Index, ie.Errors)})
		}
		printCycles(out, result.Cycles)
		if !result.CyclesAgree {
			PrintWarnings(out, []string{"engine and local cycle detection disagree"})
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeStrategy, "strategy", "s", "", "scoring strategy (default from config)")
	rootCmd.AddCommand(analyzeCmd)
}
