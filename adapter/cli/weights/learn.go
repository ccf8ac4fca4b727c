package weights

import (
	"fmt"

	"github.com/felixgeelhaar/priora/adapter/cli"
	"github.com/spf13/cobra"
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Adapt the weights from recorded feedback",
	Long: `Shift weight toward the factors that made helpful suggestions stand out:
importance for high-importance tasks, effort for quick tasks and
dependency for tasks that wait on others.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.LearnWeightsHandler == nil {
			return cli.ErrNotInitialized
		}

		result, err := app.LearnWeightsHandler.Handle(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to learn weights: %w", err)
		}

		out := cmd.OutOrStdout()
		agg := result.Aggregates
		fmt.Fprintf(out, "Feedback considered: %d (orphaned %d)\n", agg.Considered, agg.Orphaned)
		fmt.Fprintf(out, "  helpful on high importance: %d\n", agg.HighImportanceHelpful)
		fmt.Fprintf(out, "  helpful on quick tasks:     %d\n", agg.QuickHelpful)
		fmt.Fprintf(out, "  helpful on blocked tasks:   %d\n", agg.BlockedHelpful)
		printVector(out, "Weights saved", result.Weights)
		return nil
	},
}
