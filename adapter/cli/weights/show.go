package weights

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/priora/adapter/cli"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current weights and what learning would change",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ShowWeightsHandler == nil {
			return cli.ErrNotInitialized
		}

		view, err := app.ShowWeightsHandler.Handle(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read weights: %w", err)
		}

		out := cmd.OutOrStdout()
		label := "Current weights (default)"
		if view.Custom {
			label = "Current weights (custom)"
		}
		printVector(out, label, view.Current)
		if view.Aggregates.Considered > 0 {
			printVector(out, fmt.Sprintf("Learned from %d feedback records", view.Aggregates.Considered), view.Learned)
		}
		fmt.Fprintf(out, "Presets: %s\n", strings.Join(view.Presets, ", "))
		return nil
	},
}
