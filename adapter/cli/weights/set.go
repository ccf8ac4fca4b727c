package weights

import (
	"fmt"

	"github.com/felixgeelhaar/priora/adapter/cli"
	"github.com/felixgeelhaar/priora/internal/productivity/application/commands"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/weights"
	"github.com/spf13/cobra"
)

var vector weights.Vector

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Set custom weights",
	Long: `Set custom weights. Values are relative and normalised to sum to 1.
Factors that are not given count as 0.

Examples:
  priora weights set --urgency 2 --importance 1 --effort 1 --dependency 0`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.SetWeightsHandler == nil {
			return cli.ErrNotInitialized
		}

		v := vector
		result, err := app.SetWeightsHandler.Handle(cmd.Context(), commands.SetWeightsCommand{Weights: &v})
		if err != nil {
			return fmt.Errorf("failed to set weights: %w", err)
		}
		printVector(cmd.OutOrStdout(), "Weights saved", result.Weights)
		return nil
	},
}

var presetCmd = &cobra.Command{
	Use:   "preset <smart|fastest|high_impact|deadline>",
	Short: "Use the weights of a named strategy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.SetWeightsHandler == nil {
			return cli.ErrNotInitialized
		}

		result, err := app.SetWeightsHandler.Handle(cmd.Context(), commands.SetWeightsCommand{Preset: args[0]})
		if err != nil {
			return fmt.Errorf("failed to apply preset: %w", err)
		}
		printVector(cmd.OutOrStdout(), "Weights saved", result.Weights)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop custom weights and use the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.SetWeightsHandler == nil {
			return cli.ErrNotInitialized
		}

		result, err := app.SetWeightsHandler.Handle(cmd.Context(), commands.SetWeightsCommand{Reset: true})
		if err != nil {
			return fmt.Errorf("failed to reset weights: %w", err)
		}
		printVector(cmd.OutOrStdout(), "Weights reset", result.Weights)
		return nil
	},
}

func init() {
	setCmd.Flags().Float64Var(&vector.Urgency, "urgency", 0, "urgency weight")
	setCmd.Flags().Float64Var(&vector.Importance, "importance", 0, "importance weight")
	setCmd.Flags().Float64Var(&vector.Effort, "effort", 0, "effort weight")
	setCmd.Flags().Float64Var(&vector.Dependency, "dependency", 0, "dependency weight")
}
