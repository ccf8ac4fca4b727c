package cli

import (
	"fmt"
	"sort"

	"github.com/felixgeelhaar/priora/pkg/observability"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the store and the scoring engine",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Health == nil {
			return ErrNotInitialized
		}

		overall := app.Health.GetOverallHealth(cmd.Context())
		out := cmd.OutOrStdout()
		names := make([]string, 0, len(overall.Checks))
		for name := range overall.Checks {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			check := overall.Checks[name]
			fmt.Fprintf(out, "%-8s %s", name, check.Status)
			if check.Message != "" {
				fmt.Fprintf(out, " (%s)", check.Message)
			}
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "overall  %s\n", overall.Status)

		if overall.Status == observability.HealthStatusUnhealthy {
			return fmt.Errorf("unhealthy")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
