package task

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/priora/adapter/cli"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add the sample tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.SeedTasksHandler == nil {
			return cli.ErrNotInitialized
		}

		result, err := app.SeedTasksHandler.Handle(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to seed tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(result.Created) == 0 {
			fmt.Fprintln(out, "Sample tasks already present.")
			return nil
		}
		fmt.Fprintf(out, "Added sample tasks: %s\n", strings.Join(result.Created, ", "))
		return nil
	},
}
