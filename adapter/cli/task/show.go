package task

import (
	"fmt"

	"github.com/felixgeelhaar/priora/adapter/cli"
	"github.com/felixgeelhaar/priora/internal/productivity/application/queries"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetTaskHandler == nil {
			return cli.ErrNotInitialized
		}

		t, err := app.GetTaskHandler.Handle(cmd.Context(), queries.GetTaskQuery{TaskID: args[0]})
		if err != nil {
			return fmt.Errorf("failed to get task: %w", err)
		}
		cli.PrintTask(cmd.OutOrStdout(), *t)
		return nil
	},
}
