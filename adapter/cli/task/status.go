package task

import (
	"fmt"

	"github.com/felixgeelhaar/priora/adapter/cli"
	"github.com/felixgeelhaar/priora/internal/productivity/application/commands"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <id> <backlog|in-progress|review|done>",
	Short: "Move a task to another status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.SetStatusHandler == nil {
			return cli.ErrNotInitialized
		}

		if err := app.SetStatusHandler.Handle(cmd.Context(), commands.SetStatusCommand{
			TaskID: args[0],
			Status: args[1],
		}); err != nil {
			return fmt.Errorf("failed to set status: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", args[0], args[1])
		return nil
	},
}
