package cli

import (
	"fmt"

	"github.com/felixgeelhaar/priora/internal/productivity/application/commands"
	"github.com/spf13/cobra"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback <task-id> <helpful|done>",
	Short: "Record feedback on a suggested task",
	Long: `Record that a suggestion was helpful or that the task got done.

Feedback drives "priora weights learn".`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.RecordFeedbackHandler == nil {
			return ErrNotInitialized
		}

		result, err := app.RecordFeedbackHandler.Handle(cmd.Context(), commands.RecordFeedbackCommand{
			TaskID: args[0],
			Label:  args[1],
		})
		if err != nil {
			return fmt.Errorf("failed to record feedback: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Feedback recorded for %s: helpful %d, done %d\n", result.TaskID, result.Helpful, result.Done)
		if !result.Forwarded {
			PrintWarnings(out, []string{"scoring engine did not acknowledge the feedback"})
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(feedbackCmd)
}
