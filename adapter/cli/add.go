package cli

import (
	"fmt"
	"strings"

	inboxCommands "github.com/felixgeelhaar/priora/internal/inbox/application/commands"
	"github.com/felixgeelhaar/priora/internal/shared/infrastructure/security"
	"github.com/spf13/cobra"
)

var addAudioPath string

var addCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Quick add a task with natural language",
	Long: `Quickly add a task using natural language.

The whole input becomes the title. Recognised fields:
- Due date: YYYY-MM-DD, today, tomorrow, in N days
- Effort: 2h, 1.5 hours
- Importance: imp 8, importance 3 (clamped to 1-10)

When several date phrases appear, the last rule that matches wins and a
warning is printed.

Examples:
  priora add "Buy groceries tomorrow"
  priora add "Finish report in 3 days 4h imp 9"
  priora add "Renew passport 2025-06-01"`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.CaptureHandler == nil {
			return ErrNotInitialized
		}

		capture := inboxCommands.CaptureCommand{Text: strings.Join(args, " ")}
		if addAudioPath != "" {
			audio, err := security.SafeReadFile(addAudioPath)
			if err != nil {
				return fmt.Errorf("failed to read audio: %w", err)
			}
			capture.Audio = audio
		}

		result, err := app.CaptureHandler.Handle(cmd.Context(), capture)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task created: %s\n", result.TaskID)
		printCandidate(out, result.Candidate)
		PrintWarnings(out, result.Warnings)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addAudioPath, "audio", "", "voice note to transcribe instead of typed text")
	rootCmd.AddCommand(addCmd)
}
