package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/felixgeelhaar/priora/internal/inbox/services"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <text>",
	Short: "Show the fields recognised in a task description",
	Long: `Run the natural-language extractor without creating a task.

Examples:
  priora parse "Pay rent tomorrow imp 9"`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{AnnotationStandalone: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		now := nowFunc()
		candidate := services.Extract(strings.Join(args, " "), now())

		out := cmd.OutOrStdout()
		printCandidate(out, candidate)
		if candidate.Ambiguous {
			PrintWarnings(out, []string{"more than one date phrase matched"})
		}
		return nil
	},
}

func nowFunc() func() time.Time {
	if app := GetApp(); app != nil && app.Now != nil {
		return app.Now
	}
	return time.Now
}

func printCandidate(out io.Writer, c services.Candidate) {
	fmt.Fprintf(out, "  title:      %s\n", c.Title)
	if c.DueDate != nil {
		fmt.Fprintf(out, "  due:        %s\n", c.DueDate)
	}
	if c.EstimatedHours != nil {
		fmt.Fprintf(out, "  effort:     %s\n", FormatHours(c.EstimatedHours))
	}
	if c.Importance != nil {
		fmt.Fprintf(out, "  importance: %d\n", *c.Importance)
	}
	if len(c.Matches) > 0 {
		fmt.Fprintf(out, "  matched:    %s\n", strings.Join(c.Matches, ", "))
	}
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
