package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/felixgeelhaar/priora/internal/productivity/application/queries"
)

// WriteJSON writes v as indented JSON.
func WriteJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatScore renders a score or "-" for unscored tasks.
func FormatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return strconv.FormatFloat(*score, 'f', 2, 64)
}

// FormatHours renders an effort estimate or "?" when unknown.
func FormatHours(hours *float64) string {
	if hours == nil {
		return "?"
	}
	return strconv.FormatFloat(*hours, 'f', -1, 64) + "h"
}

// PrintTaskTable writes tasks as aligned columns.
func PrintTaskTable(out io.Writer, tasks []queries.TaskDTO) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tDUE\tEFFORT\tIMP\tSCORE")
	for _, t := range tasks {
		due := t.DueDate
		if due == "" {
			due = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			t.ID, t.Title, t.Status, due, FormatHours(t.EstimatedHours), t.Importance, FormatScore(t.Score))
	}
	tw.Flush()
}

// PrintTask writes every field of one task.
func PrintTask(out io.Writer, t queries.TaskDTO) {
	fmt.Fprintf(out, "%s\n", t.Title)
	fmt.Fprintf(out, "  id:           %s\n", t.ID)
	fmt.Fprintf(out, "  status:       %s\n", t.Status)
	if t.DueDate != "" {
		fmt.Fprintf(out, "  due:          %s\n", t.DueDate)
	}
	fmt.Fprintf(out, "  effort:       %s\n", FormatHours(t.EstimatedHours))
	fmt.Fprintf(out, "  importance:   %d\n", t.Importance)
	if len(t.Dependencies) > 0 {
		fmt.Fprintf(out, "  depends on:   %s\n", strings.Join(t.Dependencies, ", "))
	}
	fmt.Fprintf(out, "  score:        %s\n", FormatScore(t.Score))
	for _, line := range t.Explanation {
		fmt.Fprintf(out, "    - %s\n", line)
	}
}

// PrintWarnings writes non-fatal problems reported by a command.
func PrintWarnings(out io.Writer, warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
}
