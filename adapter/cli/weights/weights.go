// Package weights holds the commands that inspect and change the scoring weights.
package weights

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/priora/internal/productivity/domain/weights"
	"github.com/spf13/cobra"
)

// Cmd is the weights command group.
var Cmd = &cobra.Command{
	Use:   "weights",
	Short: "Inspect and change the scoring weights",
	Long: `Weights control how much urgency, importance, effort and dependencies
contribute to a task's score. They always sum to 1.`,
}

func init() {
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(presetCmd)
	Cmd.AddCommand(resetCmd)
	Cmd.AddCommand(learnCmd)
}

func printVector(out io.Writer, label string, v weights.Vector) {
	fmt.Fprintf(out, "%s\n", label)
	fmt.Fprintf(out, "  urgency     %.3f\n", v.Urgency)
	fmt.Fprintf(out, "  importance  %.3f\n", v.Importance)
	fmt.Fprintf(out, "  effort      %.3f\n", v.Effort)
	fmt.Fprintf(out, "  dependency  %.3f\n", v.Dependency)
}
