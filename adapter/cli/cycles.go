package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var cyclesCmd = &cobra.Command{
	Use:   "cycles",
	Short: "Detect circular dependencies between tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.DetectCyclesHandler == nil {
			return ErrNotInitialized
		}

		report, err := app.DetectCyclesHandler.Handle(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to analyze dependencies: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(report.Cycles) == 0 {
			fmt.Fprintln(out, "No dependency cycles.")
			if len(report.Order) > 0 {
				fmt.Fprintf(out, "Work order: %s\n", strings.Join(report.Order, " -> "))
			}
		}
		printCycles(out, report.Cycles)

		ids := make([]string, 0, len(report.Dangling))
		for id := range report.Dangling {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			PrintWarnings(out, []string{fmt.Sprintf("%s depends on unknown %s", id, strings.Join(report.Dangling[id], ", "))})
		}
		return nil
	},
}

func printCycles(out io.Writer, cycles [][]string) {
	for _, c := range cycles {
		if len(c) == 0 {
			continue
		}
		fmt.Fprintf(out, "cycle: %s -> %s\n", strings.Join(c, " -> "), c[0])
	}
}

func init() {
	rootCmd.AddCommand(cyclesCmd)
}
