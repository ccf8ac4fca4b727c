package cli

import (
	"fmt"

	"github.com/felixgeelhaar/priora/internal/productivity/application/queries"
	"github.com/felixgeelhaar/priora/internal/shared/infrastructure/security"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tasks through the scoring engine",
	Long: `Export tasks with their last known scores.

Formats: csv, json, yaml, toml, ics.

Examples:
  priora export
  priora export --format ics -o tasks.ics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ExportTasksHandler == nil {
			return ErrNotInitialized
		}

		doc, err := app.ExportTasksHandler.Handle(cmd.Context(), queries.ExportTasksQuery{Format: exportFormat})
		if err != nil {
			return fmt.Errorf("failed to export tasks: %w", err)
		}

		if exportOutput == "" {
			_, err = cmd.OutOrStdout().Write(doc.Data)
			return err
		}
		path, err := security.SafeWriteFile(exportOutput, doc.Data)
		if err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bytes (%s) to %s\n", len(doc.Data), doc.ContentType, path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", queries.DefaultExportFormat, "export format")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
