package cli

import (
	"fmt"

	"github.com/felixgeelhaar/priora/internal/productivity/application/commands"
	"github.com/felixgeelhaar/priora/internal/productivity/infrastructure/persistence"
	"github.com/felixgeelhaar/priora/internal/shared/infrastructure/docstore"
	"github.com/spf13/cobra"
)

var watchAnalyze bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload state when another process changes the task files",
	Long: `Watch the file store and reload tasks, feedback and weights whenever they
are rewritten by another priora process. With --analyze the tasks are
scored again after every change to the task list.

Only the file store supports watching. Stop with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Store == nil || app.Workspace == nil {
			return ErrNotInitialized
		}
		watcher, ok := app.Store.(docstore.Watcher)
		if !ok {
			return fmt.Errorf("the %s store cannot be watched", app.Store.Driver())
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Watching for changes...")

		return watcher.Watch(ctx, func(key string) {
			if err := app.Workspace.Load(ctx); err != nil {
				app.Logger.Error("failed to reload state", "key", key, "error", err)
				return
			}
			fmt.Fprintf(out, "%s changed: %d tasks loaded\n", key, app.Workspace.Tasks.Len())

			if !watchAnalyze || key != persistence.TasksKey || app.AnalyzeTasksHandler == nil {
				return
			}
			result, err := app.AnalyzeTasksHandler.Handle(ctx, commands.AnalyzeTasksCommand{Strategy: app.Strategy()})
			switch {
			case err != nil && ctx.Err() != nil:
				return
			case err != nil:
				PrintWarnings(out, []string{fmt.Sprintf("rescoring failed: %v", err)})
			default:
				fmt.Fprintf(out, "rescored %d tasks\n", result.Applied)
			}
		})
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchAnalyze, "analyze", false, "rescore tasks after each change")
	rootCmd.AddCommand(watchCmd)
}
