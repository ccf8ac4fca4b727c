// Package task holds the "priora task" commands that edit the task list
// without scoring it.
package task

import "github.com/spf13/cobra"

// Cmd groups the task editing commands.
var Cmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks", "t"},
	Short:   "Create, inspect and edit tasks",
	Long: `Edit the persisted task list.

Tasks keep their ids across edits. Deleting a task leaves references to it in
other tasks' dependency lists; "priora cycles" reports them as unknown. Use
"priora analyze" to score the list.`,
}

func init() {
	Cmd.AddCommand(createCmd, listCmd, showCmd, updateCmd, statusCmd, deleteCmd, seedCmd)
}
