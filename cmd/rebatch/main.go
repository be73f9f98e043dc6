package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "rebatch",
		Short: "Batch file renaming for media workflows",
		Long: `rebatch computes proposed renames from a pipeline of naming
modules (counters, metadata fields, literal text, text removal,
original name), previews them against the filesystem and the rest of
the batch, and executes them with conflict resolution, companion-file
synchronization, and undo history.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive()
		},
	}

	root.AddCommand(newPreviewCommand())
	root.AddCommand(newExecuteCommand())
	root.AddCommand(newUndoCommand())
	root.AddCommand(newHistoryCommand())

	if err := root.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runInteractive drives a minimal prompt loop when rebatch is invoked
// with no subcommand, standing in for a user who'd rather be walked
// through picking a directory than typing flags.
func runInteractive() error {
	action, err := selectAction()
	if err != nil {
		if err == promptui.ErrInterrupt {
			return nil
		}
		return err
	}
	if action == "quit" {
		return nil
	}

	dir, err := pickDirectory(fmt.Sprintf("Directory to %s", action))
	if err != nil {
		return err
	}

	switch action {
	case "preview":
		return newPreviewCommand().RunE(newPreviewCommand(), []string{dir})
	case "execute":
		return newExecuteCommand().RunE(newExecuteCommand(), []string{dir})
	case "history list":
		return newHistoryListCommand().RunE(newHistoryListCommand(), []string{dir})
	case "undo":
		batchID, err := promptText("Batch ID")
		if err != nil {
			return err
		}
		return newUndoCommand().RunE(newUndoCommand(), []string{dir, batchID})
	}
	return nil
}
