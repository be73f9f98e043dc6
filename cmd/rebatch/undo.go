package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rebatch/internal/history"
)

func newUndoCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "undo <directory> <batch-id>",
		Short: "Reverse a previously executed batch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, batchID := args[0], args[1]

			a, err := newApp(defaultCachePath(root), defaultHistoryPath(root), nil, true, nil)
			if err != nil {
				return err
			}
			defer a.close()

			report, err := history.Undo(context.Background(), a.history, a.engine, batchID, history.UndoOptions{Strict: strict})
			if err != nil {
				return fmt.Errorf("undoing batch %s: %w", batchID, err)
			}

			color.New(color.FgGreen).Printf("Undo %s: %d succeeded, %d skipped, %d failed\n",
				batchID, report.Succeeded, report.Skipped, report.Failed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "refuse the whole undo up front if any operation can't cleanly reverse")
	return cmd
}
