package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and maintain batch history",
	}
	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryPruneCommand())
	return cmd
}

func newHistoryListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list <directory>",
		Short: "List recorded batches, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]
			a, err := newApp(defaultCachePath(root), defaultHistoryPath(root), nil, true, nil)
			if err != nil {
				return err
			}
			defer a.close()

			batches, err := a.history.ListBatches(context.Background(), limit)
			if err != nil {
				return fmt.Errorf("listing batches: %w", err)
			}
			for _, b := range batches {
				fmt.Printf("%s  %s  %s\n", b.ID, b.Timestamp.Format(time.RFC3339), b.Status)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum number of batches to list")
	return cmd
}

func newHistoryPruneCommand() *cobra.Command {
	var olderThanDays int
	var keepLast int

	cmd := &cobra.Command{
		Use:   "prune <directory>",
		Short: "Delete batch history older than a cutoff, always keeping the most recent N",
		Long: `History is persisted indefinitely by default (spec-required undo
capability). This verb is opt-in and must be invoked explicitly — it is
never run automatically, so it can't silently destroy undo capability
for a batch the user hasn't reviewed yet.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]
			a, err := newApp(defaultCachePath(root), defaultHistoryPath(root), nil, true, nil)
			if err != nil {
				return err
			}
			defer a.close()

			cutoff := time.Now().AddDate(0, 0, -olderThanDays)
			deleted, err := a.history.Prune(context.Background(), cutoff, keepLast)
			if err != nil {
				return fmt.Errorf("pruning history: %w", err)
			}
			fmt.Printf("Pruned %d batch(es) older than %s, keeping the %d most recent.\n", deleted, cutoff.Format(time.RFC3339), keepLast)
			return nil
		},
	}
	cmd.Flags().IntVar(&olderThanDays, "older-than-days", 90, "prune batches older than this many days")
	cmd.Flags().IntVar(&keepLast, "keep-last", 10, "always keep this many most recent batches regardless of age")
	return cmd
}
