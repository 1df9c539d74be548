package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func dedupeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dedupe",
		Short: "Remove duplicate stored messages",
		Long: `Deletes stored messages that share a content hash with an earlier
message, keeping the oldest copy and pruning orphaned outcomes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Dedupe(ctx)
			if err != nil {
				return err
			}

			slog.Info("Dedupe complete", "removed", removed)
			return nil
		},
	}
}
