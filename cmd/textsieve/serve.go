package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/textsieve/textsieve/internal/web"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a dashboard over stored outcomes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			slog.Info("Starting dashboard", "addr", addr)
			return web.Serve(ctx, addr, store)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8099", "listen address for the dashboard")

	return cmd
}
