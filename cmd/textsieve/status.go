package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/textsieve/textsieve/internal/common"
	"github.com/textsieve/textsieve/internal/resstatus"
)

func statusCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "status <pnr>",
		Short: "Look up the live status of a train reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if provider == "" {
				provider = viper.GetString("resstatus.provider")
			}
			if provider == "" {
				return fmt.Errorf("%w: no reservation status provider configured", common.ErrProviderUnavailable)
			}

			client, err := resstatus.NewClient(provider)
			if err != nil {
				return err
			}

			status, err := client.Lookup(cmd.Context(), args[0])
			if err != nil {
				return common.NewUserError("failed to look up reservation status", err)
			}

			fmt.Printf("PNR:     %s\n", status.Code)
			fmt.Printf("Status:  %s\n", status.Status)
			if status.UpdatedAt != "" {
				fmt.Printf("Updated: %s\n", status.UpdatedAt)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "base URL of the reservation status provider")

	return cmd
}
