package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/textsieve/textsieve/internal/classify"
	"github.com/textsieve/textsieve/internal/cli"
	"github.com/textsieve/textsieve/internal/model"
)

func parseCmd() *cobra.Command {
	var (
		sender   string
		category string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "parse <message>",
		Short: "Classify a single message and print the extracted fields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := classify.New()
			if err != nil {
				return fmt.Errorf("failed to build engine: %w", err)
			}

			cat := model.CategoryAuto
			if category != "" {
				cat, err = model.ParseCategory(category)
				if err != nil {
					return err
				}
			}

			msg := model.Message{
				Text:   strings.Join(args, " "),
				Sender: sender,
			}

			outcome, err := engine.Parse(cmd.Context(), msg, cat)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(outcome)
			}

			cli.RenderOutcome(os.Stdout, outcome)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sender, "sender", "s", "", "sender ID of the message")
	cmd.Flags().StringVarP(&category, "category", "c", "", "force a category instead of auto-detecting")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the outcome as JSON")

	return cmd
}
