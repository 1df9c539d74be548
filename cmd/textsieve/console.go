package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/textsieve/textsieve/internal/classify"
	"github.com/textsieve/textsieve/internal/cli"
)

func consoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Interactively classify messages pasted into a prompt",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := classify.New()
			if err != nil {
				return fmt.Errorf("failed to build engine: %w", err)
			}

			console := cli.NewConsole(engine, os.Stdin, os.Stdout)
			return console.Run(cmd.Context())
		},
	}
}
