package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/textsieve/textsieve/internal/batch"
	"github.com/textsieve/textsieve/internal/classify"
	"github.com/textsieve/textsieve/internal/common"
	"github.com/textsieve/textsieve/internal/model"
)

func batchCmd() *cobra.Command {
	var (
		category string
		outPath  string
		xlsxPath string
		workers  int
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "batch <csv-file>",
		Short: "Classify every message in a CSV file and write a report",
		Long: `Reads messages from a CSV file (columns: message/text/body plus an
optional sender/address column), classifies them concurrently, and
writes a summary report as JSON and/or XLSX.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

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

			messages, err := batch.ReadCSV(args[0])
			if err != nil {
				return common.NewUserError("failed to read messages from "+args[0], err)
			}

			processor := batch.NewProcessor(engine, batch.Options{
				Category: cat,
				Workers:  workers,
				Progress: true,
			})

			results, err := processor.Process(ctx, messages)
			if err != nil {
				return err
			}

			report := batch.BuildReport(results)
			slog.Info("Batch complete",
				"total", report.Summary.Total,
				"parsed", report.Summary.Parsed,
				"rejected", report.Summary.Rejected,
				"mean_confidence", report.Summary.MeanConfidence)

			if outPath != "" {
				if err := report.WriteJSON(outPath); err != nil {
					return fmt.Errorf("failed to write JSON report: %w", err)
				}
				slog.Info("Wrote JSON report", "path", outPath)
			}

			if xlsxPath != "" {
				if err := report.WriteXLSX(xlsxPath); err != nil {
					return fmt.Errorf("failed to write XLSX report: %w", err)
				}
				slog.Info("Wrote XLSX report", "path", xlsxPath)
			}

			if save {
				store, err := openStore(ctx)
				if err != nil {
					return err
				}
				defer store.Close()

				for _, result := range results {
					if err := store.SaveResult(ctx, result.Message, result.Outcome); err != nil {
						return fmt.Errorf("failed to save result %d: %w", result.Index, err)
					}
				}
				slog.Info("Saved results", "count", len(results))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "force a category instead of auto-detecting")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write a JSON report to this path")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write an XLSX report to this path")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "number of concurrent workers")
	cmd.Flags().BoolVar(&save, "store", false, "save outcomes to the database")

	return cmd
}
