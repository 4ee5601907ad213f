package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/surveylens/brandcheck/internal/batch"
)

var (
	batchOut         string
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch <input.csv>",
	Short: "Classify a CSV of respondent answers and write an XLSX report",
	Long:  "Reads answers from a CSV (columns: text, language_code, category, images), classifies them concurrently and writes per-row decisions plus a summary sheet. Failed rows go to the dead letter queue.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEngine(ctx, "batch")
		if err != nil {
			return err
		}
		defer env.Close()

		items, err := batch.LoadCSV(args[0])
		if err != nil {
			return err
		}
		zap.L().Info("batch loaded", zap.String("input", args[0]), zap.Int("items", len(items)))

		concurrency := batchConcurrency
		if concurrency == 0 {
			concurrency = cfg.Batch.Concurrency
		}

		runner := batch.NewRunner(env.Engine, env.Store, concurrency)
		results, summary := runner.Run(ctx, items)

		if err := batch.WriteReport(batchOut, results, summary); err != nil {
			return err
		}

		zap.L().Info("batch complete",
			zap.Int("total", summary.Total),
			zap.Int("approved", summary.Approved),
			zap.Int("rejected", summary.Rejected),
			zap.Int("review", summary.Review),
			zap.Int("from_cache", summary.FromCache),
			zap.Int("failed", summary.Failed),
			zap.Duration("duration", summary.Duration),
			zap.String("report", batchOut),
		)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchOut, "out", "brandcheck-report.xlsx", "report output path")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "concurrent classifications (default from config)")
	rootCmd.AddCommand(batchCmd)
}
