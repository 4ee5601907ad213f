package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/surveylens/brandcheck/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "brandcheck",
	Short: "Multi-signal validation for survey brand answers",
	Long:  "Collects vision, search, known-entity and embedding evidence for a respondent's brand answer, fuses it into a confidence score and decides approve, reject or review.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
