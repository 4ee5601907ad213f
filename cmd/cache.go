package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the decision cache",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Drop every cached decision",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("classify"); err != nil {
			return err
		}
		c, err := initCache(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.Purge(ctx); err != nil {
			return err
		}
		zap.L().Info("cache purged")
		return nil
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry count",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("classify"); err != nil {
			return err
		}
		c, err := initCache(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		return printJSON(map[string]any{
			"backend": cfg.Cache.Backend,
			"entries": c.Entries(ctx),
		})
	},
}

func init() {
	cacheCmd.AddCommand(cachePurgeCmd, cacheStatsCmd)
	rootCmd.AddCommand(cacheCmd)
}
