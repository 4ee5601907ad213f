package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/surveylens/brandcheck/internal/store"
)

var (
	dlqErrorClass string
	dlqLimit      int
)

var dlqCmd = &cobra.Command{
	Use:   "dlq",
	Short: "Inspect the dead letter queue of failed classifications",
}

var dlqListCmd = &cobra.Command{
	Use:   "list",
	Short: "List dead-lettered items",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("classify"); err != nil {
			return err
		}
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := st.ListDLQ(ctx, store.DLQFilter{ErrorClass: dlqErrorClass, Limit: dlqLimit})
		if err != nil {
			return err
		}

		count, err := st.CountDLQ(ctx)
		if err != nil {
			return err
		}
		zap.L().Info("dead letter queue", zap.Int("total", count), zap.Int("shown", len(entries)))
		return printJSON(entries)
	},
}

var dlqRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove one dead-lettered item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("classify"); err != nil {
			return err
		}
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.RemoveDLQ(ctx, args[0]); err != nil {
			return err
		}
		zap.L().Info("dlq entry removed", zap.String("id", args[0]))
		return nil
	},
}

func init() {
	dlqListCmd.Flags().StringVar(&dlqErrorClass, "class", "", "filter by error class")
	dlqListCmd.Flags().IntVar(&dlqLimit, "limit", 50, "maximum rows")
	dlqCmd.AddCommand(dlqListCmd, dlqRemoveCmd)
	rootCmd.AddCommand(dlqCmd)
}
