package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/surveylens/brandcheck/internal/model"
	"github.com/surveylens/brandcheck/internal/store"
)

var (
	decisionsAction string
	decisionsMode   string
	decisionsLimit  int
)

var decisionsCmd = &cobra.Command{
	Use:   "decisions",
	Short: "Inspect the decision audit trail",
}

var decisionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted decisions, newest first",
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

		records, err := st.ListDecisions(ctx, decisionsFilter())
		if err != nil {
			return err
		}
		return printJSON(records)
	},
}

// decisionsFilter builds the list filter from the command's flag values.
func decisionsFilter() store.DecisionFilter {
	return store.DecisionFilter{
		Action: model.Action(decisionsAction),
		Mode:   decisionsMode,
		Limit:  decisionsLimit,
	}
}

var decisionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one decision by ID",
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

		rec, err := st.GetDecision(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(rec)
	},
}

func init() {
	decisionsListCmd.Flags().StringVar(&decisionsAction, "action", "", "filter by action: approve, reject or review")
	decisionsListCmd.Flags().StringVar(&decisionsMode, "mode", "", "filter by mode: response or entity")
	decisionsListCmd.Flags().IntVar(&decisionsLimit, "limit", 50, "maximum rows")
	decisionsCmd.AddCommand(decisionsListCmd, decisionsShowCmd)
	rootCmd.AddCommand(decisionsCmd)
}
