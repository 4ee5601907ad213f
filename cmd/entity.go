package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/surveylens/brandcheck/internal/model"
)

var entityCategory string

var entityCmd = &cobra.Command{
	Use:   "entity <name>",
	Short: "Validate one brand candidate against the known-entity directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEngine(ctx, "classify")
		if err != nil {
			return err
		}
		defer env.Close()

		cls, err := env.Engine.ClassifyEntity(ctx, model.EntityRequest{
			Name:     args[0],
			Category: entityCategory,
		})
		if err != nil {
			return err
		}

		return printJSON(cls)
	},
}

func init() {
	entityCmd.Flags().StringVar(&entityCategory, "category", "", "declared category context")
	rootCmd.AddCommand(entityCmd)
}
