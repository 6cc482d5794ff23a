/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dispecer/fleetray/internal/app"
)

// dismissCmd represents the dismiss command
var dismissCmd = &cobra.Command{
	Use:   "dismiss <id>",
	Short: "Dismiss a notification",
	Long: `Dismiss a notification.

The record is removed locally first, then the dismissal is pushed to
the backend.

USAGE:
    fleetray dismiss <id>`,
	Args: cobra.ExactArgs(1),
	RunE: runDismiss,
}

func init() {
	rootCmd.AddCommand(dismissCmd)
}

func runDismiss(cmd *cobra.Command, args []string) error {
	return withMutator(cmd, func(mutator *app.MutateUseCase) error {
		return mutator.Dismiss(cmd.Context(), args[0], os.Stdout)
	})
}
