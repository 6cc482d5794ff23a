/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dispecer/fleetray/internal/app"
)

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Dismiss all notifications",
	Long: `Dismiss all notifications.

The feed is emptied locally first, then the bulk dismissal is pushed
to the backend and the badge is cleared.

USAGE:
    fleetray clear`,
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	return withMutator(cmd, func(mutator *app.MutateUseCase) error {
		return mutator.DismissAll(cmd.Context(), os.Stdout)
	})
}
