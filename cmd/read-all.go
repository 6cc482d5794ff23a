/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dispecer/fleetray/internal/app"
)

// readAllCmd represents the read-all command
var readAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark all notifications as read",
	Long: `Mark all notifications as read.

USAGE:
    fleetray read-all`,
	RunE: runReadAll,
}

func init() {
	rootCmd.AddCommand(readAllCmd)
}

func runReadAll(cmd *cobra.Command, args []string) error {
	return withMutator(cmd, func(mutator *app.MutateUseCase) error {
		return mutator.MarkAllRead(cmd.Context(), os.Stdout)
	})
}
