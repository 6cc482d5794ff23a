/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dispecer/fleetray/internal/app"
)

// markReadCmd represents the mark-read command
var markReadCmd = &cobra.Command{
	Use:   "mark-read <id>",
	Short: "Mark a notification as read",
	Long: `Mark a notification as read.

The read flag is applied locally first, then pushed to the backend.

USAGE:
    fleetray mark-read <id>`,
	Args: cobra.ExactArgs(1),
	RunE: runMarkRead,
}

func init() {
	rootCmd.AddCommand(markReadCmd)
}

func runMarkRead(cmd *cobra.Command, args []string) error {
	return withMutator(cmd, func(mutator *app.MutateUseCase) error {
		return mutator.MarkRead(cmd.Context(), args[0], os.Stdout)
	})
}
