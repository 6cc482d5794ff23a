/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dispecer/fleetray/internal/app"
)

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove old notifications from the local mirror",
	Long: `Remove old notifications from the local mirror.

Only the local copy is trimmed; the server feed is untouched.

USAGE:
    fleetray cleanup [OPTIONS]

OPTIONS:
    --days <n>     Age threshold in days (default: 30)
    --keep-unread  Never remove unread notifications
    --dry-run      Show what would be removed
    -h, --help     Show this help`,
	RunE: runCleanup,
}

var (
	cleanupDays       int
	cleanupKeepUnread bool
	cleanupDryRun     bool
)

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.Flags().IntVar(&cleanupDays, "days", 30, "age threshold in days")
	cleanupCmd.Flags().BoolVar(&cleanupKeepUnread, "keep-unread", false, "never remove unread notifications")
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "show what would be removed")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	return app.NewCleanupUseCase(s).Execute(app.CleanupOptions{
		Days:       cleanupDays,
		KeepUnread: cleanupKeepUnread,
		DryRun:     cleanupDryRun,
	}, os.Stdout)
}
