/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dispecer/fleetray/internal/app"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show feed and sync status",
	Long: `Show feed and sync status.

Prints the notification count, badge, credential presence and the time
of the last successful backend sync.

USAGE:
    fleetray status [OPTIONS]

OPTIONS:
    --count    Print only the unread count
    -h, --help Show this help`,
	RunE: runStatus,
}

var statusCountOnly bool

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusCountOnly, "count", false, "print only the unread count")
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	return app.NewStatusUseCase(s, nil).Execute(app.StatusOptions{CountOnly: statusCountOnly}, os.Stdout)
}
