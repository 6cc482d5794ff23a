/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dispecer/fleetray/internal/app"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications from the local mirror",
	Long: `List notifications from the local mirror.

USAGE:
    fleetray list [OPTIONS]

OPTIONS:
    --category <name>   Filter by category (document_expiration, ...)
    --user <id>         Filter by user id
    --unread            Show only unread notifications
    --read-filter <f>   Filter by read state (read, unread)
    --older-than <days> Show records older than N days
    --newer-than <days> Show records newer than N days
    -h, --help          Show this help`,
	RunE: runList,
}

var (
	listCategory   string
	listUser       string
	listUnread     bool
	listReadFilter string
	listOlderThan  int
	listNewerThan  int
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listCategory, "category", "", "filter by category")
	listCmd.Flags().StringVar(&listUser, "user", "", "filter by user id")
	listCmd.Flags().BoolVar(&listUnread, "unread", false, "show only unread notifications")
	listCmd.Flags().StringVar(&listReadFilter, "read-filter", "", "filter by read state (read, unread)")
	listCmd.Flags().IntVar(&listOlderThan, "older-than", 0, "show records older than N days")
	listCmd.Flags().IntVar(&listNewerThan, "newer-than", 0, "show records newer than N days")
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	return app.NewListUseCase(s).Execute(app.ListOptions{
		Category:   listCategory,
		UserID:     listUser,
		UnreadOnly: listUnread,
		ReadFilter: listReadFilter,
		OlderThan:  listOlderThan,
		NewerThan:  listNewerThan,
	}, os.Stdout)
}
