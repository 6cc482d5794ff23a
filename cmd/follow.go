/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dispecer/fleetray/internal/app"
	"github.com/dispecer/fleetray/internal/colors"
	"github.com/dispecer/fleetray/internal/push"
)

// followCmd represents the follow command
var followCmd = &cobra.Command{
	Use:   "follow",
	Short: "Follow the notification stream in real-time",
	Long: `Follow the notification stream in real-time.

Connects to the per-user stream, reconciles with the backend, surfaces
new notifications on the desktop and prints them until Ctrl+C.

USAGE:
    fleetray follow [OPTIONS]

OPTIONS:
    --no-sync          Skip the initial backend sync
    --no-register      Skip device token registration
    -h, --help         Show this help`,
	RunE: runFollow,
}

var (
	followNoSync     bool
	followNoRegister bool
)

func init() {
	rootCmd.AddCommand(followCmd)
	followCmd.Flags().BoolVar(&followNoSync, "no-sync", false, "skip the initial backend sync")
	followCmd.Flags().BoolVar(&followNoRegister, "no-register", false, "skip device token registration")
}

func runFollow(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	api := newBackendClient(s)
	stream, err := newStream(s)
	if err != nil {
		return err
	}

	eng, err := startEngine(cmd.Context(), s, api, true)
	if err != nil {
		return err
	}
	defer eng.Stop()

	if !followNoRegister {
		go func() {
			if _, err := push.RegisterDevice(cmd.Context(), s, api); err != nil {
				colors.Warning("Device registration failed: " + err.Error())
			}
		}()
	}

	return app.NewFollowUseCase().Execute(cmd.Context(), app.FollowOptions{
		Engine:      eng,
		Stream:      stream,
		InitialSync: !followNoSync,
	})
}
