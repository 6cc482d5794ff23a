/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dispecer/fleetray/internal/colors"
	"github.com/dispecer/fleetray/internal/ports"
	"github.com/dispecer/fleetray/internal/tui"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive feed viewer",
	Long: `Open the interactive feed viewer.

Shows the live feed; when a user is signed in the realtime stream keeps
it updated while the viewer is open.

USAGE:
    fleetray tui`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	eng, err := startEngine(cmd.Context(), s, newBackendClient(s), false)
	if err != nil {
		return err
	}
	defer eng.Stop()

	var conn ports.ConnStateSource
	if stream, err := newStream(s); err == nil {
		go stream.Run(cmd.Context())
		defer stream.Close()
		go func() {
			for event := range stream.Events() {
				eng.Ingest(event)
			}
		}()
		conn = stream
	} else {
		colors.Debug("stream disabled: " + err.Error())
	}

	return tui.Run(cmd.Context(), eng, conn)
}
