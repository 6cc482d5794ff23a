/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dispecer/fleetray/internal/colors"
	"github.com/dispecer/fleetray/internal/config"
	"github.com/dispecer/fleetray/internal/logging"
	"github.com/dispecer/fleetray/internal/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fleetray",
	Short: "The notification feed of your fleet, on your terminal.",
	Long: `The notification feed of your fleet, on your terminal.

fleetray keeps a local, de-duplicated mirror of a driver's notification
feed: it follows the realtime stream, reconciles with the backend, and
surfaces new notifications on the desktop.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		colors.SetDebug(config.GetBool("debug", false))
		colors.SetQuiet(config.GetBool("quiet", false))
		if err := logging.InitGlobal(); err != nil {
			colors.Debug("logging disabled: " + err.Error())
		}
		colors.SetLogger(logging.GetGlobal())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.ShutdownGlobal()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = version.String()
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.SilenceUsage = true
}
