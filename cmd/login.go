/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dispecer/fleetray/internal/app"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the backend credential",
	Long: `Store the backend credential.

Every backend call reads the token at call time; nothing works against
the server without it.

USAGE:
    fleetray login --token <token> --user <id>`,
	RunE: runLogin,
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored credential",
	RunE:  runLogout,
}

var (
	loginToken string
	loginUser  string
)

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	loginCmd.Flags().StringVar(&loginToken, "token", "", "backend API token")
	loginCmd.Flags().StringVar(&loginUser, "user", "", "user id the stream follows")
	_ = loginCmd.MarkFlagRequired("token")
	_ = loginCmd.MarkFlagRequired("user")
}

func runLogin(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	return app.NewLoginUseCase(s).Execute(loginToken, loginUser)
}

func runLogout(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	return app.NewLoginUseCase(s).Logout()
}
