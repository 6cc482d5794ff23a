/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dispecer/fleetray/internal/app"
	"github.com/dispecer/fleetray/internal/errors"
)

// withMutator wires the store, backend and engine around one mutation.
func withMutator(cmd *cobra.Command, fn func(*app.MutateUseCase) error) error {
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

	return fn(app.NewMutateUseCase(eng, errors.NewDefaultCLIHandler()))
}
