package main

import (
	"os"

	"github.com/dispecer/fleetray/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
