package main

import (
	"os"

	"github.com/zapponejosh/cyclecal-api/cmd/phasecal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
