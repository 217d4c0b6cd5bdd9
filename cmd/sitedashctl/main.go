package main

import (
	"os"

	"github.com/sitedash/sitedash/cmd/sitedashctl/commands"
)

// Version information - set during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	// errors are already printed by the printer with color formatting
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
