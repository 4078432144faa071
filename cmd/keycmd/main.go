// Package main is the entry point for the keycmd command.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("keycmd"),
		kong.Description("Inspect and drive keyboard-shortcut and command-palette actions."),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("keycmd %s (%s)", version, commit)},
	)

	if err := ctx.Run(&cli.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
