package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/dshills/keycmd/internal/app"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config   string   `help:"Path to the configuration file (TOML or YAML)" type:"path" env:"KEYCMD_CONFIG"`
	LogLevel string   `help:"Logging level (debug, info, warn, error)" name:"log-level"`
	Plugin   []string `help:"Lua script declaring actions (repeatable)" type:"path" short:"p"`
	Keymap   []string `help:"Keybinding override file (repeatable)" type:"path" short:"k"`

	// out is where commands print; tests replace it.
	out io.Writer `kong:"-"`
}

// CLI represents the command-line interface structure.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version information"`

	Normalize NormalizeCmd `cmd:"" help:"Print keybindings in canonical form"`
	Actions   ActionsCmd   `cmd:"" help:"List actions in command palette order"`
	Menu      MenuCmd      `cmd:"" help:"Print the context menu"`
	Press     PressCmd     `cmd:"" help:"Feed key presses through the sequence dispatcher"`
	Listen    ListenCmd    `cmd:"" help:"Capture key presses from the terminal and dispatch them"`
	Palette   PaletteCmd   `cmd:"" help:"Open the interactive command palette"`
	Import    ImportCmd    `cmd:"" help:"Convert a VS Code keybindings.json into a keymap file"`
}

// stdout returns the command output writer.
func (g *Globals) stdout() io.Writer {
	if g.out != nil {
		return g.out
	}
	return os.Stdout
}

// newApp starts an application from the global flags. Logs go to stderr
// unless the config names a log file.
func (g *Globals) newApp(opts app.Options) (*app.Application, error) {
	opts.ConfigPath = g.Config
	opts.LogLevel = g.LogLevel
	opts.PluginFiles = append(opts.PluginFiles, g.Plugin...)
	opts.KeymapFiles = append(opts.KeymapFiles, g.Keymap...)
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	return app.New(opts)
}
