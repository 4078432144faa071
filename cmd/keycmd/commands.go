package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/keycmd/internal/action"
	"github.com/dshills/keycmd/internal/app"
	"github.com/dshills/keycmd/internal/dispatcher"
	"github.com/dshills/keycmd/internal/input/key"
	"github.com/dshills/keycmd/internal/input/keymap"
	"github.com/dshills/keycmd/internal/input/palette"
	"github.com/dshills/keycmd/internal/ui"
)

// NormalizeCmd prints keybindings in canonical form.
type NormalizeCmd struct {
	Bindings []string `arg:"" help:"Keybindings to normalize"`
	Strict   bool     `help:"Fail on unknown modifiers or key names"`
}

// Run executes the normalize command.
func (c *NormalizeCmd) Run(g *Globals) error {
	out := g.stdout()
	for _, b := range c.Bindings {
		if c.Strict {
			if err := key.Validate(b); err != nil {
				return err
			}
		}
		fmt.Fprintln(out, key.Normalize(b))
	}
	return nil
}

// ActionsCmd lists actions the way the palette's default group shows them.
type ActionsCmd struct {
	Query []string `arg:"" optional:"" help:"Filter words matched against labels and descriptions"`
}

// Run executes the actions command.
func (c *ActionsCmd) Run(g *Globals) error {
	a, err := g.newApp(app.Options{})
	if err != nil {
		return err
	}
	defer a.Shutdown()

	reg := a.Registry()
	list, err := reg.GetRegisteredActions(context.Background(), action.DefaultPrefix, nil, "")
	if err != nil {
		return err
	}
	list = palette.Filter(list, strings.Join(c.Query, " "), nil)

	w := tabwriter.NewWriter(g.stdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tSHORTCUT")
	for _, act := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\n", act.ID, act.ResolveLabel(nil), shortcuts(reg, act.ID))
	}
	return w.Flush()
}

// MenuCmd prints the context menu with separators between groups.
type MenuCmd struct{}

// Run executes the menu command.
func (c *MenuCmd) Run(g *Globals) error {
	a, err := g.newApp(app.Options{})
	if err != nil {
		return err
	}
	defer a.Shutdown()

	out := g.stdout()
	for i, section := range a.ContextMenu(nil) {
		if i > 0 {
			fmt.Fprintln(out, "---")
		}
		for _, act := range section.Actions {
			fmt.Fprintf(out, "%s\t%s\n", act.ResolveLabel(nil), shortcuts(a.Registry(), act.ID))
		}
	}
	return nil
}

// PressCmd feeds key presses through the dispatcher and reports matches.
type PressCmd struct {
	Keys []string `arg:"" help:"Key presses, one chord per argument (e.g. ctrl+k ctrl+c)"`
	Args  []string `help:"Arguments passed to the fired action" name:"arg"`
	Stats bool     `help:"Print dispatcher statistics"`
}

// Run executes the press command.
func (c *PressCmd) Run(g *Globals) error {
	a, err := g.newApp(app.Options{Metrics: c.Stats})
	if err != nil {
		return err
	}
	defer a.Shutdown()

	out := g.stdout()
	fired := 0
	a.Dispatcher().AddPostHook(dispatcher.PostDispatchFunc(
		func(act *action.Action, seq key.Sequence, _ action.Context, err error) {
			fired++
			if err != nil {
				fmt.Fprintf(out, "%s -> %s (error: %v)\n", seq, act.ID, err)
				return
			}
			fmt.Fprintf(out, "%s -> %s\n", seq, act.ID)
		}))

	args := make([]any, len(c.Args))
	for i, s := range c.Args {
		args[i] = s
	}
	for _, k := range c.Keys {
		consumed, err := a.HandleKey(key.ParseEvent(k), nil, args...)
		if err != nil && !errors.Is(err, dispatcher.ErrActionCancelled) {
			return err
		}
		if !consumed {
			fmt.Fprintf(out, "%s: no match\n", key.Display(k))
		}
	}
	if pending := a.Dispatcher().Pending(); len(pending) > 0 {
		fmt.Fprintf(out, "%s: incomplete sequence\n", pending)
	}
	if c.Stats {
		printStats(out, a.Dispatcher().Stats())
	}
	if fired == 0 {
		return errors.New("no action fired")
	}
	return nil
}

// PaletteCmd runs the interactive command palette.
type PaletteCmd struct {
	Text string `arg:"" optional:"" help:"Initial search text" default:">"`
}

// Run executes the palette command.
func (c *PaletteCmd) Run(g *Globals) error {
	a, err := g.newApp(app.Options{})
	if err != nil {
		return err
	}
	defer a.Shutdown()

	if err := a.OpenPalette(c.Text, nil); err != nil {
		return err
	}
	model := ui.NewPaletteModel(a.Palette(), a.Registry())
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("palette: %w", err)
	}
	return model.Err()
}

// ImportCmd converts VS Code keybindings into a keymap file.
type ImportCmd struct {
	Source string `arg:"" help:"VS Code keybindings.json" type:"existingfile"`
	Output string `help:"Output file; the extension picks the format. Defaults to TOML on stdout" short:"o" type:"path"`
}

// Run executes the import command.
func (c *ImportCmd) Run(g *Globals) error {
	f, err := os.Open(c.Source)
	if err != nil {
		return err
	}
	defer f.Close()

	km, err := keymap.ImportVSCode(f)
	if err != nil {
		return err
	}
	km.Name = strings.TrimSuffix(filepath.Base(c.Source), filepath.Ext(c.Source))

	format := keymap.FormatTOML
	if c.Output != "" {
		if format, err = keymap.FormatFromPath(c.Output); err != nil {
			return err
		}
	}

	var data []byte
	switch format {
	case keymap.FormatYAML:
		data, err = yaml.Marshal(km)
	case keymap.FormatJSON:
		data, err = json.MarshalIndent(km, "", "  ")
		data = append(data, '\n')
	default:
		data, err = toml.Marshal(km)
	}
	if err != nil {
		return err
	}

	if c.Output == "" {
		_, err = g.stdout().Write(data)
		return err
	}
	return os.WriteFile(c.Output, data, 0o644)
}

// shortcuts renders an action's shortcuts for display.
func shortcuts(reg *action.Registry, id string) string {
	if seq := reg.KeySequence(id); len(seq) > 0 {
		return seq.String()
	}
	keys := reg.Keybindings(id)
	for i, k := range keys {
		keys[i] = key.Display(k)
	}
	return strings.Join(keys, ", ")
}
