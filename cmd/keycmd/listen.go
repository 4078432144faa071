package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/keycmd/internal/action"
	"github.com/dshills/keycmd/internal/app"
	"github.com/dshills/keycmd/internal/dispatcher"
	"github.com/dshills/keycmd/internal/input/key"
	"github.com/dshills/keycmd/internal/input/termkey"
)

// maxLogLines is how many dispatch results the listen screen keeps.
const maxLogLines = 200

// ListenCmd captures key presses from the terminal and feeds them through
// the dispatcher until the quit key is pressed.
type ListenCmd struct {
	Quit  string `help:"Key that ends the session" default:"ctrl+q"`
	Stats bool   `help:"Print dispatcher statistics on exit"`
}

// Run executes the listen command.
func (c *ListenCmd) Run(g *Globals) error {
	a, err := g.newApp(app.Options{Metrics: c.Stats})
	if err != nil {
		return err
	}
	defer a.Shutdown()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	lines, err := c.listen(screen, a)
	screen.Fini()

	out := g.stdout()
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	if c.Stats {
		printStats(out, a.Dispatcher().Stats())
	}
	return err
}

// listen runs the event loop on an initialized screen and returns the
// dispatch transcript.
func (c *ListenCmd) listen(screen tcell.Screen, a *app.Application) ([]string, error) {
	var lines []string
	logf := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
		if len(lines) > maxLogLines {
			lines = lines[len(lines)-maxLogLines:]
		}
	}
	a.Dispatcher().AddPostHook(dispatcher.PostDispatchFunc(
		func(act *action.Action, seq key.Sequence, _ action.Context, err error) {
			if err != nil {
				logf("%s -> %s (error: %v)", seq, act.ID, err)
				return
			}
			logf("%s -> %s", seq, act.ID)
		}))

	for {
		c.draw(screen, a, lines)
		switch ev := screen.PollEvent().(type) {
		case nil:
			return lines, nil
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			kev := termkey.FromTcell(ev)
			if key.IsMatch(key.Normalize(c.Quit), kev) {
				return lines, nil
			}
			consumed, err := a.HandleKey(kev, nil)
			if err != nil && !errors.Is(err, dispatcher.ErrActionCancelled) {
				logf("%s: %v", key.Display(key.EventToKeybinding(kev)), err)
				continue
			}
			if !consumed {
				logf("%s: no match", key.Display(key.EventToKeybinding(kev)))
			}
		}
	}
}

func (c *ListenCmd) draw(screen tcell.Screen, a *app.Application, lines []string) {
	screen.Clear()
	_, height := screen.Size()

	header := tcell.StyleDefault.Bold(true)
	drawText(screen, 0, 0, header, fmt.Sprintf("Press keys; %s quits.", key.Display(c.Quit)))
	if pending := a.Dispatcher().Pending(); len(pending) > 0 {
		drawText(screen, 0, 1, tcell.StyleDefault.Foreground(tcell.ColorYellow), pending.String()+" ...")
	}

	rows := height - 3
	if rows < 0 {
		rows = 0
	}
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	for i, line := range lines {
		drawText(screen, 0, 3+i, tcell.StyleDefault, line)
	}
	screen.Show()
}

// drawText writes s one grapheme cluster per cell group.
func drawText(screen tcell.Screen, x, y int, style tcell.Style, s string) {
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		runes := gr.Runes()
		screen.SetContent(x, y, runes[0], runes[1:], style)
		x += gr.Width()
	}
}

// printStats writes a one-line summary of dispatcher counters.
func printStats(w io.Writer, s dispatcher.MetricsSnapshot) {
	fmt.Fprintf(w, "keys=%d matches=%d pending=%d misses=%d timeouts=%d errors=%d\n",
		s.Keys, s.Matches, s.PrefixHolds, s.Misses, s.Timeouts, s.Errors)
}
