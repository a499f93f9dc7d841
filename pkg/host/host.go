// Package host runs a simulated native tree in a terminal. It draws the
// visible tree with tcell, lets the user move between the interactive
// elements and answers dialogs.
//
// Everything except Run executes on the driver loop: key presses are posted
// there, and Redraw is meant to be the driver's OnIdle hook.
package host

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/virtualviews/pkg/errors"
	"github.com/odvcencio/virtualviews/pkg/logging"
	"github.com/odvcencio/virtualviews/pkg/native"
	"github.com/odvcencio/virtualviews/pkg/native/sim"
)

// Options configures a Host.
type Options struct {
	Screen  tcell.Screen
	Title   string
	Root    func() native.ViewController
	Dialogs *sim.Dialogs
	// Post schedules work on the driver loop.
	Post   func(func())
	Logger *logging.Logger
}

// Host is a terminal front end for a sim toolkit tree.
type Host struct {
	opts   Options
	screen tcell.Screen

	elements []sim.Element
	focus    int
	focusID  string
	input    []rune

	quit     chan struct{}
	quitOnce sync.Once
}

var (
	styleTitle   = tcell.StyleDefault.Bold(true).Underline(true)
	styleFocused = tcell.StyleDefault.Reverse(true)
	styleMuted   = tcell.StyleDefault.Dim(true)
	styleDialog  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
)

// New creates a host. The screen is initialized by Run.
func New(opts Options) *Host {
	return &Host{
		opts:   opts,
		screen: opts.Screen,
		quit:   make(chan struct{}),
	}
}

// Run owns the terminal until the user quits, which returns nil, or ctx is
// done.
func (h *Host) Run(ctx context.Context) error {
	if err := h.screen.Init(); err != nil {
		return errors.Wrap(err, errors.ErrCodeHostTerminal, "initialize terminal")
	}
	defer h.screen.Fini()
	h.screen.HideCursor()
	h.opts.Post(h.Redraw)

	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.quit:
			h.opts.Logger.Info(logging.CategoryHost, "host.quit", "user quit", nil)
			return nil
		case ev := <-events:
			switch e := ev.(type) {
			case *tcell.EventKey:
				if e.Key() == tcell.KeyCtrlC {
					h.stop()
					continue
				}
				key, r := e.Key(), e.Rune()
				h.opts.Post(func() { h.press(key, r) })
			case *tcell.EventResize:
				h.screen.Sync()
				h.opts.Post(h.Redraw)
			}
		}
	}
}

func (h *Host) stop() {
	h.quitOnce.Do(func() { close(h.quit) })
}

func (h *Host) pendingPrompt() *sim.Prompt {
	if h.opts.Dialogs == nil {
		return nil
	}
	return h.opts.Dialogs.PendingPrompt()
}

func (h *Host) pendingAlert() *sim.Alert {
	if h.opts.Dialogs == nil {
		return nil
	}
	return h.opts.Dialogs.PendingAlert()
}

func (h *Host) focused() (sim.Element, bool) {
	if h.focus < 0 || h.focus >= len(h.elements) {
		return sim.Element{}, false
	}
	return h.elements[h.focus], true
}

func (h *Host) move(delta int) {
	if len(h.elements) == 0 {
		return
	}
	h.focus = (h.focus + delta + len(h.elements)) % len(h.elements)
	h.focusID = h.elements[h.focus].ID
}

// press handles one key on the loop. Dialogs take every key while they are
// pending.
func (h *Host) press(key tcell.Key, r rune) {
	defer h.Redraw()

	if p := h.pendingPrompt(); p != nil {
		switch key {
		case tcell.KeyEnter:
			text := string(h.input)
			h.input = nil
			p.Respond(text)
		case tcell.KeyEscape:
			h.input = nil
			p.Cancel()
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			if len(h.input) > 0 {
				h.input = h.input[:len(h.input)-1]
			}
		case tcell.KeyRune:
			h.input = append(h.input, r)
		}
		return
	}
	if a := h.pendingAlert(); a != nil {
		if key == tcell.KeyEnter || key == tcell.KeyEscape || (key == tcell.KeyRune && r == ' ') {
			a.Dismiss()
		}
		return
	}

	el, ok := h.focused()
	switch key {
	case tcell.KeyTab, tcell.KeyDown:
		h.move(1)
	case tcell.KeyBacktab, tcell.KeyUp:
		h.move(-1)
	case tcell.KeyEnter:
		if ok && el.Activate != nil {
			h.opts.Logger.Debug(logging.CategoryHost, "element.activate", el.Label, map[string]any{"id": el.ID})
			el.Activate()
		}
	case tcell.KeyLeft, tcell.KeyRight:
		if ok && el.Adjust != nil {
			delta := 0.1
			if key == tcell.KeyLeft {
				delta = -delta
			}
			el.Adjust(delta)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if ok && el.Input != nil {
			text := []rune(el.Text())
			if len(text) > 0 {
				el.Input(string(text[:len(text)-1]))
			}
		}
	case tcell.KeyDelete:
		if ok && el.Delete != nil {
			el.Delete()
		}
	case tcell.KeyEscape:
		h.stop()
	case tcell.KeyRune:
		if ok && el.Input != nil {
			el.Input(el.Text() + string(r))
			return
		}
		switch r {
		case 'q':
			h.stop()
		case 'j':
			h.move(1)
		case 'k':
			h.move(-1)
		case ' ':
			if ok && el.Activate != nil {
				el.Activate()
			}
		case 'd':
			if ok && el.Delete != nil {
				el.Delete()
			}
		}
	}
}

// Redraw repaints the screen from the current native tree. Focus follows
// the focused element by ID across redraws.
func (h *Host) Redraw() {
	root := h.opts.Root()
	h.elements = sim.Interactive(root)
	h.focus = 0
	for i, el := range h.elements {
		if el.ID == h.focusID {
			h.focus = i
			break
		}
	}
	if len(h.elements) > 0 {
		h.focusID = h.elements[h.focus].ID
	}

	h.screen.Clear()
	width, height := h.screen.Size()
	y := 0
	h.print(0, y, h.opts.Title, styleTitle)
	y += 2
	for _, line := range sim.Lines(root) {
		h.print(0, y, line, tcell.StyleDefault)
		y++
	}
	y++
	for i, el := range h.elements {
		if i == h.focus {
			h.print(0, y, "> "+el.Label, styleFocused)
		} else {
			h.print(0, y, "  "+el.Label, tcell.StyleDefault)
		}
		y++
	}
	h.print(0, height-1, "tab move  enter activate  d delete  q quit", styleMuted)

	switch p, a := h.pendingPrompt(), h.pendingAlert(); {
	case p != nil:
		field := string(h.input) + "_"
		if len(h.input) == 0 && p.Placeholder != "" {
			field = p.Placeholder
		}
		h.dialog(width, height, []string{
			p.Title,
			"> " + field,
			fmt.Sprintf("enter %s  esc %s", p.Accept, p.Prompt.Cancel),
		})
	case a != nil:
		h.dialog(width, height, []string{a.Title, "[" + a.Accept + "]"})
	}
	h.screen.Show()
}

func (h *Host) dialog(width, height int, lines []string) {
	inner := 0
	for _, l := range lines {
		inner = max(inner, runewidth.StringWidth(l))
	}
	inner = min(inner+2, width)
	x := max((width-inner)/2, 0)
	y := max((height-len(lines))/2, 0)
	for i, l := range lines {
		h.fill(x, y+i, inner, styleDialog)
		h.print(x+1, y+i, l, styleDialog)
	}
}

func (h *Host) fill(x, y, n int, style tcell.Style) {
	for i := 0; i < n; i++ {
		h.screen.SetContent(x+i, y, ' ', nil, style)
	}
}

// print writes s at (x, y), truncated to the screen width.
func (h *Host) print(x, y int, s string, style tcell.Style) {
	width, _ := h.screen.Size()
	if x >= width {
		return
	}
	s = runewidth.Truncate(s, width-x, "…")
	for _, r := range s {
		h.screen.SetContent(x, y, r, nil, style)
		x += max(runewidth.RuneWidth(r), 1)
	}
}
