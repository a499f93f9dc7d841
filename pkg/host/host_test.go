package host

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/virtualviews/pkg/apps/counter"
	"github.com/odvcencio/virtualviews/pkg/apps/todos"
	"github.com/odvcencio/virtualviews/pkg/driver"
	"github.com/odvcencio/virtualviews/pkg/effect"
	"github.com/odvcencio/virtualviews/pkg/native"
	"github.com/odvcencio/virtualviews/pkg/native/sim"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(60, 24)
	t.Cleanup(screen.Fini)
	return screen
}

func rows(s tcell.SimulationScreen) []string {
	w, h := s.Size()
	out := make([]string, h)
	for y := 0; y < h; y++ {
		var sb strings.Builder
		for x := 0; x < w; x++ {
			r, _, _, _ := s.GetContent(x, y)
			if r == 0 {
				r = ' '
			}
			sb.WriteRune(r)
		}
		out[y] = strings.TrimRight(sb.String(), " ")
	}
	return out
}

type harness[S any, M comparable] struct {
	screen tcell.SimulationScreen
	loop   *driver.Loop
	tk     *sim.Toolkit
	host   *Host
	driver *driver.Driver[S, M]
}

func start[S any, M comparable](t *testing.T, title string, prog driver.Program[S, M]) *harness[S, M] {
	t.Helper()
	h := &harness[S, M]{screen: newScreen(t), loop: driver.NewLoop(), tk: sim.New()}
	h.host = New(Options{
		Screen:  h.screen,
		Title:   title,
		Root:    func() native.ViewController { return h.driver.Root() },
		Dialogs: h.tk.Dialogs(),
		Post:    h.loop.Post,
	})
	h.driver = driver.New(prog, h.loop, driver.Options{
		Toolkit: h.tk,
		Env:     effect.Env{Dialogs: h.tk.Dialogs(), Context: context.Background()},
		OnIdle: func() {
			if h.driver != nil {
				h.host.Redraw()
			}
		},
	})
	h.host.Redraw()
	return h
}

func (h *harness[S, M]) settle() {
	for range 3 {
		h.loop.Drain()
		h.driver.Wait()
	}
	h.loop.Drain()
}

func TestRedrawShowsTreeAndFocus(t *testing.T) {
	h := start(t, "counter", counter.Program(counter.Options{}))
	got := rows(h.screen)
	assert.Equal(t, "counter", got[0])
	assert.Contains(t, got, "  Count: 0")
	assert.Contains(t, got, "> [Increment]")
	assert.Contains(t, got, "  [Decrement]")
	assert.Equal(t, "tab move  enter activate  d delete  q quit", got[len(got)-1])
}

func TestKeysActivateFocusedElement(t *testing.T) {
	h := start(t, "counter", counter.Program(counter.Options{}))

	h.host.press(tcell.KeyEnter, 0)
	h.loop.Drain()
	assert.Equal(t, 1, h.driver.Model().Count)
	assert.Contains(t, rows(h.screen), "  Count: 1")

	h.host.press(tcell.KeyTab, 0)
	assert.Contains(t, rows(h.screen), "> [Decrement]")
	h.host.press(tcell.KeyRune, ' ')
	h.host.press(tcell.KeyRune, ' ')
	h.loop.Drain()
	assert.Equal(t, -1, h.driver.Model().Count)
	assert.Contains(t, rows(h.screen), "> [Decrement]", "focus survives the redraw")

	h.host.press(tcell.KeyUp, 0)
	assert.Contains(t, rows(h.screen), "> [Increment]")
}

func TestPromptAndAlert(t *testing.T) {
	h := start(t, "todos", todos.Program(todos.Options{}))
	h.settle()

	h.host.press(tcell.KeyTab, 0)
	assert.Contains(t, rows(h.screen), "> [+]")
	h.host.press(tcell.KeyEnter, 0)
	h.loop.Drain()
	require.NotNil(t, h.tk.Dialogs().PendingPrompt())
	screen := strings.Join(rows(h.screen), "\n")
	assert.Contains(t, screen, "Add List")
	assert.Contains(t, screen, "The title for your new list")

	for _, r := range "Milkk" {
		h.host.press(tcell.KeyRune, r)
	}
	h.host.press(tcell.KeyBackspace2, 0)
	assert.Contains(t, strings.Join(rows(h.screen), "\n"), "> Milk_")
	h.host.press(tcell.KeyEnter, 0)
	h.settle()

	assert.Equal(t, []todos.List{{Title: "Milk"}}, h.driver.Model().Lists)
	alert := h.tk.Dialogs().PendingAlert()
	require.NotNil(t, alert, "saving without a store fails")
	assert.Contains(t, strings.Join(rows(h.screen), "\n"), "Could not save your lists")

	h.host.press(tcell.KeyRune, 'q')
	assert.False(t, alert.Dismissed())
	select {
	case <-h.host.quit:
		t.Fatal("q while an alert is pending must not quit")
	default:
	}

	h.host.press(tcell.KeyEnter, 0)
	assert.True(t, alert.Dismissed())
	assert.NotContains(t, strings.Join(rows(h.screen), "\n"), "Could not save your lists")
}

func TestRunQuitsOnKey(t *testing.T) {
	loop := driver.NewLoop()
	root := sim.New().NewViewController()
	h := New(Options{
		Screen: tcell.NewSimulationScreen("UTF-8"),
		Root:   func() native.ViewController { return root },
		Post:   loop.Post,
	})

	errc := make(chan error, 1)
	go func() { errc <- h.Run(context.Background()) }()
	require.Eventually(t, func() bool { return loop.Len() == 1 }, time.Second, 5*time.Millisecond)
	loop.Drain()

	h.press(tcell.KeyRune, 'q')
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("host did not quit")
	}
}

func TestRunStopsWithContext(t *testing.T) {
	loop := driver.NewLoop()
	h := New(Options{
		Screen: tcell.NewSimulationScreen("UTF-8"),
		Root:   func() native.ViewController { return nil },
		Post:   loop.Post,
	})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- h.Run(ctx) }()
	require.Eventually(t, func() bool { return loop.Len() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("host did not stop")
	}
}
