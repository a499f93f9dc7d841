// Package counter is a counter with buttons, an optional auto-increment
// timer and remote increments arriving over the message bus.
package counter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/odvcencio/virtualviews/pkg/bus"
	"github.com/odvcencio/virtualviews/pkg/controller"
	"github.com/odvcencio/virtualviews/pkg/driver"
	"github.com/odvcencio/virtualviews/pkg/effect"
	"github.com/odvcencio/virtualviews/pkg/view"
)

type Kind int

const (
	Increment Kind = iota + 1
	Decrement
	ToggleAuto
	Tick
	// Remote adds By, received from the bus.
	Remote
	Share
)

type Msg struct {
	Kind Kind
	By   int
}

type Model struct {
	Count int
	Auto  bool
}

// Options tunes the program.
type Options struct {
	// Tick is the auto-increment interval. Zero hides the auto toggle.
	Tick time.Duration
	// Subject is the bus subject prefix, e.g. "virtualviews".
	Subject string
}

func (o Options) incrementSubject() string { return bus.Join(o.Subject, "counter.increment") }

func (o Options) valueSubject() string { return bus.Join(o.Subject, "counter.value") }

func Update(o Options) func(Model, Msg) (Model, []effect.Command[Msg]) {
	return func(m Model, msg Msg) (Model, []effect.Command[Msg]) {
		switch msg.Kind {
		case Increment, Tick:
			m.Count++
		case Decrement:
			m.Count--
		case Remote:
			m.Count += msg.By
		case ToggleAuto:
			m.Auto = !m.Auto
		case Share:
			return m, []effect.Command[Msg]{effect.Publish[Msg]{
				Subject: o.valueSubject(),
				Data:    []byte(strconv.Itoa(m.Count)),
			}}
		}
		return m, nil
	}
}

func View(o Options) func(Model) controller.Controller[Msg] {
	return func(m Model) controller.Controller[Msg] {
		views := []view.View[Msg]{
			view.Label[Msg]{Text: fmt.Sprintf("Count: %d", m.Count)},
			view.Button[Msg]{Text: "Increment", OnTap: view.Msg(Msg{Kind: Increment})},
			view.Button[Msg]{Text: "Decrement", OnTap: view.Msg(Msg{Kind: Decrement})},
		}
		if o.Tick > 0 {
			title := "Start auto"
			if m.Auto {
				title = "Stop auto"
			}
			views = append(views, view.Button[Msg]{Text: title, OnTap: view.Msg(Msg{Kind: ToggleAuto})})
		}
		views = append(views, view.Button[Msg]{Text: "Share", OnTap: view.Msg(Msg{Kind: Share})})
		return controller.Screen[Msg]{View: view.Stack[Msg]{Children: views}}
	}
}

func Subscriptions(o Options) func(Model) []effect.Subscription[Msg] {
	return func(m Model) []effect.Subscription[Msg] {
		subs := []effect.Subscription[Msg]{
			effect.BusMessages[Msg]{Subject: o.incrementSubject(), Handle: remote},
		}
		if m.Auto && o.Tick > 0 {
			subs = append(subs, effect.Timer[Msg]{Interval: o.Tick, Message: Msg{Kind: Tick}})
		}
		return subs
	}
}

// remote parses a bus payload. An empty or malformed payload counts as one.
func remote(data []byte) Msg {
	by, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		by = 1
	}
	return Msg{Kind: Remote, By: by}
}

func Program(o Options) driver.Program[Model, Msg] {
	return driver.Program[Model, Msg]{
		Update:        Update(o),
		View:          View(o),
		Subscriptions: Subscriptions(o),
	}
}
