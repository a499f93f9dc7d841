// Package hello is the smallest program: a single label and no messages.
package hello

import (
	"github.com/odvcencio/virtualviews/pkg/controller"
	"github.com/odvcencio/virtualviews/pkg/driver"
	"github.com/odvcencio/virtualviews/pkg/effect"
	"github.com/odvcencio/virtualviews/pkg/view"
)

// Msg has no meaningful values; nothing in the view sends one.
type Msg struct{}

type Model struct{}

func Update(m Model, _ Msg) (Model, []effect.Command[Msg]) {
	return m, nil
}

func View(Model) controller.Controller[Msg] {
	return controller.Screen[Msg]{View: view.Label[Msg]{Text: "Hello, world"}}
}

func Program() driver.Program[Model, Msg] {
	return driver.Program[Model, Msg]{
		Update: Update,
		View:   View,
	}
}
