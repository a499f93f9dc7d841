// Package controller composes view trees into screens and navigation
// containers. Like package view, every type is an immutable value generic
// over the message type, and the set of variants is closed.
package controller

import (
	"github.com/odvcencio/virtualviews/pkg/native"
	"github.com/odvcencio/virtualviews/pkg/view"
)

// Controller is a declarative screen or container.
type Controller[M comparable] interface {
	isController(*M)
}

// Screen shows a single view.
type Screen[M comparable] struct {
	View view.View[M]
}

func (Screen[M]) isController(*M) {}

// TableScreen shows a full-screen table.
type TableScreen[M comparable] struct {
	Table view.Table[M]
}

func (TableScreen[M]) isController(*M) {}

// NavigationStack layers Items in push order; index 0 is the root. OnPop is
// dispatched once each time the user pops a level with the system back
// affordance.
type NavigationStack[M comparable] struct {
	Items []NavigationItem[M]
	OnPop *M
}

func (NavigationStack[M]) isController(*M) {}

// SplitView shows a primary and a secondary navigation stack side by side.
// Both builders receive the native toggle that shows or hides the primary
// pane. When the native container collapses to one pane, the secondary items
// are appended to the primary stack and a user pop dispatches OnPopDetail,
// unless CollapseSecondary asks to drop the secondary instead.
type SplitView[M comparable] struct {
	Primary           func(toggle native.BarButtonItem) NavigationStack[M]
	Secondary         func(toggle native.BarButtonItem) NavigationStack[M]
	CollapseSecondary bool
	OnPopDetail       *M
}

func (SplitView[M]) isController(*M) {}

// Modal is a controller shown over another.
type Modal[M comparable] struct {
	Controller Controller[M]
	Style      native.PresentationStyle
}

// Presenting attaches a modal to Base. A controller that is not wrapped in
// Presenting has no modal; rendering it dismisses one left from before.
type Presenting[M comparable] struct {
	Base  Controller[M]
	Modal Modal[M]
}

func (Presenting[M]) isController(*M) {}

// WithModal presents m over c.
func WithModal[M comparable](c Controller[M], m Modal[M]) Controller[M] {
	if p, ok := c.(Presenting[M]); ok {
		c = p.Base
	}
	return Presenting[M]{Base: c, Modal: m}
}

// NavigationItem is one level of a NavigationStack with its bar buttons.
type NavigationItem[M comparable] struct {
	Title               string
	LeftButton          BarButton[M]
	RightButtons        []BarButton[M]
	LeftSupplementsBack bool
	Controller          Controller[M]
}

// BarButton is a navigation bar button.
type BarButton[M comparable] interface {
	isBarButton(*M)
}

// NativeBarButton places a toolkit-owned item as is.
type NativeBarButton[M comparable] struct {
	Item native.BarButtonItem
}

func (NativeBarButton[M]) isBarButton(*M) {}

// SystemBarButton is a toolkit-styled item dispatching Action.
type SystemBarButton[M comparable] struct {
	Item   native.SystemItem
	Action M
}

func (SystemBarButton[M]) isBarButton(*M) {}

// TextBarButton is a titled item dispatching Action.
type TextBarButton[M comparable] struct {
	Text   string
	Action M
}

func (TextBarButton[M]) isBarButton(*M) {}

// EditBarButton is the hosting controller's own edit toggle.
type EditBarButton[M comparable] struct{}

func (EditBarButton[M]) isBarButton(*M) {}
