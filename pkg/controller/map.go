package controller

import (
	"fmt"

	"github.com/odvcencio/virtualviews/pkg/native"
	"github.com/odvcencio/virtualviews/pkg/view"
)

// Map converts every message embedded in c with f. Split view builders are
// composed with the conversion and run at render time.
func Map[A, B comparable](c Controller[A], f func(A) B) Controller[B] {
	switch c := c.(type) {
	case Screen[A]:
		return Screen[B]{View: view.Map(c.View, f)}
	case TableScreen[A]:
		return TableScreen[B]{Table: view.MapTable(c.Table, f)}
	case NavigationStack[A]:
		return MapStack(c, f)
	case SplitView[A]:
		out := SplitView[B]{
			CollapseSecondary: c.CollapseSecondary,
			OnPopDetail:       view.MapMsg(c.OnPopDetail, f),
		}
		if c.Primary != nil {
			primary := c.Primary
			out.Primary = func(toggle native.BarButtonItem) NavigationStack[B] {
				return MapStack(primary(toggle), f)
			}
		}
		if c.Secondary != nil {
			secondary := c.Secondary
			out.Secondary = func(toggle native.BarButtonItem) NavigationStack[B] {
				return MapStack(secondary(toggle), f)
			}
		}
		return out
	case Presenting[A]:
		return Presenting[B]{
			Base:  Map(c.Base, f),
			Modal: Modal[B]{Controller: Map(c.Modal.Controller, f), Style: c.Modal.Style},
		}
	default:
		panic(fmt.Sprintf("controller: unknown variant %T", c))
	}
}

// MapStack is Map specialized to navigation stacks.
func MapStack[A, B comparable](s NavigationStack[A], f func(A) B) NavigationStack[B] {
	out := NavigationStack[B]{OnPop: view.MapMsg(s.OnPop, f)}
	if s.Items != nil {
		out.Items = make([]NavigationItem[B], len(s.Items))
		for i, item := range s.Items {
			out.Items[i] = MapItem(item, f)
		}
	}
	return out
}

// MapItem converts a navigation item and the controller it holds.
func MapItem[A, B comparable](item NavigationItem[A], f func(A) B) NavigationItem[B] {
	out := NavigationItem[B]{
		Title:               item.Title,
		LeftSupplementsBack: item.LeftSupplementsBack,
	}
	if item.LeftButton != nil {
		out.LeftButton = MapBarButton(item.LeftButton, f)
	}
	if item.RightButtons != nil {
		out.RightButtons = make([]BarButton[B], len(item.RightButtons))
		for i, b := range item.RightButtons {
			out.RightButtons[i] = MapBarButton(b, f)
		}
	}
	if item.Controller != nil {
		out.Controller = Map(item.Controller, f)
	}
	return out
}

// MapBarButton converts the action of a bar button.
func MapBarButton[A, B comparable](b BarButton[A], f func(A) B) BarButton[B] {
	switch b := b.(type) {
	case NativeBarButton[A]:
		return NativeBarButton[B]{Item: b.Item}
	case SystemBarButton[A]:
		return SystemBarButton[B]{Item: b.Item, Action: f(b.Action)}
	case TextBarButton[A]:
		return TextBarButton[B]{Text: b.Text, Action: f(b.Action)}
	case EditBarButton[A]:
		return EditBarButton[B]{}
	default:
		panic(fmt.Sprintf("controller: unknown bar button %T", b))
	}
}
