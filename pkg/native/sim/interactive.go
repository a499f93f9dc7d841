package sim

import (
	"fmt"

	"github.com/odvcencio/virtualviews/pkg/native"
)

// Element is one focusable control in the visible tree.
type Element struct {
	ID    string
	Label string
	Kind  native.Kind
	// Activate taps a button or selects a row.
	Activate func()
	// Delete is set for table rows.
	Delete func()
	// Adjust nudges a slider by delta.
	Adjust func(delta float64)
	// Input replaces a text field's contents as if typed.
	Input func(text string)
	// Text returns the current contents of a text field.
	Text func() string
}

// Interactive lists the focusable elements a user can reach in the visible
// tree, in reading order.
func Interactive(root native.ViewController) []Element {
	var out []Element
	collectController(native.Topmost(root), &out)
	return out
}

func collectController(vc native.ViewController, out *[]Element) {
	switch c := vc.(type) {
	case nil:
	case *SplitController:
		if !c.collapsed {
			*out = append(*out, barElement(c.id+"/toggle", c.toggle))
		}
		collectController(c.primary, out)
		if !c.collapsed && c.secondary != nil {
			collectController(c.secondary, out)
		}
	case *NavigationController:
		if len(c.stack) > 1 {
			*out = append(*out, Element{
				ID:       c.id + "/back",
				Label:    "< Back",
				Kind:     native.KindButton,
				Activate: func() { c.UserBack() },
			})
		}
		if top := c.Top(); top != nil {
			collectController(top, out)
		}
	case *TableController:
		collectNavItem(c.id, &c.navItem, out)
		collectWidget(c.table, out)
	case *ViewController:
		collectNavItem(c.id, &c.navItem, out)
		collectWidget(c.view, out)
	}
}

func collectNavItem(owner string, item *native.NavigationItem, out *[]Element) {
	if item.LeftButton != nil {
		*out = append(*out, barElement(owner+"/left", item.LeftButton))
	}
	for i, b := range item.RightButtons {
		*out = append(*out, barElement(fmt.Sprintf("%s/right/%d", owner, i), b))
	}
}

func barElement(id string, b native.BarButtonItem) Element {
	return Element{
		ID:       id,
		Label:    "[" + b.Title() + "]",
		Kind:     native.KindButton,
		Activate: func() { b.Action().Perform() },
	}
}

func collectWidget(w native.Widget, out *[]Element) {
	switch n := w.(type) {
	case *Button:
		*out = append(*out, Element{ID: n.id, Label: "[" + n.title + "]", Kind: n.kind, Activate: n.Tap})
	case *Slider:
		*out = append(*out, Element{
			ID:     n.id,
			Label:  fmt.Sprintf("slider %.2f", n.value),
			Kind:   n.kind,
			Adjust: func(delta float64) { n.Drag(n.value + delta) },
		})
	case *TextField:
		*out = append(*out, Element{
			ID:       n.id,
			Label:    fmt.Sprintf("field %q", n.text),
			Kind:     n.kind,
			Input:    n.Type,
			Text:     n.Text,
			Activate: n.Return,
		})
	case *Table:
		for i, row := range n.rows {
			i := i
			el := Element{
				ID:       fmt.Sprintf("%s/%d", n.id, i),
				Label:    "- " + row.Text,
				Kind:     n.kind,
				Activate: func() { n.Select(i) },
			}
			if row.Deletable {
				el.Delete = func() { n.Delete(i) }
			}
			*out = append(*out, el)
		}
	case *Stack:
		for _, child := range n.children {
			collectWidget(child, out)
		}
	}
}
