package sim

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/odvcencio/virtualviews/pkg/native"
)

type line struct {
	depth int
	kind  native.Kind
	text  string
	title bool
}

type walker struct {
	visibleOnly bool
	lines       []line
}

func (w *walker) add(depth int, kind native.Kind, format string, args ...any) {
	w.lines = append(w.lines, line{depth: depth, kind: kind, text: fmt.Sprintf(format, args...)})
}

func (w *walker) controller(vc native.ViewController, depth int) {
	if vc == nil {
		w.add(depth, 0, "(none)")
		return
	}
	if w.visibleOnly {
		if top := native.Topmost(vc); top != vc {
			w.controller(top, depth)
			return
		}
	}
	switch c := vc.(type) {
	case *SplitController:
		state := "expanded"
		if c.collapsed {
			state = "collapsed"
		}
		w.add(depth, c.kind, "split %s", state)
		w.controller(c.primary, depth+1)
		if !c.collapsed {
			w.controller(c.secondary, depth+1)
		}
	case *NavigationController:
		w.add(depth, c.kind, "navigation %d", len(c.stack))
		if w.visibleOnly {
			if top := c.Top(); top != nil {
				w.controller(top, depth+1)
			}
			break
		}
		for _, child := range c.stack {
			w.controller(child, depth+1)
		}
	case *TableController:
		w.navItem(&c.navItem, depth)
		w.widget(c.table, depth)
	case *ViewController:
		w.navItem(&c.navItem, depth)
		w.widget(c.view, depth)
	default:
		w.add(depth, vc.Kind(), "%s", vc.Kind())
	}
	if !w.visibleOnly {
		if p := vc.Presented(); p != nil {
			w.add(depth, 0, "modal:")
			w.controller(p, depth+1)
		}
	}
}

func (w *walker) navItem(item *native.NavigationItem, depth int) {
	if item.Title == "" && item.LeftButton == nil && len(item.RightButtons) == 0 {
		return
	}
	var parts []string
	if item.LeftButton != nil {
		parts = append(parts, "["+item.LeftButton.Title()+"]")
	}
	parts = append(parts, item.Title)
	for _, b := range item.RightButtons {
		parts = append(parts, "["+b.Title()+"]")
	}
	w.lines = append(w.lines, line{depth: depth, text: strings.Join(parts, " "), title: true})
}

func (w *walker) widget(v native.Widget, depth int) {
	switch n := v.(type) {
	case nil:
		w.add(depth, 0, "(empty)")
	case *Label:
		w.add(depth, n.kind, "%s", n.text)
	case *Button:
		w.add(depth, n.kind, "[%s]", n.title)
	case *ImageView:
		w.add(depth, n.kind, "<image %d bytes>", len(n.data))
	case *ActivityIndicator:
		if n.animating {
			w.add(depth, n.kind, "(loading...)")
		} else {
			w.add(depth, n.kind, "(idle)")
		}
	case *Slider:
		w.add(depth, n.kind, "slider %.2f/%.2f", n.value, n.max)
	case *TextField:
		w.add(depth, n.kind, "field %q", n.text)
	case *Table:
		w.add(depth, n.kind, "table %d", len(n.rows))
		for _, row := range n.rows {
			mark := ""
			switch row.Accessory {
			case native.AccessoryCheckmark:
				mark = " ✓"
			case native.AccessoryDisclosure:
				mark = " >"
			}
			w.add(depth+1, n.kind, "- %s%s", row.Text, mark)
		}
	case *Stack:
		axis := "vertical"
		if n.axis == native.AxisHorizontal {
			axis = "horizontal"
		}
		w.add(depth, n.kind, "stack %s", axis)
		for _, child := range n.children {
			w.widget(child, depth+1)
		}
	default:
		w.add(depth, v.Kind(), "%s", v.Kind())
	}
}

// Dump returns the whole native tree under root as indented plain text,
// including hidden navigation levels and presented modals.
func Dump(root native.ViewController) string {
	w := &walker{}
	w.controller(root, 0)
	return join(w.lines, func(l line) string { return l.text })
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	buttonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	rowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

// Render returns only what a user would see: the topmost modal, the top of
// each navigation stack and both panes of an expanded split. Output is
// styled with lipgloss for printing to a terminal.
func Render(root native.ViewController) string {
	w := &walker{visibleOnly: true}
	w.controller(root, 0)
	return join(w.lines, func(l line) string {
		switch {
		case l.title:
			return titleStyle.Render(l.text)
		case l.kind == native.KindButton:
			return buttonStyle.Render(l.text)
		case l.kind == native.KindTable:
			return rowStyle.Render(l.text)
		case l.kind == native.KindStack, l.kind == native.KindNavigationController, l.kind == native.KindSplitController:
			return mutedStyle.Render(l.text)
		default:
			return l.text
		}
	})
}

// Lines returns the visible tree as unstyled, indented lines.
func Lines(root native.ViewController) []string {
	w := &walker{visibleOnly: true}
	w.controller(root, 0)
	out := make([]string, 0, len(w.lines))
	for _, l := range w.lines {
		out = append(out, strings.Repeat("  ", l.depth)+l.text)
	}
	return out
}

func join(lines []line, format func(line) string) string {
	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.Repeat("  ", l.depth))
		sb.WriteString(format(l))
	}
	return sb.String()
}
