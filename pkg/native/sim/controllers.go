package sim

import (
	"fmt"

	"github.com/odvcencio/virtualviews/pkg/native"
)

// BarButton is a simulated bar button item.
type BarButton struct {
	title  string
	system native.SystemItem
	action *native.Action
}

func (b *BarButton) Title() string { return b.title }
func (b *BarButton) System() native.SystemItem { return b.system }
func (b *BarButton) Action() *native.Action { return b.action }

// Tap simulates the user tapping the item.
func (b *BarButton) Tap() { b.action.Perform() }

// ViewController is a simulated plain view controller.
type ViewController struct {
	base
	view      native.Widget
	navItem   native.NavigationItem
	presented native.ViewController
	style     native.PresentationStyle
	edit      *BarButton
	editing   bool
}

func newViewController(kind native.Kind) ViewController {
	return ViewController{base: newBase(kind)}
}

func (vc *ViewController) View() native.Widget { return vc.view }
func (vc *ViewController) SetView(w native.Widget) { vc.view = w }
func (vc *ViewController) NavigationItem() *native.NavigationItem { return &vc.navItem }
func (vc *ViewController) Presented() native.ViewController { return vc.presented }
func (vc *ViewController) PresentationStyle() native.PresentationStyle { return vc.style }

// Editing reports whether the edit button has toggled editing on.
func (vc *ViewController) Editing() bool { return vc.editing }

// EditButton returns the controller's edit toggle, creating it on first use.
func (vc *ViewController) EditButton() native.BarButtonItem {
	if vc.edit == nil {
		vc.edit = &BarButton{title: "Edit", system: native.SystemEdit}
		vc.edit.action = native.NewAction(func() {
			vc.editing = !vc.editing
			if vc.editing {
				vc.edit.title = "Done"
			} else {
				vc.edit.title = "Edit"
			}
		})
	}
	return vc.edit
}

// Present shows child modally. Presenting over an existing modal is a
// programming error, as it is in real toolkits.
func (vc *ViewController) Present(child native.ViewController, style native.PresentationStyle) {
	if vc.presented != nil {
		panic(fmt.Sprintf("sim: %s already presenting", vc.kind))
	}
	if setter, ok := child.(interface {
		setPresentationStyle(native.PresentationStyle)
	}); ok {
		setter.setPresentationStyle(style)
	}
	vc.presented = child
}

// Dismiss removes the presented modal, if any.
func (vc *ViewController) Dismiss() { vc.presented = nil }

func (vc *ViewController) setPresentationStyle(style native.PresentationStyle) { vc.style = style }

// TableController is a simulated table view controller.
type TableController struct {
	ViewController
	table *Table
}

// Table returns the controller's table view.
func (tc *TableController) Table() native.Table { return tc.table }

// NavigationController is a simulated navigation controller.
type NavigationController struct {
	ViewController
	stack      []native.ViewController
	backAction *native.Action
	pushes     int
	pops       int
	replaces   int
	userPops   int
}

func (nc *NavigationController) Stack() []native.ViewController {
	return append([]native.ViewController(nil), nc.stack...)
}

func (nc *NavigationController) Push(vc native.ViewController) {
	nc.stack = append(nc.stack, vc)
	nc.pushes++
}

// PopTo truncates the stack to n controllers, counting each removal.
func (nc *NavigationController) PopTo(n int) {
	if n < 0 {
		n = 0
	}
	if n >= len(nc.stack) {
		return
	}
	nc.pops += len(nc.stack) - n
	for i := n; i < len(nc.stack); i++ {
		nc.stack[i] = nil
	}
	nc.stack = nc.stack[:n]
}

func (nc *NavigationController) Replace(i int, vc native.ViewController) {
	nc.stack[i] = vc
	nc.replaces++
}

func (nc *NavigationController) SetBackAction(a *native.Action) { nc.backAction = a }

// BackAction returns the installed back action.
func (nc *NavigationController) BackAction() *native.Action { return nc.backAction }

// Top returns the visible controller, or nil for an empty stack.
func (nc *NavigationController) Top() native.ViewController {
	if len(nc.stack) == 0 {
		return nil
	}
	return nc.stack[len(nc.stack)-1]
}

// UserBack simulates the system back button: the top controller is popped
// natively, then the back action is notified. It reports whether a pop
// happened.
func (nc *NavigationController) UserBack() bool {
	if len(nc.stack) < 2 {
		return false
	}
	nc.stack[len(nc.stack)-1] = nil
	nc.stack = nc.stack[:len(nc.stack)-1]
	nc.userPops++
	nc.backAction.Perform()
	return true
}

// Pushes counts programmatic pushes.
func (nc *NavigationController) Pushes() int { return nc.pushes }

// Pops counts controllers removed by PopTo.
func (nc *NavigationController) Pops() int { return nc.pops }

// Replaces counts in-place controller swaps.
func (nc *NavigationController) Replaces() int { return nc.replaces }

// UserPops counts pops made through UserBack.
func (nc *NavigationController) UserPops() int { return nc.userPops }

// ResetCounters zeroes the push, pop and replace counters.
func (nc *NavigationController) ResetCounters() {
	nc.pushes, nc.pops, nc.replaces, nc.userPops = 0, 0, 0, 0
}

// SplitController is a simulated split view controller.
type SplitController struct {
	ViewController
	primary           *NavigationController
	secondary         native.ViewController
	collapsed         bool
	collapseSecondary bool
	primaryHidden     bool
	toggle            *BarButton
}

func (sc *SplitController) Primary() native.NavigationController { return sc.primary }
func (sc *SplitController) Secondary() native.ViewController { return sc.secondary }
func (sc *SplitController) SetSecondary(vc native.ViewController) { sc.secondary = vc }
func (sc *SplitController) Collapsed() bool { return sc.collapsed }
func (sc *SplitController) SetCollapseSecondary(collapse bool) { sc.collapseSecondary = collapse }
func (sc *SplitController) DisplayModeButton() native.BarButtonItem { return sc.toggle }

// CollapseSecondary reports the last collapse preference set by the
// reconciler.
func (sc *SplitController) CollapseSecondary() bool { return sc.collapseSecondary }

// PrimaryHidden reports whether the display mode button hid the primary.
func (sc *SplitController) PrimaryHidden() bool { return sc.primaryHidden }

// SetCollapsed simulates a size-class change. Collapsing keeps the primary
// navigation stack as the only pane; the secondary is detached.
func (sc *SplitController) SetCollapsed(on bool) {
	sc.collapsed = on
	if on {
		sc.secondary = nil
	}
}

var (
	_ native.ViewController       = (*ViewController)(nil)
	_ native.TableController      = (*TableController)(nil)
	_ native.NavigationController = (*NavigationController)(nil)
	_ native.SplitController      = (*SplitController)(nil)
	_ native.BarButtonItem        = (*BarButton)(nil)
)
