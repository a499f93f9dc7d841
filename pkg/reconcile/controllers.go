package reconcile

import (
	"github.com/odvcencio/virtualviews/pkg/controller"
	"github.com/odvcencio/virtualviews/pkg/native"
)

func (r *Renderer[M]) controller(c controller.Controller[M], existing native.ViewController) native.ViewController {
	var modal *controller.Modal[M]
	for {
		p, ok := c.(controller.Presenting[M])
		if !ok {
			break
		}
		if modal == nil {
			m := p.Modal
			modal = &m
		}
		c = p.Base
	}

	vc := r.base(c, existing)
	r.modal(vc, modal)
	return vc
}

func (r *Renderer[M]) base(c controller.Controller[M], existing native.ViewController) native.ViewController {
	switch c := c.(type) {
	case nil:
		vc := r.viewController(existing)
		if vc.View() != nil {
			vc.SetView(nil)
		}
		return vc

	case controller.Screen[M]:
		vc := r.viewController(existing)
		old := vc.View()
		if w := r.widget(c.View, old); w != old {
			vc.SetView(w)
		}
		return vc

	case controller.TableScreen[M]:
		tc, ok := reuse[native.TableController](existing, native.KindTableController)
		if ok {
			r.reused()
		} else {
			tc = r.tk.NewTableController()
			r.created()
		}
		r.table(c.Table, tc.Table())
		return tc

	case controller.NavigationStack[M]:
		nc, ok := reuse[native.NavigationController](existing, native.KindNavigationController)
		if ok {
			r.reused()
		} else {
			nc = r.tk.NewNavigationController()
			r.created()
		}
		r.navigation(c, nc)
		return nc

	case controller.SplitView[M]:
		sc, ok := reuse[native.SplitController](existing, native.KindSplitController)
		if ok {
			r.reused()
		} else {
			sc = r.tk.NewSplitController()
			r.created()
		}
		r.split(c, sc)
		return sc

	default:
		panic(unknown(c))
	}
}

func (r *Renderer[M]) viewController(existing native.ViewController) native.ViewController {
	if vc, ok := reuse[native.ViewController](existing, native.KindViewController); ok {
		r.reused()
		return vc
	}
	r.created()
	return r.tk.NewViewController()
}

// modal presents, updates or dismisses the single modal of vc.
func (r *Renderer[M]) modal(vc native.ViewController, m *controller.Modal[M]) {
	presented := vc.Presented()
	if m == nil {
		if presented != nil {
			vc.Dismiss()
		}
		return
	}
	if presented != nil {
		updated := r.controller(m.Controller, presented)
		if updated == presented && presented.PresentationStyle() == m.Style {
			return
		}
		vc.Dismiss()
		vc.Present(updated, m.Style)
		r.stats.Modals++
		return
	}
	vc.Present(r.controller(m.Controller, nil), m.Style)
	r.stats.Modals++
}

// navigation layers s onto nc: pop the surplus, update the shared prefix in
// place, then push the new tail. The back action is detached while the stack
// changes, so pops made here never reach OnPop.
func (r *Renderer[M]) navigation(s controller.NavigationStack[M], nc native.NavigationController) {
	nc.SetBackAction(nil)
	current := nc.Stack()
	have, want := len(current), len(s.Items)

	if want < have {
		nc.PopTo(want)
		r.stats.Pops += have - want
	}
	for i := 0; i < min(have, want); i++ {
		old := current[i]
		if vc := r.item(s.Items[i], old); vc != old {
			nc.Replace(i, vc)
			r.stats.Replaced++
		}
	}
	for i := have; i < want; i++ {
		nc.Push(r.item(s.Items[i], nil))
		r.stats.Pushes++
	}

	if s.OnPop == nil {
		return
	}
	msg, depth := *s.OnPop, want
	// Only a stack shorter than the one just rendered is a user pop.
	nc.SetBackAction(r.bind(func() {
		if len(nc.Stack()) < depth {
			r.dispatch(msg)
		}
	}))
}

func (r *Renderer[M]) item(item controller.NavigationItem[M], existing native.ViewController) native.ViewController {
	vc := r.controller(item.Controller, existing)
	ni := vc.NavigationItem()
	ni.Title = item.Title
	ni.LeftSupplementsBack = item.LeftSupplementsBack
	ni.LeftButton = r.barButton(item.LeftButton, vc)
	ni.RightButtons = nil
	for _, b := range item.RightButtons {
		ni.RightButtons = append(ni.RightButtons, r.barButton(b, vc))
	}
	return vc
}

func (r *Renderer[M]) barButton(b controller.BarButton[M], owner native.ViewController) native.BarButtonItem {
	switch b := b.(type) {
	case nil:
		return nil
	case controller.NativeBarButton[M]:
		return b.Item
	case controller.SystemBarButton[M]:
		return r.tk.NewSystemBarButton(b.Item, r.action(b.Action))
	case controller.TextBarButton[M]:
		return r.tk.NewBarButton(b.Text, r.action(b.Action))
	case controller.EditBarButton[M]:
		return owner.EditButton()
	default:
		panic(unknown(b))
	}
}

// split renders both panes when expanded. Collapsed, the secondary items
// follow the primary ones on the single stack and a user pop dispatches
// OnPopDetail, unless CollapseSecondary drops the secondary pane.
func (r *Renderer[M]) split(s controller.SplitView[M], sc native.SplitController) {
	toggle := sc.DisplayModeButton()
	sc.SetCollapseSecondary(s.CollapseSecondary)
	primary := build(s.Primary, toggle)

	if sc.Collapsed() {
		if !s.CollapseSecondary {
			secondary := build(s.Secondary, toggle)
			items := make([]controller.NavigationItem[M], 0, len(primary.Items)+len(secondary.Items))
			items = append(items, primary.Items...)
			primary.Items = append(items, secondary.Items...)
			primary.OnPop = s.OnPopDetail
		}
		r.navigation(primary, sc.Primary())
		return
	}

	r.navigation(primary, sc.Primary())
	existing := sc.Secondary()
	if vc := r.controller(build(s.Secondary, toggle), existing); vc != existing {
		sc.SetSecondary(vc)
	}
}

func build[M comparable](f func(native.BarButtonItem) controller.NavigationStack[M], toggle native.BarButtonItem) controller.NavigationStack[M] {
	if f == nil {
		return controller.NavigationStack[M]{}
	}
	return f(toggle)
}
