// Package reconcile renders controller trees onto a native toolkit.
//
// A Renderer mutates the previous native tree in place wherever the kind of
// a node is unchanged and constructs fresh objects otherwise. Every callback
// it binds is owned by the Retained set returned from the render; the caller
// installs the new set and then releases the previous one.
//
// Two simplifications are kept on purpose: a stack whose child count changed
// is rebuilt whole, and a table always reloads every row.
package reconcile

import (
	"fmt"

	"github.com/odvcencio/virtualviews/pkg/controller"
	"github.com/odvcencio/virtualviews/pkg/native"
	"github.com/odvcencio/virtualviews/pkg/view"
)

// Stats counts what the last render did.
type Stats struct {
	Created  int
	Reused   int
	Pushes   int
	Pops     int
	Replaced int
	Modals   int
}

// Renderer reconciles trees of message type M. It is not safe for
// concurrent use; the driver calls it from its loop only.
type Renderer[M comparable] struct {
	tk       native.Toolkit
	dispatch func(M)

	retained *Retained
	stats    Stats
}

// New returns a Renderer building with tk. Every interaction bound during a
// render calls dispatch.
func New[M comparable](tk native.Toolkit, dispatch func(M)) *Renderer[M] {
	return &Renderer[M]{tk: tk, dispatch: dispatch}
}

// Stats returns the counters of the most recent render.
func (r *Renderer[M]) Stats() Stats { return r.stats }

// Render reconciles c onto previous, which may be nil. It returns the root to
// display, which is previous itself when its kind matched, and the handles
// the new tree needs.
func (r *Renderer[M]) Render(c controller.Controller[M], previous native.ViewController) (native.ViewController, *Retained) {
	r.begin()
	root := r.controller(c, previous)
	return root, r.finish()
}

// RenderView reconciles a single view onto existing.
func (r *Renderer[M]) RenderView(v view.View[M], existing native.Widget) (native.Widget, *Retained) {
	r.begin()
	w := r.widget(v, existing)
	return w, r.finish()
}

func (r *Renderer[M]) begin() {
	r.retained = &Retained{}
	r.stats = Stats{}
}

func (r *Renderer[M]) finish() *Retained {
	out := r.retained
	r.retained = nil
	return out
}

// action binds m to the dispatcher through a retained Action.
func (r *Renderer[M]) action(m M) *native.Action {
	return r.bind(func() { r.dispatch(m) })
}

func (r *Renderer[M]) bind(fn func()) *native.Action {
	a := native.NewAction(fn)
	r.retained.Add(a)
	return a
}

func (r *Renderer[M]) created() { r.stats.Created++ }
func (r *Renderer[M]) reused() { r.stats.Reused++ }

// reuse returns existing as a W when its kind matches.
func reuse[W native.Widget](existing native.Widget, kind native.Kind) (W, bool) {
	var zero W
	if existing == nil || existing.Kind() != kind {
		return zero, false
	}
	w, ok := existing.(W)
	return w, ok
}

func unknown(v any) string {
	return fmt.Sprintf("reconcile: unknown variant %T", v)
}
