package native

import "sync/atomic"

// Releaser is implemented by every callback object the reconciler hands to
// native widgets. Releasing it detaches it from the dispatch function.
type Releaser interface {
	Release()
}

// Action is the callback object a widget invokes when the user interacts
// with it. Widgets only point at actions; the retained-handles set of the
// render that created the action owns it. Once released, Perform is a no-op,
// so a widget still holding a stale action cannot reach the dispatcher.
type Action struct {
	fn       func()
	released atomic.Bool
}

// NewAction wraps fn in an Action.
func NewAction(fn func()) *Action {
	return &Action{fn: fn}
}

// Perform runs the action unless it has been released. It is nil-safe so
// widgets can call it without checking for a bound action.
func (a *Action) Perform() {
	if a == nil || a.fn == nil || a.released.Load() {
		return
	}
	a.fn()
}

// Release detaches the action. Safe to call more than once.
func (a *Action) Release() {
	if a == nil {
		return
	}
	a.released.Store(true)
}

// Released reports whether Release has been called.
func (a *Action) Released() bool {
	return a == nil || a.released.Load()
}
