package reconcile

import "github.com/odvcencio/virtualviews/pkg/native"

// Retained owns every callback object created by one render. Widgets only
// point at those objects; releasing the set detaches them all.
type Retained struct {
	handles []native.Releaser
}

// Add takes ownership of h.
func (r *Retained) Add(h native.Releaser) {
	r.handles = append(r.handles, h)
}

// Len returns the number of owned handles.
func (r *Retained) Len() int {
	if r == nil {
		return 0
	}
	return len(r.handles)
}

// Release releases every handle. A nil set is a no-op.
func (r *Retained) Release() {
	if r == nil {
		return
	}
	for _, h := range r.handles {
		h.Release()
	}
	r.handles = nil
}
