package reconcile

import (
	"sync/atomic"

	"github.com/odvcencio/virtualviews/pkg/native"
	"github.com/odvcencio/virtualviews/pkg/view"
)

// tableSource backs a native table with the cells of one render. A stale
// row index is a caller bug and panics.
type tableSource[M comparable] struct {
	cells    []view.TableCell[M]
	dispatch func(M)
	released atomic.Bool
}

func (s *tableSource[M]) Rows() int { return len(s.cells) }

func (s *tableSource[M]) Row(i int) native.TableRow {
	c := s.cells[i]
	return native.TableRow{Text: c.Text, Accessory: c.Accessory, Deletable: c.OnDelete != nil}
}

func (s *tableSource[M]) Select(i int) {
	if s.released.Load() {
		return
	}
	if m := s.cells[i].OnSelect; m != nil {
		s.dispatch(*m)
	}
}

func (s *tableSource[M]) Delete(i int) {
	if s.released.Load() {
		return
	}
	if m := s.cells[i].OnDelete; m != nil {
		s.dispatch(*m)
	}
}

func (s *tableSource[M]) Release() { s.released.Store(true) }
