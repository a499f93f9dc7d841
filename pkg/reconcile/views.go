package reconcile

import (
	"github.com/odvcencio/virtualviews/pkg/native"
	"github.com/odvcencio/virtualviews/pkg/view"
)

func (r *Renderer[M]) widget(v view.View[M], existing native.Widget) native.Widget {
	switch v := v.(type) {
	case view.Label[M]:
		l, ok := reuse[native.Label](existing, native.KindLabel)
		if ok {
			r.reused()
		} else {
			l = r.tk.NewLabel()
			r.created()
		}
		l.SetText(v.Text)
		l.SetBackground(native.ColorWhite)
		return l

	case view.Button[M]:
		b, ok := reuse[native.Button](existing, native.KindButton)
		if ok {
			r.reused()
		} else {
			b = r.tk.NewButton()
			r.created()
		}
		b.SetTitle(v.Text)
		b.SetBackground(native.ColorLightGray)
		if v.OnTap != nil {
			b.SetOnTap(r.action(*v.OnTap))
		} else {
			b.SetOnTap(nil)
		}
		return b

	case view.Image[M]:
		img, ok := reuse[native.ImageView](existing, native.KindImage)
		if ok {
			r.reused()
		} else {
			img = r.tk.NewImageView()
			r.created()
		}
		img.SetImage(v.Data)
		return img

	case view.ActivityIndicator[M]:
		ai, ok := reuse[native.ActivityIndicator](existing, native.KindActivityIndicator)
		if ok {
			r.reused()
		} else {
			ai = r.tk.NewActivityIndicator()
			r.created()
		}
		ai.SetAnimating(v.Animating)
		return ai

	case view.Slider[M]:
		s, ok := reuse[native.Slider](existing, native.KindSlider)
		if ok {
			r.reused()
		} else {
			s = r.tk.NewSlider()
			r.created()
		}
		s.SetRange(0, v.Max)
		s.SetValue(v.Progress)
		s.SetBackground(native.ColorWhite)
		if change := v.OnChange; change != nil {
			s.SetOnChange(r.bind(func() { r.dispatch(change(s.Value())) }))
		} else {
			s.SetOnChange(nil)
		}
		return s

	case view.TextField[M]:
		f, ok := reuse[native.TextField](existing, native.KindTextField)
		if ok {
			r.reused()
		} else {
			f = r.tk.NewTextField()
			r.created()
		}
		f.SetText(v.Text)
		if change := v.OnChange; change != nil {
			f.SetOnChange(r.bind(func() { r.dispatch(change(f.Text())) }))
		} else {
			f.SetOnChange(nil)
		}
		return f

	case view.Stack[M]:
		return r.stack(v, existing)

	case view.Table[M]:
		t, ok := reuse[native.Table](existing, native.KindTable)
		if ok {
			r.reused()
		} else {
			t = r.tk.NewTable()
			r.created()
		}
		r.table(v, t)
		return t

	default:
		panic(unknown(v))
	}
}

// stack reuses an existing stack only when the child count is unchanged and
// then diffs children by position. Any other change rebuilds the stack.
func (r *Renderer[M]) stack(v view.Stack[M], existing native.Widget) native.Widget {
	s, ok := reuse[native.Stack](existing, native.KindStack)
	if ok && len(s.Children()) == len(v.Children) {
		r.reused()
		children := s.Children()
		for i, child := range v.Children {
			old := children[i]
			if w := r.widget(child, old); w != old {
				s.Replace(i, w)
				r.stats.Replaced++
			}
		}
	} else {
		s = r.tk.NewStack()
		r.created()
		for _, child := range v.Children {
			s.Append(r.widget(child, nil))
		}
	}
	s.SetAxis(v.Axis)
	s.SetDistribution(v.Distribution)
	s.SetBackground(v.Background)
	return s
}

// table installs a fresh source for the new cells and reloads every row.
func (r *Renderer[M]) table(v view.Table[M], t native.Table) {
	src := &tableSource[M]{cells: v.Cells, dispatch: r.dispatch}
	r.retained.Add(src)
	t.SetSource(src)
	t.Reload()
}
