// Package sim provides an in-memory native toolkit for tests and for the
// terminal host. Every widget records enough state to assert on what the
// reconciler did and exposes the user interactions a real toolkit would
// deliver through its event system.
package sim

import (
	"github.com/google/uuid"

	"github.com/odvcencio/virtualviews/pkg/native"
)

type base struct {
	id   string
	kind native.Kind
}

func newBase(kind native.Kind) base {
	return base{id: uuid.NewString(), kind: kind}
}

// Kind returns the widget kind.
func (b *base) Kind() native.Kind { return b.kind }

// ID returns the widget's stable identity.
func (b *base) ID() string { return b.id }

// Label is a simulated label.
type Label struct {
	base
	text       string
	background native.Color
}

func (l *Label) Text() string { return l.text }
func (l *Label) SetText(text string) { l.text = text }
func (l *Label) SetBackground(c native.Color) { l.background = c }
func (l *Label) Background() native.Color { return l.background }

// Button is a simulated button.
type Button struct {
	base
	title      string
	background native.Color
	onTap      *native.Action
	rebinds    int
}

func (b *Button) Title() string { return b.title }
func (b *Button) SetTitle(title string) { b.title = title }
func (b *Button) SetBackground(c native.Color) { b.background = c }
func (b *Button) Background() native.Color { return b.background }
func (b *Button) OnTap() *native.Action { return b.onTap }
func (b *Button) SetOnTap(a *native.Action) { b.onTap = a; b.rebinds++ }

// Rebinds counts how many times the tap action was replaced.
func (b *Button) Rebinds() int { return b.rebinds }

// Tap simulates a user tap.
func (b *Button) Tap() { b.onTap.Perform() }

// ImageView is a simulated image view.
type ImageView struct {
	base
	data []byte
}

func (i *ImageView) Image() []byte { return i.data }
func (i *ImageView) SetImage(data []byte) { i.data = data }

// ActivityIndicator is a simulated spinner.
type ActivityIndicator struct {
	base
	animating bool
}

func (a *ActivityIndicator) Animating() bool { return a.animating }
func (a *ActivityIndicator) SetAnimating(on bool) { a.animating = on }

// Slider is a simulated slider.
type Slider struct {
	base
	value      float64
	min, max   float64
	background native.Color
	onChange   *native.Action
}

func (s *Slider) Value() float64 { return s.value }
func (s *Slider) SetValue(v float64) { s.value = clamp(v, s.min, s.max) }
func (s *Slider) SetRange(min, max float64) { s.min, s.max = min, max }
func (s *Slider) Range() (float64, float64) { return s.min, s.max }
func (s *Slider) SetBackground(c native.Color) { s.background = c }
func (s *Slider) SetOnChange(a *native.Action) { s.onChange = a }

// Drag simulates the user moving the thumb to v.
func (s *Slider) Drag(v float64) {
	s.value = clamp(v, s.min, s.max)
	s.onChange.Perform()
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return v
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TextField is a simulated text field.
type TextField struct {
	base
	text     string
	focused  bool
	onChange *native.Action
}

func (f *TextField) Text() string { return f.text }
func (f *TextField) SetText(text string) { f.text = text }
func (f *TextField) SetOnChange(a *native.Action) { f.onChange = a }
func (f *TextField) Focused() bool { return f.focused }

// Type simulates the user editing the field to text.
func (f *TextField) Type(text string) {
	f.focused = true
	f.text = text
	f.onChange.Perform()
}

// Return simulates the return key; the field resigns focus.
func (f *TextField) Return() { f.focused = false }

// Table is a simulated table.
type Table struct {
	base
	source  native.TableSource
	rows    []native.TableRow
	reloads int
}

func (t *Table) Source() native.TableSource { return t.source }
func (t *Table) SetSource(src native.TableSource) { t.source = src }

// Reload snapshots the rows from the current source.
func (t *Table) Reload() {
	t.reloads++
	t.rows = t.rows[:0]
	if t.source == nil {
		return
	}
	for i := 0; i < t.source.Rows(); i++ {
		t.rows = append(t.rows, t.source.Row(i))
	}
}

// Rows returns the rows captured by the last reload.
func (t *Table) Rows() []native.TableRow { return t.rows }

// Reloads counts reloads.
func (t *Table) Reloads() int { return t.reloads }

// Select simulates tapping row i.
func (t *Table) Select(i int) { t.source.Select(i) }

// Delete simulates swipe-to-delete on row i.
func (t *Table) Delete(i int) { t.source.Delete(i) }

// Stack is a simulated stack view.
type Stack struct {
	base
	children     []native.Widget
	axis         native.Axis
	distribution native.Distribution
	background   native.Color
	replaced     int
}

func (s *Stack) Children() []native.Widget { return s.children }
func (s *Stack) Append(w native.Widget) { s.children = append(s.children, w) }

// Replace swaps the child at i, keeping sibling order.
func (s *Stack) Replace(i int, w native.Widget) {
	s.children[i] = w
	s.replaced++
}

func (s *Stack) SetAxis(a native.Axis) { s.axis = a }
func (s *Stack) Axis() native.Axis { return s.axis }
func (s *Stack) SetDistribution(d native.Distribution) { s.distribution = d }
func (s *Stack) Distribution() native.Distribution { return s.distribution }
func (s *Stack) SetBackground(c native.Color) { s.background = c }
func (s *Stack) Background() native.Color { return s.background }

// Replaced counts child replacements.
func (s *Stack) Replaced() int { return s.replaced }

var (
	_ native.Label             = (*Label)(nil)
	_ native.Button            = (*Button)(nil)
	_ native.ImageView         = (*ImageView)(nil)
	_ native.ActivityIndicator = (*ActivityIndicator)(nil)
	_ native.Slider            = (*Slider)(nil)
	_ native.TextField         = (*TextField)(nil)
	_ native.Table             = (*Table)(nil)
	_ native.Stack             = (*Stack)(nil)
)
