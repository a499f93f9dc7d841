// Package view defines the leaf level of the virtual tree: immutable values
// describing widgets, generic over the application's message type.
package view

import "github.com/odvcencio/virtualviews/pkg/native"

// View is a declarative widget description. The set of variants is closed.
type View[M comparable] interface {
	isView(*M)
}

// Label shows read-only text.
type Label[M comparable] struct {
	Text string
}

func (Label[M]) isView(*M) {}

// Image shows encoded image bytes.
type Image[M comparable] struct {
	Data []byte
}

func (Image[M]) isView(*M) {}

// Button shows a title and dispatches OnTap when tapped. A nil OnTap
// renders an inert button.
type Button[M comparable] struct {
	Text  string
	OnTap *M
}

func (Button[M]) isView(*M) {}

// TextField is an editable line of text.
type TextField[M comparable] struct {
	Text     string
	OnChange func(text string) M
}

func (TextField[M]) isView(*M) {}

// Slider picks a value in [0, Max].
type Slider[M comparable] struct {
	Progress float64
	Max      float64
	OnChange func(value float64) M
}

func (Slider[M]) isView(*M) {}

// ActivityIndicator is a busy spinner.
type ActivityIndicator[M comparable] struct {
	Animating bool
}

func (ActivityIndicator[M]) isView(*M) {}

// Stack lays out children along an axis.
type Stack[M comparable] struct {
	Children     []View[M]
	Axis         native.Axis
	Distribution native.Distribution
	Background   native.Color
}

func (Stack[M]) isView(*M) {}

// Table is a list of rows.
type Table[M comparable] struct {
	Cells []TableCell[M]
}

func (Table[M]) isView(*M) {}

// TableCell is one row of a Table.
type TableCell[M comparable] struct {
	Text      string
	OnSelect  *M
	OnDelete  *M
	Accessory native.Accessory
}

// Msg returns a pointer to m, for optional message fields.
func Msg[M comparable](m M) *M {
	return &m
}

// Kind returns the native kind a view renders to.
func Kind[M comparable](v View[M]) native.Kind {
	switch v.(type) {
	case Label[M]:
		return native.KindLabel
	case Image[M]:
		return native.KindImage
	case Button[M]:
		return native.KindButton
	case TextField[M]:
		return native.KindTextField
	case Slider[M]:
		return native.KindSlider
	case ActivityIndicator[M]:
		return native.KindActivityIndicator
	case Stack[M]:
		return native.KindStack
	case Table[M]:
		return native.KindTable
	default:
		panic(unknown(v))
	}
}
