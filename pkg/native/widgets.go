package native

// Widget is any native view object.
type Widget interface {
	Kind() Kind
}

// Label displays read-only text.
type Label interface {
	Widget
	Text() string
	SetText(text string)
	SetBackground(c Color)
}

// Button displays a title and performs its action on tap.
type Button interface {
	Widget
	Title() string
	SetTitle(title string)
	SetBackground(c Color)
	// SetOnTap replaces the tap action; nil removes it.
	SetOnTap(a *Action)
}

// ImageView displays encoded image bytes.
type ImageView interface {
	Widget
	Image() []byte
	SetImage(data []byte)
}

// ActivityIndicator is an indeterminate progress spinner.
type ActivityIndicator interface {
	Widget
	Animating() bool
	SetAnimating(on bool)
}

// Slider selects a value in [Min, Max].
type Slider interface {
	Widget
	Value() float64
	SetValue(v float64)
	SetRange(min, max float64)
	SetBackground(c Color)
	SetOnChange(a *Action)
}

// TextField is a single line editable text input.
type TextField interface {
	Widget
	Text() string
	SetText(text string)
	SetOnChange(a *Action)
}

// TableRow is what a table data source reports for one row.
type TableRow struct {
	Text      string
	Accessory Accessory
	Deletable bool
}

// TableSource is the data-source/delegate adapter a table reads its rows
// from and reports selection and deletion to.
type TableSource interface {
	Rows() int
	Row(i int) TableRow
	Select(i int)
	Delete(i int)
}

// Table is a scrolling list of rows backed by a TableSource.
type Table interface {
	Widget
	Source() TableSource
	SetSource(src TableSource)
	// Reload discards all cached rows and asks the source again.
	Reload()
}

// Stack lays out an ordered list of children along an axis.
type Stack interface {
	Widget
	Children() []Widget
	Append(w Widget)
	Replace(i int, w Widget)
	SetAxis(a Axis)
	SetDistribution(d Distribution)
	SetBackground(c Color)
}
