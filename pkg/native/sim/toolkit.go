package sim

import (
	"github.com/odvcencio/virtualviews/pkg/native"
)

// Toolkit constructs simulated widgets and records how many of each kind it
// has built, which lets tests tell reuse from recreation.
type Toolkit struct {
	created map[native.Kind]int
	dialogs Dialogs
}

// New creates an empty toolkit.
func New() *Toolkit {
	return &Toolkit{created: make(map[native.Kind]int)}
}

// Created returns how many widgets of kind were constructed.
func (t *Toolkit) Created(kind native.Kind) int { return t.created[kind] }

// TotalCreated returns the number of widgets constructed of any kind.
func (t *Toolkit) TotalCreated() int {
	total := 0
	for _, n := range t.created {
		total += n
	}
	return total
}

// Dialogs returns the toolkit's dialog presenter.
func (t *Toolkit) Dialogs() *Dialogs { return &t.dialogs }

func (t *Toolkit) track(kind native.Kind) base {
	t.created[kind]++
	return newBase(kind)
}

func (t *Toolkit) NewLabel() native.Label {
	return &Label{base: t.track(native.KindLabel)}
}

func (t *Toolkit) NewButton() native.Button {
	return &Button{base: t.track(native.KindButton)}
}

func (t *Toolkit) NewImageView() native.ImageView {
	return &ImageView{base: t.track(native.KindImage)}
}

func (t *Toolkit) NewActivityIndicator() native.ActivityIndicator {
	return &ActivityIndicator{base: t.track(native.KindActivityIndicator)}
}

func (t *Toolkit) NewSlider() native.Slider {
	return &Slider{base: t.track(native.KindSlider), max: 1}
}

func (t *Toolkit) NewTextField() native.TextField {
	return &TextField{base: t.track(native.KindTextField)}
}

func (t *Toolkit) NewTable() native.Table {
	return &Table{base: t.track(native.KindTable)}
}

func (t *Toolkit) NewStack() native.Stack {
	return &Stack{base: t.track(native.KindStack)}
}

func (t *Toolkit) NewViewController() native.ViewController {
	t.created[native.KindViewController]++
	vc := newViewController(native.KindViewController)
	return &vc
}

func (t *Toolkit) NewTableController() native.TableController {
	t.created[native.KindTableController]++
	table := &Table{base: newBase(native.KindTable)}
	tc := &TableController{
		ViewController: newViewController(native.KindTableController),
		table:          table,
	}
	tc.view = table
	return tc
}

func (t *Toolkit) NewNavigationController() native.NavigationController {
	t.created[native.KindNavigationController]++
	return &NavigationController{ViewController: newViewController(native.KindNavigationController)}
}

func (t *Toolkit) NewSplitController() native.SplitController {
	t.created[native.KindSplitController]++
	sc := &SplitController{
		ViewController: newViewController(native.KindSplitController),
		primary:        &NavigationController{ViewController: newViewController(native.KindNavigationController)},
	}
	sc.toggle = &BarButton{title: "Sidebar"}
	sc.toggle.action = native.NewAction(func() { sc.primaryHidden = !sc.primaryHidden })
	return sc
}

func (t *Toolkit) NewBarButton(title string, a *native.Action) native.BarButtonItem {
	return &BarButton{title: title, action: a}
}

func (t *Toolkit) NewSystemBarButton(item native.SystemItem, a *native.Action) native.BarButtonItem {
	return &BarButton{title: item.Title(), system: item, action: a}
}

var _ native.Toolkit = (*Toolkit)(nil)
