package native

// BarButtonItem is a button hosted in a navigation bar.
type BarButtonItem interface {
	Title() string
	// System is zero for custom text items.
	System() SystemItem
	Action() *Action
}

// NavigationItem holds the bar configuration of a view controller.
type NavigationItem struct {
	Title               string
	LeftButton          BarButtonItem
	RightButtons        []BarButtonItem
	LeftSupplementsBack bool
}

// ViewController owns a root view, a navigation item and at most one
// presented modal controller.
type ViewController interface {
	Widget
	View() Widget
	SetView(w Widget)
	NavigationItem() *NavigationItem
	// EditButton is the controller's own toggle-editing bar button.
	EditButton() BarButtonItem

	Presented() ViewController
	Present(vc ViewController, style PresentationStyle)
	Dismiss()
	PresentationStyle() PresentationStyle
}

// TableController is a view controller whose view is a Table.
type TableController interface {
	ViewController
	Table() Table
}

// NavigationController layers child controllers; index 0 is the root.
type NavigationController interface {
	ViewController
	Stack() []ViewController
	Push(vc ViewController)
	// PopTo truncates the stack to n controllers.
	PopTo(n int)
	Replace(i int, vc ViewController)
	// SetBackAction installs the action run after the user pops a
	// controller with the system back affordance. Programmatic pops never
	// run it.
	SetBackAction(a *Action)
}

// SplitController shows a primary navigation stack and a secondary
// controller side by side, or only the primary when collapsed.
type SplitController interface {
	ViewController
	Primary() NavigationController
	Secondary() ViewController
	SetSecondary(vc ViewController)
	Collapsed() bool
	// DisplayModeButton toggles the primary pane.
	DisplayModeButton() BarButtonItem
	SetCollapseSecondary(collapse bool)
}

// Toolkit constructs native objects.
type Toolkit interface {
	NewLabel() Label
	NewButton() Button
	NewImageView() ImageView
	NewActivityIndicator() ActivityIndicator
	NewSlider() Slider
	NewTextField() TextField
	NewTable() Table
	NewStack() Stack

	NewViewController() ViewController
	NewTableController() TableController
	NewNavigationController() NavigationController
	NewSplitController() SplitController

	NewBarButton(title string, a *Action) BarButtonItem
	NewSystemBarButton(item SystemItem, a *Action) BarButtonItem
}

// Prompt describes a modal text-entry dialog.
type Prompt struct {
	Title       string
	Accept      string
	Cancel      string
	Placeholder string
}

// Dialogs presents modal alerts anchored at a view controller.
type Dialogs interface {
	// Alert shows a message with a single acknowledgement button.
	Alert(on ViewController, title, accept string)
	// TextPrompt asks for a line of text. done receives ok=false on cancel
	// and the entered text (possibly empty) with ok=true on confirm.
	TextPrompt(on ViewController, p Prompt, done func(text string, ok bool))
}

// Topmost follows the presented-modal chain from root and returns the
// controller currently displayed on top.
func Topmost(root ViewController) ViewController {
	if root == nil {
		return nil
	}
	vc := root
	for {
		next := vc.Presented()
		if next == nil {
			return vc
		}
		vc = next
	}
}
