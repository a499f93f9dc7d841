// Package native defines the widget toolkit the reconciler renders onto.
//
// The toolkit is an external collaborator: it supplies mutable widget and
// controller objects, dialogs and timers. Implementations must be used from a
// single goroutine (the driver loop); only Action.Perform may be called from
// elsewhere, and it is expected to hop onto the loop itself.
package native

// Kind is the dynamic kind of a native object. The reconciler uses it to
// decide whether an existing object can be mutated in place.
type Kind int

const (
	KindLabel Kind = iota + 1
	KindButton
	KindImage
	KindSlider
	KindTextField
	KindTable
	KindStack
	KindActivityIndicator

	KindViewController
	KindTableController
	KindNavigationController
	KindSplitController
)

var kindNames = map[Kind]string{
	KindLabel:                "label",
	KindButton:               "button",
	KindImage:                "image",
	KindSlider:               "slider",
	KindTextField:            "textfield",
	KindTable:                "table",
	KindStack:                "stack",
	KindActivityIndicator:    "activity",
	KindViewController:       "viewcontroller",
	KindTableController:      "tablecontroller",
	KindNavigationController: "navigationcontroller",
	KindSplitController:      "splitcontroller",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Color is a named or hex color understood by the toolkit.
type Color string

const (
	ColorClear     Color = ""
	ColorWhite     Color = "white"
	ColorLightGray Color = "lightgray"
)

// Axis is the layout direction of a stack.
type Axis int

const (
	AxisVertical Axis = iota
	AxisHorizontal
)

// Distribution controls how a stack spaces its children.
type Distribution int

const (
	DistributionEqualCentering Distribution = iota
	DistributionFill
	DistributionFillEqually
	DistributionEqualSpacing
)

// Accessory is the trailing decoration of a table row.
type Accessory int

const (
	AccessoryNone Accessory = iota
	AccessoryCheckmark
	AccessoryDisclosure
)

// PresentationStyle is how a modal controller is shown.
type PresentationStyle int

const (
	PresentationFullScreen PresentationStyle = iota
	PresentationPageSheet
	PresentationFormSheet
	PresentationOverCurrentContext
)

// SystemItem identifies a toolkit-provided bar button.
type SystemItem int

const (
	SystemAdd SystemItem = iota + 1
	SystemDone
	SystemCancel
	SystemEdit
	SystemRefresh
	SystemTrash
)

var systemItemTitles = map[SystemItem]string{
	SystemAdd:     "+",
	SystemDone:    "Done",
	SystemCancel:  "Cancel",
	SystemEdit:    "Edit",
	SystemRefresh: "Refresh",
	SystemTrash:   "Trash",
}

// Title is the text a text-only toolkit shows for the item.
func (s SystemItem) Title() string {
	if t, ok := systemItemTitles[s]; ok {
		return t
	}
	return "?"
}
