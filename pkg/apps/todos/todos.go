// Package todos manages named lists of todo items. Lists persist through
// the store as one JSON document and reload whenever that document changes.
package todos

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/odvcencio/virtualviews/pkg/controller"
	"github.com/odvcencio/virtualviews/pkg/driver"
	"github.com/odvcencio/virtualviews/pkg/effect"
	"github.com/odvcencio/virtualviews/pkg/native"
	"github.com/odvcencio/virtualviews/pkg/view"
)

// NoSelection is Model.Selected when no list is open.
const NoSelection = -1

type Todo struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

type List struct {
	Title string `json:"title"`
	Items []Todo `json:"items"`
}

type Model struct {
	Lists    []List
	Selected int
	// Revision counts local edits. A loaded document older than the model
	// is a stale echo of an earlier save and is ignored.
	Revision int
	Info     bool
}

// Init is the model before the stored lists arrive.
func Init() Model {
	return Model{Selected: NoSelection}
}

func (m Model) selectedList() (List, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Lists) {
		return List{}, false
	}
	return m.Lists[m.Selected], true
}

type Kind int

const (
	Back Kind = iota + 1
	Select
	AddList
	AddItem
	CreateList
	CreateItem
	DeleteList
	DeleteItem
	ToggleDone
	Loaded
	Changed
	Saved
	ShowInfo
	HideInfo
)

// Msg is a todos message. Index addresses a list or item; Text and OK
// carry dialog and store results.
type Msg struct {
	Kind  Kind
	Index int
	Text  string
	OK    bool
}

type Options struct {
	// Key is the store document holding the lists.
	Key   string
	Split bool
}

func (o Options) key() string {
	if o.Key == "" {
		return "todos"
	}
	return o.Key
}

type document struct {
	Revision int    `json:"revision"`
	Lists    []List `json:"lists"`
}

func Update(o Options) func(Model, Msg) (Model, []effect.Command[Msg]) {
	return func(m Model, msg Msg) (Model, []effect.Command[Msg]) {
		switch msg.Kind {
		case AddList:
			return m, []effect.Command[Msg]{prompt("Add List", "The title for your new list", CreateList)}

		case AddItem:
			if _, ok := m.selectedList(); !ok {
				return m, nil
			}
			return m, []effect.Command[Msg]{prompt("Add Item", "The title for your new todo", CreateItem)}

		case CreateList:
			if !msg.OK {
				return m, nil
			}
			m.Lists = append(slices.Clone(m.Lists), List{Title: msg.Text})
			return save(o, m)

		case CreateItem:
			if !msg.OK {
				return m, nil
			}
			list, ok := m.selectedList()
			if !ok {
				return m, nil
			}
			list.Items = append(slices.Clone(list.Items), Todo{Title: msg.Text})
			m.Lists = replace(m.Lists, m.Selected, list)
			return save(o, m)

		case Select:
			m.Selected = msg.Index
			return m, nil

		case Back:
			m.Selected = NoSelection
			return m, nil

		case DeleteList:
			m.Lists = slices.Delete(slices.Clone(m.Lists), msg.Index, msg.Index+1)
			switch {
			case m.Selected == msg.Index:
				m.Selected = NoSelection
			case m.Selected > msg.Index:
				m.Selected--
			}
			return save(o, m)

		case DeleteItem:
			list, ok := m.selectedList()
			if !ok {
				return m, nil
			}
			list.Items = slices.Delete(slices.Clone(list.Items), msg.Index, msg.Index+1)
			m.Lists = replace(m.Lists, m.Selected, list)
			return save(o, m)

		case ToggleDone:
			list, ok := m.selectedList()
			if !ok {
				return m, nil
			}
			list.Items = slices.Clone(list.Items)
			list.Items[msg.Index].Done = !list.Items[msg.Index].Done
			m.Lists = replace(m.Lists, m.Selected, list)
			return save(o, m)

		case Loaded:
			if !msg.OK {
				return m, nil
			}
			var doc document
			if err := json.Unmarshal([]byte(msg.Text), &doc); err != nil {
				return m, []effect.Command[Msg]{effect.Alert[Msg]{Title: "Saved lists are unreadable", Accept: "OK"}}
			}
			if doc.Revision < m.Revision {
				return m, nil
			}
			m.Lists, m.Revision = doc.Lists, doc.Revision
			if m.Selected >= len(m.Lists) {
				m.Selected = NoSelection
			}
			return m, nil

		case Changed:
			return m, []effect.Command[Msg]{load(o)}

		case Saved:
			if msg.OK {
				return m, nil
			}
			return m, []effect.Command[Msg]{effect.Alert[Msg]{Title: "Could not save your lists", Accept: "OK"}}

		case ShowInfo:
			m.Info = true
			return m, nil

		case HideInfo:
			m.Info = false
			return m, nil

		default:
			panic(fmt.Sprintf("todos: unknown message %+v", msg))
		}
	}
}

func prompt(title, placeholder string, kind Kind) effect.Command[Msg] {
	return effect.TextPrompt[Msg]{
		Title:       title,
		Accept:      "OK",
		Cancel:      "Cancel",
		Placeholder: placeholder,
		Convert:     func(text string, ok bool) Msg { return Msg{Kind: kind, Text: text, OK: ok} },
	}
}

func replace(lists []List, i int, list List) []List {
	out := slices.Clone(lists)
	out[i] = list
	return out
}

func save(o Options, m Model) (Model, []effect.Command[Msg]) {
	m.Revision++
	data, err := json.Marshal(document{Revision: m.Revision, Lists: m.Lists})
	if err != nil {
		panic(fmt.Sprintf("todos: encode lists: %v", err))
	}
	return m, []effect.Command[Msg]{effect.Save[Msg]{
		Key:   o.key(),
		Value: data,
		Done:  func(ok bool) Msg { return Msg{Kind: Saved, OK: ok} },
	}}
}

func load(o Options) effect.Command[Msg] {
	return effect.Load[Msg]{
		Key:    o.key(),
		Loaded: func(value []byte, ok bool) Msg { return Msg{Kind: Loaded, Text: string(value), OK: ok} },
	}
}

func listsItem(m Model) controller.NavigationItem[Msg] {
	cells := make([]view.TableCell[Msg], len(m.Lists))
	for i, list := range m.Lists {
		cells[i] = view.TableCell[Msg]{
			Text:      list.Title,
			OnSelect:  view.Msg(Msg{Kind: Select, Index: i}),
			OnDelete:  view.Msg(Msg{Kind: DeleteList, Index: i}),
			Accessory: native.AccessoryDisclosure,
		}
	}
	return controller.NavigationItem[Msg]{
		Title:      "Todos",
		LeftButton: controller.EditBarButton[Msg]{},
		RightButtons: []controller.BarButton[Msg]{
			controller.SystemBarButton[Msg]{Item: native.SystemAdd, Action: Msg{Kind: AddList}},
			controller.TextBarButton[Msg]{Text: "Info", Action: Msg{Kind: ShowInfo}},
		},
		Controller: controller.TableScreen[Msg]{Table: view.Table[Msg]{Cells: cells}},
	}
}

func detailItem(list List) controller.NavigationItem[Msg] {
	cells := make([]view.TableCell[Msg], len(list.Items))
	for i, todo := range list.Items {
		accessory := native.AccessoryNone
		if todo.Done {
			accessory = native.AccessoryCheckmark
		}
		cells[i] = view.TableCell[Msg]{
			Text:      todo.Title,
			OnSelect:  view.Msg(Msg{Kind: ToggleDone, Index: i}),
			OnDelete:  view.Msg(Msg{Kind: DeleteItem, Index: i}),
			Accessory: accessory,
		}
	}
	return controller.NavigationItem[Msg]{
		Title: list.Title,
		RightButtons: []controller.BarButton[Msg]{
			controller.SystemBarButton[Msg]{Item: native.SystemAdd, Action: Msg{Kind: AddItem}},
		},
		Controller: controller.TableScreen[Msg]{Table: view.Table[Msg]{Cells: cells}},
	}
}

func infoModal(m Model) controller.Modal[Msg] {
	open := 0
	for _, list := range m.Lists {
		for _, todo := range list.Items {
			if !todo.Done {
				open++
			}
		}
	}
	return controller.Modal[Msg]{
		Style: native.PresentationPageSheet,
		Controller: controller.Screen[Msg]{View: view.Stack[Msg]{Children: []view.View[Msg]{
			view.Label[Msg]{Text: fmt.Sprintf("Lists: %d", len(m.Lists))},
			view.Label[Msg]{Text: fmt.Sprintf("Open items: %d", open)},
			view.Button[Msg]{Text: "Close", OnTap: view.Msg(Msg{Kind: HideInfo})},
		}}},
	}
}

func View(o Options) func(Model) controller.Controller[Msg] {
	return func(m Model) controller.Controller[Msg] {
		var root controller.Controller[Msg]
		if o.Split {
			root = splitView(m)
		} else {
			items := []controller.NavigationItem[Msg]{listsItem(m)}
			if list, ok := m.selectedList(); ok {
				items = append(items, detailItem(list))
			}
			root = controller.NavigationStack[Msg]{Items: items, OnPop: view.Msg(Msg{Kind: Back})}
		}
		if m.Info {
			root = controller.WithModal(root, infoModal(m))
		}
		return root
	}
}

func splitView(m Model) controller.SplitView[Msg] {
	list, selected := m.selectedList()
	return controller.SplitView[Msg]{
		Primary: func(native.BarButtonItem) controller.NavigationStack[Msg] {
			return controller.NavigationStack[Msg]{Items: []controller.NavigationItem[Msg]{listsItem(m)}}
		},
		Secondary: func(toggle native.BarButtonItem) controller.NavigationStack[Msg] {
			item := controller.NavigationItem[Msg]{
				Title:      "Todos",
				Controller: controller.Screen[Msg]{View: view.Label[Msg]{Text: "No list selected"}},
			}
			if selected {
				item = detailItem(list)
			}
			item.LeftButton = controller.NativeBarButton[Msg]{Item: toggle}
			item.LeftSupplementsBack = true
			return controller.NavigationStack[Msg]{Items: []controller.NavigationItem[Msg]{item}}
		},
		CollapseSecondary: !selected,
		OnPopDetail:       view.Msg(Msg{Kind: Back}),
	}
}

func Subscriptions(o Options) func(Model) []effect.Subscription[Msg] {
	return func(Model) []effect.Subscription[Msg] {
		return []effect.Subscription[Msg]{effect.StoreChanged[Msg]{
			Key:     o.key(),
			Changed: func() Msg { return Msg{Kind: Changed} },
		}}
	}
}

func Program(o Options) driver.Program[Model, Msg] {
	return driver.Program[Model, Msg]{
		Init:          Init(),
		Update:        Update(o),
		View:          View(o),
		Subscriptions: Subscriptions(o),
		Startup:       []effect.Command[Msg]{load(o)},
	}
}
