package view

import "fmt"

// Map converts every message embedded in v with f, preserving structure.
// Closures are composed, not called.
func Map[A, B comparable](v View[A], f func(A) B) View[B] {
	switch v := v.(type) {
	case Label[A]:
		return Label[B]{Text: v.Text}
	case Image[A]:
		return Image[B]{Data: v.Data}
	case Button[A]:
		return Button[B]{Text: v.Text, OnTap: MapMsg(v.OnTap, f)}
	case TextField[A]:
		out := TextField[B]{Text: v.Text}
		if v.OnChange != nil {
			change := v.OnChange
			out.OnChange = func(text string) B { return f(change(text)) }
		}
		return out
	case Slider[A]:
		out := Slider[B]{Progress: v.Progress, Max: v.Max}
		if v.OnChange != nil {
			change := v.OnChange
			out.OnChange = func(value float64) B { return f(change(value)) }
		}
		return out
	case ActivityIndicator[A]:
		return ActivityIndicator[B]{Animating: v.Animating}
	case Stack[A]:
		out := Stack[B]{Axis: v.Axis, Distribution: v.Distribution, Background: v.Background}
		if v.Children != nil {
			out.Children = make([]View[B], len(v.Children))
			for i, child := range v.Children {
				out.Children[i] = Map(child, f)
			}
		}
		return out
	case Table[A]:
		return MapTable(v, f)
	default:
		panic(unknown(v))
	}
}

// MapTable is Map specialized to tables, so table screens keep their type.
func MapTable[A, B comparable](t Table[A], f func(A) B) Table[B] {
	var out Table[B]
	if t.Cells != nil {
		out.Cells = make([]TableCell[B], len(t.Cells))
		for i, c := range t.Cells {
			out.Cells[i] = TableCell[B]{
				Text:      c.Text,
				OnSelect:  MapMsg(c.OnSelect, f),
				OnDelete:  MapMsg(c.OnDelete, f),
				Accessory: c.Accessory,
			}
		}
	}
	return out
}

// MapMsg applies f to an optional message.
func MapMsg[A, B comparable](m *A, f func(A) B) *B {
	if m == nil {
		return nil
	}
	out := f(*m)
	return &out
}

func unknown(v any) string {
	return fmt.Sprintf("view: unknown variant %T", v)
}
