package controller

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/virtualviews/pkg/native"
	"github.com/odvcencio/virtualviews/pkg/native/sim"
	"github.com/odvcencio/virtualviews/pkg/view"
)

func tree() Controller[int] {
	root := NavigationItem[int]{
		Title:        "Lists",
		LeftButton:   EditBarButton[int]{},
		RightButtons: []BarButton[int]{SystemBarButton[int]{Item: native.SystemAdd, Action: 1}},
		Controller: TableScreen[int]{Table: view.Table[int]{Cells: []view.TableCell[int]{
			{Text: "Groceries", OnSelect: view.Msg(2)},
		}}},
	}
	detail := NavigationItem[int]{
		Title:               "Groceries",
		LeftSupplementsBack: true,
		RightButtons:        []BarButton[int]{TextBarButton[int]{Text: "Info", Action: 3}},
		Controller:          Screen[int]{View: view.Button[int]{Text: "Go", OnTap: view.Msg(4)}},
	}
	stack := NavigationStack[int]{Items: []NavigationItem[int]{root, detail}, OnPop: view.Msg(5)}
	return WithModal[int](stack, Modal[int]{
		Controller: Screen[int]{View: view.Label[int]{Text: "About"}},
		Style:      native.PresentationFormSheet,
	})
}

func TestMap_Identity(t *testing.T) {
	c := tree()
	if diff := cmp.Diff(c, Map(c, func(m int) int { return m })); diff != "" {
		t.Fatalf("map(id) changed the tree (-want +got):\n%s", diff)
	}
}

func TestMap_Composition(t *testing.T) {
	c := tree()
	f := func(m int) int { return m + 100 }
	g := func(m int) string { return fmt.Sprintf("msg-%d", m) }

	stepwise := Map(Map(c, f), g)
	composed := Map(c, func(m int) string { return g(f(m)) })
	if diff := cmp.Diff(composed, stepwise); diff != "" {
		t.Fatalf("map(f).map(g) != map(g . f) (-want +got):\n%s", diff)
	}

	p := stepwise.(Presenting[string])
	stack := p.Base.(NavigationStack[string])
	assert.Equal(t, "msg-105", *stack.OnPop)
	assert.Equal(t, "msg-101", stack.Items[0].RightButtons[0].(SystemBarButton[string]).Action)
	assert.Equal(t, "msg-103", stack.Items[1].RightButtons[0].(TextBarButton[string]).Action)
	assert.True(t, stack.Items[1].LeftSupplementsBack)
	assert.Equal(t, native.PresentationFormSheet, p.Modal.Style)
}

func TestMap_SplitViewComposesBuilders(t *testing.T) {
	toggle := sim.New().NewSplitController().DisplayModeButton()
	split := SplitView[int]{
		Primary: func(tg native.BarButtonItem) NavigationStack[int] {
			return NavigationStack[int]{Items: []NavigationItem[int]{{
				Title:      "Primary",
				LeftButton: NativeBarButton[int]{Item: tg},
				Controller: Screen[int]{View: view.Button[int]{Text: "x", OnTap: view.Msg(7)}},
			}}}
		},
		Secondary: func(native.BarButtonItem) NavigationStack[int] {
			return NavigationStack[int]{OnPop: view.Msg(8)}
		},
		CollapseSecondary: true,
		OnPopDetail:       view.Msg(9),
	}

	mapped := Map[int, string](split, func(m int) string { return fmt.Sprint(m) }).(SplitView[string])
	assert.True(t, mapped.CollapseSecondary)
	assert.Equal(t, "9", *mapped.OnPopDetail)

	primary := mapped.Primary(toggle)
	require.Len(t, primary.Items, 1)
	assert.Same(t, toggle, primary.Items[0].LeftButton.(NativeBarButton[string]).Item)
	button := primary.Items[0].Controller.(Screen[string]).View.(view.Button[string])
	assert.Equal(t, "7", *button.OnTap)
	assert.Equal(t, "8", *mapped.Secondary(toggle).OnPop)
}

func TestWithModal_ReplacesExistingModal(t *testing.T) {
	base := Screen[int]{View: view.Label[int]{Text: "base"}}
	first := WithModal[int](base, Modal[int]{Controller: base})
	second := WithModal(first, Modal[int]{Controller: base, Style: native.PresentationPageSheet})

	p := second.(Presenting[int])
	assert.Equal(t, Controller[int](base), p.Base)
	assert.Equal(t, native.PresentationPageSheet, p.Modal.Style)
}
