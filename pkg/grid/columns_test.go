package grid

import "testing"

func twoHalves(t *testing.T, float bool) (*Engine, *Node, *Node) {
	t.Helper()
	e := newTestEngine(Options{
		Float: float,
		Nodes: []Widget{
			{ID: "left", X: 0, Y: 0, W: 6, H: 1},
			{ID: "right", X: 6, Y: 0, W: 6, H: 1},
		},
	})
	return e, e.Node("left"), e.Node("right")
}

func TestUpdateNodeWidthsRoundTrip(t *testing.T) {
	e, left, right := twoHalves(t, false)

	e.UpdateNodeWidths(12, 1, ColumnOpts{})
	if e.Column() != 1 {
		t.Fatalf("Column() = %d, want 1", e.Column())
	}
	assertRect(t, left, Rect{X: 0, Y: 0, W: 1, H: 1})
	assertRect(t, right, Rect{X: 0, Y: 1, W: 1, H: 1})
	assertValid(t, e)

	e.UpdateNodeWidths(1, 12, ColumnOpts{})
	assertRect(t, left, Rect{X: 0, Y: 0, W: 6, H: 1})
	assertRect(t, right, Rect{X: 6, Y: 0, W: 6, H: 1})
}

func TestUpdateNodeWidthsModes(t *testing.T) {
	tests := []struct {
		name      string
		mode      LayoutMode
		wantLeft  Rect
		wantRight Rect
	}{
		{
			name:      "moveScale",
			mode:      LayoutMoveScale,
			wantLeft:  Rect{X: 0, Y: 0, W: 3, H: 1},
			wantRight: Rect{X: 3, Y: 0, W: 3, H: 1},
		},
		{
			name:      "default is moveScale",
			wantLeft:  Rect{X: 0, Y: 0, W: 3, H: 1},
			wantRight: Rect{X: 3, Y: 0, W: 3, H: 1},
		},
		{
			name:      "scale clamps x",
			mode:      LayoutScale,
			wantLeft:  Rect{X: 0, Y: 0, W: 3, H: 1},
			wantRight: Rect{X: 3, Y: 0, W: 3, H: 1},
		},
		{
			name:      "none keeps x and w",
			mode:      LayoutNone,
			wantLeft:  Rect{X: 0, Y: 0, W: 6, H: 1},
			wantRight: Rect{X: 0, Y: 1, W: 6, H: 1},
		},
		{
			name:      "move keeps width",
			mode:      LayoutMove,
			wantLeft:  Rect{X: 0, Y: 0, W: 6, H: 1},
			wantRight: Rect{X: 0, Y: 1, W: 6, H: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, left, right := twoHalves(t, false)
			e.SetColumn(6, ColumnOpts{Mode: tt.mode})

			assertRect(t, left, tt.wantLeft)
			assertRect(t, right, tt.wantRight)
			assertValid(t, e)
		})
	}
}

func TestUpdateNodeWidthsCustom(t *testing.T) {
	e, left, right := twoHalves(t, false)

	var gotNew, gotOld, gotResolved, gotUnresolved int
	e.UpdateNodeWidths(12, 4, ColumnOpts{
		Custom: func(newColumn, oldColumn int, resolved, unresolved []*Node) {
			gotNew, gotOld = newColumn, oldColumn
			gotResolved, gotUnresolved = len(resolved), len(unresolved)
			for _, n := range unresolved {
				n.X, n.W = 0, newColumn
			}
		},
	})

	if gotNew != 4 || gotOld != 12 || gotResolved != 0 || gotUnresolved != 2 {
		t.Errorf("callback got (%d, %d, %d, %d)", gotNew, gotOld, gotResolved, gotUnresolved)
	}
	assertRect(t, left, Rect{X: 0, Y: 0, W: 4, H: 1})
	assertRect(t, right, Rect{X: 0, Y: 1, W: 4, H: 1})
}

func TestUpdateNodeWidthsDOMOrder(t *testing.T) {
	tests := []struct {
		name   string
		custom bool
	}{
		{"mode only", false},
		{"custom ignored", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, left, right := twoHalves(t, false)

			called := false
			opts := ColumnOpts{DOMOrder: []*Node{right, left}}
			if tt.custom {
				opts.Custom = func(_, _ int, _, unresolved []*Node) {
					called = true
					for i, n := range unresolved {
						n.Y = 10 * (len(unresolved) - i)
					}
				}
			}
			e.UpdateNodeWidths(12, 1, opts)

			if called {
				t.Error("Custom should not run for a DOM-order switch")
			}
			assertRect(t, right, Rect{X: 0, Y: 0, W: 1, H: 1})
			assertRect(t, left, Rect{X: 0, Y: 1, W: 1, H: 1})
		})
	}
}

func TestUpdateNodeWidthsBorrowsWidestCache(t *testing.T) {
	e, left, right := twoHalves(t, false)

	e.UpdateNodeWidths(12, 1, ColumnOpts{})
	// 6 was never cached: the 12-column layout seeds it, scaled by half
	e.UpdateNodeWidths(1, 6, ColumnOpts{})

	assertRect(t, left, Rect{X: 0, Y: 0, W: 3, H: 1})
	assertRect(t, right, Rect{X: 3, Y: 0, W: 3, H: 1})
}

func TestUpdateNodeWidthsLocked(t *testing.T) {
	e := newTestEngine(Options{
		Nodes: []Widget{
			{ID: "lock", X: 8, Y: 0, W: 4, H: 1, Locked: true},
		},
	})
	e.SetColumn(6, ColumnOpts{Mode: LayoutMoveScale})

	// x and w are kept, then clamped into the narrower grid
	assertRect(t, e.Node("lock"), Rect{X: 2, Y: 0, W: 4, H: 1})
}

func TestUpdateNodeWidthsEmptyOrSame(t *testing.T) {
	e := newTestEngine(Options{})
	e.UpdateNodeWidths(12, 4, ColumnOpts{})
	if e.Column() != 4 {
		t.Errorf("Column() = %d, want 4 even without nodes", e.Column())
	}
	if len(e.LayoutCache()) != 0 {
		t.Error("an empty grid should not cache anything")
	}
}

func TestLayoutsNodesChange(t *testing.T) {
	e, left, right := twoHalves(t, true)
	e.UpdateNodeWidths(12, 1, ColumnOpts{})
	e.SaveInitial()

	e.MoveNode(left, Rect{X: 0, Y: 4, W: 1, H: 1})
	e.LayoutsNodesChange([]*Node{left})

	e.UpdateNodeWidths(1, 12, ColumnOpts{})
	assertRect(t, left, Rect{X: 0, Y: 4, W: 6, H: 1})
	assertRect(t, right, Rect{X: 6, Y: 0, W: 6, H: 1})
}

func TestLayoutsNodesChangeDropsNarrower(t *testing.T) {
	e, left, _ := twoHalves(t, false)
	e.CacheLayout(e.Nodes(), 6, false)
	e.SaveInitial()

	e.MoveNode(left, Rect{X: 0, Y: 0, W: 4, H: 1})
	e.LayoutsNodesChange([]*Node{left})

	if _, ok := e.LayoutCache()[6]; ok {
		t.Error("narrower cached layouts should be dropped")
	}
}

func TestLayoutCacheCoherence(t *testing.T) {
	e, left, right := twoHalves(t, false)
	e.CacheLayout(e.Nodes(), 12, false)

	e.UpdateNodeWidths(12, 1, ColumnOpts{})
	e.CacheOneLayout(left, 1)
	e.RemoveNode(right, true, false)

	for column, layout := range e.LayoutCache() {
		for _, entry := range layout {
			if entry.ID == "right" {
				t.Errorf("column %d still caches a removed node", column)
			}
		}
	}

	restored := newTestEngine(Options{})
	restored.SetLayoutCache(e.LayoutCache())
	if len(restored.LayoutCache()[12]) != 1 {
		t.Errorf("SetLayoutCache() lost entries: %+v", restored.LayoutCache())
	}
}

func TestParseLayoutMode(t *testing.T) {
	for _, s := range []string{"", "move", "scale", "moveScale", "none"} {
		if _, err := ParseLayoutMode(s); err != nil {
			t.Errorf("ParseLayoutMode(%q) error: %v", s, err)
		}
	}
	if _, err := ParseLayoutMode("list"); err == nil {
		t.Error("ParseLayoutMode(list) should fail")
	}
}
