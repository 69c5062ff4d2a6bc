package grid

import (
	"fmt"
	"math/rand"
	"testing"
)

func TestIsAreaEmpty(t *testing.T) {
	e := newTestEngine(Options{Float: true})
	e.AddNode(Widget{X: 3, Y: 2, W: 3, H: 2}, false)

	tests := []struct {
		name       string
		x, y, w, h int
		want       bool
	}{
		{name: "left of node", x: 0, y: 0, w: 3, h: 2, want: true},
		{name: "overlapping corner", x: 1, y: 1, w: 3, h: 2, want: false},
		{name: "unset size defaults to one cell", x: 3, y: 2, w: 0, h: 0, want: false},
		{name: "below node", x: 3, y: 4, w: 3, h: 2, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.IsAreaEmpty(tt.x, tt.y, tt.w, tt.h); got != tt.want {
				t.Errorf("IsAreaEmpty(%d,%d,%d,%d) = %v, want %v", tt.x, tt.y, tt.w, tt.h, got, tt.want)
			}
		})
	}
}

func TestCollision(t *testing.T) {
	e := newTestEngine(Options{Float: true})
	a := e.AddNode(Widget{ID: "a", X: 0, Y: 0, W: 2, H: 2}, false)
	e.AddNode(Widget{ID: "b", X: 4, Y: 0, W: 2, H: 2}, false)

	if got := e.Collision(nil, Rect{X: 1, Y: 1, W: 1, H: 1}); got != a {
		t.Errorf("Collision() = %v, want a", got)
	}
	if got := e.Collision(a, a.Rect()); got != nil {
		t.Errorf("Collision() should skip the node itself, got %s", got.ID)
	}
	if got := e.CollideAll(nil, Rect{X: 0, Y: 0, W: 12, H: 1}); len(got) != 2 {
		t.Errorf("CollideAll() = %v, want a and b", ids(got))
	}
	if got := e.Collision(nil, Rect{X: 2, Y: 0, W: 2, H: 2}); got != nil {
		t.Errorf("area between a and b should be free, got %s", got.ID)
	}
}

func TestSwap(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Widget
		// stacked puts b on a's cell after both are added
		stacked bool
		want    bool
		wantAX  int
		wantBX  int
	}{
		{
			name: "same size neighbors",
			a:    Widget{ID: "a", X: 0, Y: 0, W: 2, H: 2},
			b:    Widget{ID: "b", X: 2, Y: 0, W: 2, H: 2},
			want: true, wantAX: 2, wantBX: 0,
		},
		{
			name: "different width",
			a:    Widget{ID: "a", X: 0, Y: 0, W: 2, H: 2},
			b:    Widget{ID: "b", X: 2, Y: 0, W: 3, H: 2},
			want: false, wantAX: 0, wantBX: 2,
		},
		{
			name: "locked",
			a:    Widget{ID: "a", X: 0, Y: 0, W: 2, H: 2},
			b:    Widget{ID: "b", X: 2, Y: 0, W: 2, H: 2, Locked: true},
			want: false, wantAX: 0, wantBX: 2,
		},
		{
			name: "not touching",
			a:    Widget{ID: "a", X: 0, Y: 0, W: 2, H: 2},
			b:    Widget{ID: "b", X: 5, Y: 0, W: 2, H: 2},
			want: false, wantAX: 0, wantBX: 5,
		},
		{
			name: "corner neighbors",
			a:    Widget{ID: "a", X: 0, Y: 0, W: 2, H: 2},
			b:    Widget{ID: "b", X: 2, Y: 2, W: 2, H: 2},
			want: true, wantAX: 2, wantBX: 0,
		},
		{
			name:    "stacked on one cell",
			a:       Widget{ID: "a", X: 0, Y: 0, W: 2, H: 2},
			b:       Widget{ID: "b", X: 4, Y: 0, W: 2, H: 2},
			stacked: true,
			want:    true, wantAX: 0, wantBX: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(Options{Float: true})
			a := e.AddNode(tt.a, false)
			b := e.AddNode(tt.b, false)
			if tt.stacked {
				b.setRect(a.Rect())
			}
			e.CleanNodes()

			if got := e.Swap(a, b); got != tt.want {
				t.Errorf("Swap() = %v, want %v", got, tt.want)
			}
			if a.X != tt.wantAX || b.X != tt.wantBX {
				t.Errorf("x after swap = %d/%d, want %d/%d", a.X, b.X, tt.wantAX, tt.wantBX)
			}
			if a.Dirty() != tt.want || b.Dirty() != tt.want {
				t.Errorf("dirty = %v/%v, want %v", a.Dirty(), b.Dirty(), tt.want)
			}
		})
	}
}

func TestMoveNodePushesDown(t *testing.T) {
	e := newTestEngine(Options{})
	a := e.AddNode(Widget{ID: "a", X: 0, Y: 0, W: 2, H: 2}, false)
	b := e.AddNode(Widget{ID: "b", X: 0, Y: 2, W: 2, H: 2}, false)

	if !e.MoveNode(b, Rect{X: 0, Y: 1, W: 2, H: 2}) {
		t.Fatal("MoveNode() = false, want true")
	}
	// b lands first and gravity lifts it to the top; a settles below it
	assertRect(t, b, Rect{X: 0, Y: 0, W: 2, H: 2})
	assertRect(t, a, Rect{X: 0, Y: 2, W: 2, H: 2})
	assertValid(t, e)
}

func TestMoveNodeNoop(t *testing.T) {
	e := newTestEngine(Options{})
	a := e.AddNode(Widget{ID: "a", W: 2, H: 2}, false)

	if e.MoveNode(a, a.Rect()) {
		t.Error("moving to the current rect should report false")
	}
	// gravity cancels a move straight down on an empty board
	if e.MoveNode(a, Rect{X: 0, Y: 5, W: 2, H: 2}) {
		t.Error("a move undone by packing should report false")
	}
	if e.MoveNode(&Node{Widget: Widget{ID: "x"}}, Rect{X: 1, Y: 1, W: 1, H: 1}) {
		t.Error("untracked node should not move")
	}
}

func TestMoveNodeClamps(t *testing.T) {
	e := newTestEngine(Options{Float: true})
	a := e.AddNode(Widget{ID: "a", W: 2, H: 2, MaxH: 3}, false)

	e.MoveNode(a, Rect{X: 11, Y: 0, W: 2, H: 2})
	assertRect(t, a, Rect{X: 10, Y: 0, W: 2, H: 2})

	e.MoveNode(a, Rect{X: 10, Y: 0, W: 4, H: 6})
	assertRect(t, a, Rect{X: 10, Y: 0, W: 2, H: 3})

	e.MoveNodeWith(a, Rect{X: 0, Y: 0, W: 20, H: 1}, MoveOpts{Raw: true})
	assertRect(t, a, Rect{X: 0, Y: 0, W: 20, H: 1})
}

func TestLockedEndToEnd(t *testing.T) {
	e := newTestEngine(Options{Float: true})
	lock := e.AddNode(Widget{ID: "lock", X: 0, Y: 1, W: 12, H: 1, Locked: true}, false)
	n := e.AddNode(Widget{ID: "n", X: 1, Y: 0, W: 2, H: 3}, false)

	// pushed below the lock rather than pushing it
	assertRect(t, n, Rect{X: 1, Y: 2, W: 2, H: 3})
	assertRect(t, lock, Rect{X: 0, Y: 1, W: 12, H: 1})

	if e.MoveNodeCheck(lock, Rect{X: 0, Y: 6, W: 12, H: 1}) {
		t.Error("interactive move of a locked node should be refused")
	}
	if !e.MoveNode(lock, Rect{X: 0, Y: 6, W: 12, H: 1}) {
		t.Fatal("direct move of a locked node should be honored")
	}
	assertRect(t, lock, Rect{X: 0, Y: 6, W: 12, H: 1})

	if !e.MoveNode(n, Rect{X: 6, Y: 6}) {
		t.Fatal("MoveNode(n) = false, want true")
	}
	assertRect(t, n, Rect{X: 6, Y: 7, W: 2, H: 3})
	assertRect(t, lock, Rect{X: 0, Y: 6, W: 12, H: 1})
}

func TestLockedEndToEndGravity(t *testing.T) {
	e := newTestEngine(Options{})
	lock := e.AddNode(Widget{ID: "lock", X: 0, Y: 1, W: 12, H: 1, Locked: true}, false)
	n := e.AddNode(Widget{ID: "n", X: 1, Y: 0, W: 2, H: 3}, false)

	assertRect(t, n, Rect{X: 1, Y: 2, W: 2, H: 3})

	if !e.MoveNode(n, Rect{X: 6, Y: 6}) {
		t.Fatal("MoveNode(n) = false, want true")
	}
	// gravity lifts n back up against the lock
	assertRect(t, n, Rect{X: 6, Y: 2, W: 2, H: 3})
	assertRect(t, lock, Rect{X: 0, Y: 1, W: 12, H: 1})
	assertValid(t, e)
}

func TestMoveNodeCheckMaxRow(t *testing.T) {
	t.Run("fits", func(t *testing.T) {
		e := newTestEngine(Options{MaxRow: 3})
		a := e.AddNode(Widget{ID: "a", X: 0, Y: 0, W: 2, H: 2}, false)
		b := e.AddNode(Widget{ID: "b", X: 0, Y: 2, W: 2, H: 1}, false)

		if !e.MoveNodeCheck(b, Rect{X: 0, Y: 0, W: 2, H: 1}) {
			t.Fatal("MoveNodeCheck() = false, want true")
		}
		assertRect(t, b, Rect{X: 0, Y: 0, W: 2, H: 1})
		assertRect(t, a, Rect{X: 0, Y: 1, W: 2, H: 2})
		assertValid(t, e)
	})

	t.Run("falls back to swap", func(t *testing.T) {
		e := newTestEngine(Options{MaxRow: 3})
		a := e.AddNode(Widget{ID: "a", X: 0, Y: 0, W: 2, H: 3}, false)
		b := e.AddNode(Widget{ID: "b", X: 2, Y: 0, W: 2, H: 3}, false)

		if !e.MoveNodeCheck(b, Rect{X: 1, Y: 0, W: 2, H: 3}) {
			t.Fatal("MoveNodeCheck() = false, want swap")
		}
		assertRect(t, a, Rect{X: 2, Y: 0, W: 2, H: 3})
		assertRect(t, b, Rect{X: 0, Y: 0, W: 2, H: 3})
	})

	t.Run("rejected", func(t *testing.T) {
		e := newTestEngine(Options{MaxRow: 3})
		a := e.AddNode(Widget{ID: "a", X: 0, Y: 0, W: 2, H: 3}, false)
		b := e.AddNode(Widget{ID: "b", X: 2, Y: 0, W: 1, H: 3}, false)

		if e.MoveNodeCheck(b, Rect{X: 1, Y: 0, W: 1, H: 3}) {
			t.Fatal("MoveNodeCheck() = true, want rejection")
		}
		assertRect(t, a, Rect{X: 0, Y: 0, W: 2, H: 3})
		assertRect(t, b, Rect{X: 2, Y: 0, W: 1, H: 3})
	})

	t.Run("unchanged", func(t *testing.T) {
		e := newTestEngine(Options{MaxRow: 3})
		a := e.AddNode(Widget{ID: "a", W: 2, H: 1, MinW: 2}, false)
		if e.MoveNodeCheck(a, Rect{X: 0, Y: 0, W: 1, H: 1}) {
			t.Error("a resize undone by minW should report false")
		}
	})
}

func TestWillItFit(t *testing.T) {
	e := newTestEngine(Options{MaxRow: 2})
	e.AddNode(Widget{ID: "a", X: 0, Y: 0, W: 12, H: 1}, false)

	if !e.WillItFit(Widget{W: 12, H: 1}) {
		t.Error("a second full-width row should fit")
	}
	if e.WillItFit(Widget{W: 12, H: 2}) {
		t.Error("a two-row widget should not fit")
	}
	if e.Len() != 1 {
		t.Errorf("WillItFit must not modify the engine, Len() = %d", e.Len())
	}

	unbounded := newTestEngine(Options{})
	if !unbounded.WillItFit(Widget{W: 12, H: 100}) {
		t.Error("unbounded grid should always fit")
	}
}

func TestIsOutside(t *testing.T) {
	e := newTestEngine(Options{})
	a := e.AddNode(Widget{ID: "a", X: 0, Y: 0, W: 2, H: 2}, false)
	b := e.AddNode(Widget{ID: "b", X: 2, Y: 0, W: 2, H: 1}, false)

	tests := []struct {
		name string
		x, y int
		n    *Node
		want bool
	}{
		{name: "left of grid", x: -1, y: 0, n: a, want: true},
		{name: "right of grid", x: 12, y: 0, n: a, want: true},
		{name: "above grid", x: 0, y: -1, n: a, want: true},
		{name: "inside occupied rows", x: 0, y: 1, n: a, want: false},
		{name: "past last row", x: 0, y: 3, n: a, want: true},
		{name: "last row would not move", x: 2, y: 2, n: b, want: true},
		{name: "last row would move", x: 4, y: 2, n: b, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.IsOutside(tt.x, tt.y, tt.n); got != tt.want {
				t.Errorf("IsOutside(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	bounded := newTestEngine(Options{MaxRow: 5})
	if bounded.IsOutside(0, 4, nil) || !bounded.IsOutside(0, 5, nil) {
		t.Error("bounded grid should use maxRow as the limit")
	}
	floating := newTestEngine(Options{Float: true})
	if floating.IsOutside(0, 100, nil) {
		t.Error("float grid has no bottom limit")
	}
}

func TestFixCollisionsSkipsPastOnDownwardDrag(t *testing.T) {
	e := newTestEngine(Options{})
	a := e.AddNode(Widget{ID: "a", X: 0, Y: 0, W: 2, H: 1}, false)
	b := e.AddNode(Widget{ID: "b", X: 0, Y: 1, W: 2, H: 2}, false)

	s := e.BeginUpdate(a)
	s.Moving = true
	if !e.MoveNodeCheck(a, Rect{X: 0, Y: 1, W: 2, H: 1}) {
		t.Fatal("MoveNodeCheck() = false, want true")
	}
	e.EndUpdate()

	// a hops below b instead of shoving b further down
	assertRect(t, b, Rect{X: 0, Y: 0, W: 2, H: 2})
	assertRect(t, a, Rect{X: 0, Y: 2, W: 2, H: 1})
	assertValid(t, e)
}

func TestDragSwapsSameSizedNeighbors(t *testing.T) {
	e := newTestEngine(Options{})
	a := e.AddNode(Widget{ID: "a", X: 0, Y: 0, W: 2, H: 2}, false)
	b := e.AddNode(Widget{ID: "b", X: 2, Y: 0, W: 2, H: 2}, false)

	s := e.BeginUpdate(a)
	s.Moving = true
	if !e.MoveNodeCheck(a, Rect{X: 1, Y: 0, W: 2, H: 2}) {
		t.Fatal("MoveNodeCheck() = false, want true")
	}
	e.EndUpdate()

	assertRect(t, a, Rect{X: 2, Y: 0, W: 2, H: 2})
	assertRect(t, b, Rect{X: 0, Y: 0, W: 2, H: 2})
}

// assertNoLockedOverlap fails if any unlocked record sits on a locked one.
func assertNoLockedOverlap(t *testing.T, e *Engine) {
	t.Helper()
	for _, a := range e.Nodes() {
		if !a.Locked {
			continue
		}
		for _, b := range e.Nodes() {
			if !b.Locked && a.Rect().Intersects(b.Rect()) {
				t.Errorf("%s %+v overlaps locked %s %+v", b.ID, b.Rect(), a.ID, a.Rect())
			}
		}
	}
}

func TestMoveBlockedByLockedKeepsPosition(t *testing.T) {
	tests := []struct {
		name   string
		moving bool
		move   func(e *Engine, n *Node, to Rect) bool
	}{
		{"direct", false, (*Engine).MoveNode},
		{"direct while dragging", true, (*Engine).MoveNode},
		{"checked while dragging", true, (*Engine).MoveNodeCheck},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(Options{Column: 6, Nodes: []Widget{
				{ID: "w5", X: 2, Y: 0, W: 2, H: 1},
				{ID: "w2", X: 2, Y: 1, W: 1, H: 2},
				{ID: "w1", X: 4, Y: 2, W: 2, H: 2, Locked: true},
				{ID: "w4", X: 2, Y: 3, W: 2, H: 1},
				{ID: "w3", X: 3, Y: 4, W: 3, H: 1},
			}})
			w3 := e.Node("w3")
			assertRect(t, w3, Rect{X: 3, Y: 4, W: 3, H: 1})

			s := e.BeginUpdate(w3)
			s.Moving = tt.moving
			tt.move(e, w3, Rect{X: 3, Y: 3, W: 3, H: 1})
			e.EndUpdate()

			assertRect(t, e.Node("w1"), Rect{X: 4, Y: 2, W: 2, H: 2})
			assertValid(t, e)
			assertNoLockedOverlap(t, e)
		})
	}
}

// TestRandomMutationsKeepInvariants drives a gravity grid through a fixed
// pseudo-random sequence of mutations and checks the layout invariants
// after each one.
func TestRandomMutationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e := newTestEngine(Options{Column: 8})

	for step := 0; step < 400; step++ {
		nodes := e.Nodes()
		switch op := rng.Intn(10); {
		case op < 3 || len(nodes) == 0:
			e.AddNode(Widget{
				X: rng.Intn(10) - 1, Y: rng.Intn(10),
				W: rng.Intn(4) + 1, H: rng.Intn(3) + 1,
				AutoPosition: rng.Intn(3) == 0,
			}, false)
		case op < 7:
			n := nodes[rng.Intn(len(nodes))]
			e.MoveNode(n, Rect{X: rng.Intn(8), Y: rng.Intn(12), W: n.W, H: n.H})
		case op < 8:
			n := nodes[rng.Intn(len(nodes))]
			e.MoveNode(n, Rect{X: n.X, Y: n.Y, W: rng.Intn(5) + 1, H: rng.Intn(4) + 1})
		case op < 9:
			e.RemoveNode(nodes[rng.Intn(len(nodes))], true, false)
		default:
			e.Compact()
		}
		assertValid(t, e)
		if t.Failed() {
			t.Fatalf("invariants broken at step %d", step)
		}
	}
}

// TestRandomGesturesKeepInvariants mixes locked records, drag sessions,
// compaction and column changes over several seeds.
func TestRandomGesturesKeepInvariants(t *testing.T) {
	columns := []int{1, 4, 6, 8, 12}
	for _, seed := range []int64{1, 2, 3, 11, 42, 99, 2024} {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(seed))
			e := newTestEngine(Options{Column: 6})

			for step := 0; step < 300; step++ {
				nodes := e.Nodes()
				switch op := rng.Intn(12); {
				case op < 3 || len(nodes) == 0:
					e.AddNode(Widget{
						X: rng.Intn(e.Column()), Y: rng.Intn(8),
						W: rng.Intn(3) + 1, H: rng.Intn(3) + 1,
						Locked: rng.Intn(4) == 0,
					}, false)
				case op < 7:
					n := nodes[rng.Intn(len(nodes))]
					s := e.BeginUpdate(n)
					s.Moving = true
					for i := 0; i < 3; i++ {
						e.MoveNodeCheck(n, Rect{X: rng.Intn(e.Column()), Y: rng.Intn(10), W: n.W, H: n.H})
						assertValid(t, e)
					}
					e.EndUpdate()
				case op < 8:
					n := nodes[rng.Intn(len(nodes))]
					e.MoveNode(n, Rect{X: rng.Intn(e.Column()), Y: rng.Intn(10), W: n.W, H: n.H})
				case op < 9:
					e.RemoveNode(nodes[rng.Intn(len(nodes))], true, false)
				case op < 10:
					e.SetColumn(columns[rng.Intn(len(columns))], ColumnOpts{})
				default:
					e.Compact()
				}
				assertValid(t, e)
				if t.Failed() {
					t.Fatalf("invariants broken at step %d", step)
				}
			}
		})
	}
}
