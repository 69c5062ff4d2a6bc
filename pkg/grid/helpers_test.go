package grid

import (
	"fmt"
	"testing"
)

// seqIDs returns a deterministic id generator: w1, w2, ...
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("w%d", n)
	}
}

func newTestEngine(opts Options) *Engine {
	if opts.NewID == nil {
		opts.NewID = seqIDs()
	}
	return New(opts)
}

func assertRect(t *testing.T, n *Node, want Rect) {
	t.Helper()
	if n == nil {
		t.Fatalf("node is nil, want %+v", want)
	}
	if got := n.Rect(); got != want {
		t.Errorf("%s: got %+v, want %+v", n.ID, got, want)
	}
}

// assertValid checks the invariants every non-batched mutation must keep.
func assertValid(t *testing.T, e *Engine) {
	t.Helper()
	nodes := e.Nodes()
	for i, a := range nodes {
		if a.W < 1 || a.H < 1 {
			t.Errorf("%s: non-positive size %+v", a.ID, a.Rect())
		}
		if a.X < 0 || a.Y < 0 || a.X+a.W > e.Column() {
			t.Errorf("%s: out of bounds %+v (column %d)", a.ID, a.Rect(), e.Column())
		}
		if e.MaxRow() > 0 && a.Y+a.H > e.MaxRow() {
			t.Errorf("%s: past max row %+v (maxRow %d)", a.ID, a.Rect(), e.MaxRow())
		}
		if e.Float() || a.Locked {
			continue
		}
		for _, b := range nodes[i+1:] {
			if !b.Locked && a.Rect().Intersects(b.Rect()) {
				t.Errorf("%s %+v overlaps %s %+v", a.ID, a.Rect(), b.ID, b.Rect())
			}
		}
	}
}

func ids(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}
