package grid

import "sort"

// unplaced is the coordinate assumed for widgets without a position when
// ordering them, which sorts them after every placed widget.
const unplaced = 1000

// SortNodes orders nodes in place by reading order (y*column + x). A
// negative dir sorts in reverse. When column is 0 it is inferred from the
// widest right edge, falling back to [DefaultColumn]. The sort is stable.
func SortNodes(nodes []*Node, dir, column int) {
	if column <= 0 {
		column = inferColumn(len(nodes), func(i int) int { return nodes[i].X + nodes[i].W })
	}
	key := func(n *Node) int { return n.X + n.Y*column }
	sort.SliceStable(nodes, func(i, j int) bool {
		if dir < 0 {
			return key(nodes[i]) > key(nodes[j])
		}
		return key(nodes[i]) < key(nodes[j])
	})
}

// SortWidgets orders widgets like [SortNodes]. Widgets flagged for
// auto-positioning sort as if they sat at x=y=1000.
func SortWidgets(ws []Widget, dir, column int) {
	if column <= 0 {
		column = inferColumn(len(ws), func(i int) int {
			if ws[i].AutoPosition {
				return 0
			}
			return ws[i].X + ws[i].W
		})
	}
	key := func(w Widget) int {
		x, y := w.X, w.Y
		if w.AutoPosition {
			x, y = unplaced, unplaced
		}
		return x + y*column
	}
	sort.SliceStable(ws, func(i, j int) bool {
		if dir < 0 {
			return key(ws[i]) > key(ws[j])
		}
		return key(ws[i]) < key(ws[j])
	})
}

func inferColumn(n int, right func(int) int) int {
	column := 0
	for i := 0; i < n; i++ {
		column = max(column, right(i))
	}
	if column <= 0 {
		return DefaultColumn
	}
	return column
}

func (e *Engine) sortNodes(dir int) {
	SortNodes(e.nodes, dir, e.column)
}

// packNodes applies gravity. With float off every unlocked node rises until
// blocked. With float on only nodes displaced during the current gesture
// rise back toward the row they started from. Packing is deferred in a batch.
func (e *Engine) packNodes() {
	if e.batchMode {
		return
	}
	e.sortNodes(1)

	if e.float {
		for _, n := range e.nodes {
			if e.isUpdating(n) || n.Locked {
				continue
			}
			packY, ok := e.packY[n.ID]
			if !ok || n.Y <= packY {
				continue
			}
			for n.Y > packY {
				r := n.Rect()
				r.Y--
				if e.collide(n, r, nil) != nil {
					break
				}
				n.Y = r.Y
				n.dirty = true
			}
		}
		return
	}

	for i, n := range e.nodes {
		if n.Locked {
			continue
		}
		for n.Y > 0 {
			r := n.Rect()
			r.Y--
			if i == 0 {
				// the first node in reading order has nothing above it
				r.Y = 0
			} else if e.collide(n, r, nil) != nil {
				break
			}
			n.Y = r.Y
			n.dirty = true
		}
	}
}

// Compact re-places every unlocked record at the first free slot in reading
// order, filling holes. Locked records keep their position.
func (e *Engine) Compact() {
	if len(e.nodes) == 0 {
		return
	}
	e.BatchUpdate()
	e.sortNodes(1)
	nodes := e.nodes
	e.nodes = nil
	// locked records go first so the free-slot scan flows around them
	for _, n := range nodes {
		if n.Locked {
			e.addNode(n, false)
		}
	}
	for _, n := range nodes {
		if n.Locked {
			continue
		}
		n.AutoPosition = true
		e.addNode(n, false)
		n.dirty = true
	}
	e.Commit()
}
