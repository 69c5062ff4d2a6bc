package grid

// PrepareNode normalizes w against the grid: it assigns an id when missing,
// defaults unset sizes to 1 and clamps the geometry with the same rules
// used for every move (see [Engine.MoveNode]). When resizing is set, a
// widget that overflows the right or bottom edge is shrunk instead of
// shifted.
func (e *Engine) PrepareNode(w Widget, resizing bool) Widget {
	e.prepare(&w, resizing)
	return w
}

func (e *Engine) prepare(w *Widget, resizing bool) {
	if w.ID == "" {
		w.ID = e.newID()
	}
	if w.W < 1 {
		w.W = 1
	}
	if w.H < 1 {
		w.H = 1
	}
	if w.X < 0 {
		w.X = 0
	}
	if w.Y < 0 {
		w.Y = 0
	}
	e.boundFix(w, resizing)
}

// boundFix clamps w to its own size constraints and to the grid bounds.
// Max constraints apply before min ones, so min wins when they conflict.
func (e *Engine) boundFix(w *Widget, resizing bool) {
	if w.MaxW > 0 {
		w.W = min(w.W, w.MaxW)
	}
	if w.MaxH > 0 {
		w.H = min(w.H, w.MaxH)
	}
	if w.MinW > 0 && w.MinW <= e.column {
		w.W = max(w.W, w.MinW)
	}
	if w.MinH > 0 {
		w.H = max(w.H, w.MinH)
	}

	if w.W > e.column {
		w.W = e.column
	} else if w.W < 1 {
		w.W = 1
	}
	if e.maxRow > 0 && w.H > e.maxRow {
		w.H = e.maxRow
	} else if w.H < 1 {
		w.H = 1
	}

	if w.X < 0 {
		w.X = 0
	}
	if w.Y < 0 {
		w.Y = 0
	}

	if w.X+w.W > e.column {
		if resizing {
			w.W = e.column - w.X
		} else {
			w.X = e.column - w.W
		}
	}
	if e.maxRow > 0 && w.Y+w.H > e.maxRow {
		if resizing {
			w.H = e.maxRow - w.Y
		} else {
			w.Y = e.maxRow - w.H
		}
	}
}

// AddNode adds a new record built from w, resolves any collisions it causes
// and notifies. When trigger is set the record is also appended to
// [Engine.AddedNodes].
func (e *Engine) AddNode(w Widget, trigger bool) *Node {
	return e.addNode(&Node{Widget: w}, trigger)
}

// InsertNode adds an existing, detached record back to the engine, for
// example one that was dragged out and back in. Tracked records are
// returned unchanged.
func (e *Engine) InsertNode(n *Node, trigger bool) *Node {
	if i := e.indexOf(n); i >= 0 {
		return e.nodes[i]
	}
	return e.addNode(n, trigger)
}

// InsertNodeAt is [Engine.InsertNode] for a record that should come back at
// r. Zero W or H keep the record's size. Tracked records are returned
// unchanged and keep their geometry.
func (e *Engine) InsertNodeAt(n *Node, r Rect, trigger bool) *Node {
	if i := e.indexOf(n); i >= 0 {
		return e.nodes[i]
	}
	if r.W <= 0 {
		r.W = n.W
	}
	if r.H <= 0 {
		r.H = n.H
	}
	n.setRect(r)
	return e.addNode(n, trigger)
}

func (e *Engine) addNode(n *Node, trigger bool) *Node {
	if e.Tracks(n) {
		return n
	}
	e.prepare(&n.Widget, false)
	n.removed = false
	n.removeDOM = false

	if n.AutoPosition {
		e.sortNodes(1)
		for i := 0; ; i++ {
			x, y := i%e.column, i/e.column
			if x+n.W > e.column {
				continue
			}
			box := Rect{X: x, Y: y, W: n.W, H: n.H}
			if e.collide(nil, box, nil) == nil {
				n.X, n.Y = x, y
				n.AutoPosition = false
				break
			}
		}
	}

	n.dirty = true
	e.nodes = append(e.nodes, n)
	if trigger {
		e.addedNodes = append(e.addedNodes, n)
	}

	e.fixCollisions(n, n.Rect(), nil, MoveOpts{})
	e.packNodes()
	e.notify(nil, false)
	return n
}

// RemoveNode drops n from the engine, repacks and notifies with n marked as
// removed. removeDOM tells collaborators whether the removal is final; a
// final removal also forgets n in the layout cache. When trigger is set the
// record is also appended to [Engine.RemovedNodes].
func (e *Engine) RemoveNode(n *Node, removeDOM, trigger bool) {
	i := e.indexOf(n)
	if i < 0 {
		return
	}
	if trigger {
		e.removedNodes = append(e.removedNodes, n)
	}
	n.removed = true
	n.removeDOM = removeDOM
	e.nodes = append(e.nodes[:i:i], e.nodes[i+1:]...)
	if removeDOM {
		e.RemoveFromLayoutCache(n)
	}
	e.packNodes()
	e.notify([]*Node{n}, removeDOM)
}

// RemoveAll drops every record and clears the layout cache.
func (e *Engine) RemoveAll(removeDOM bool) {
	e.layouts = nil
	if len(e.nodes) == 0 {
		return
	}
	removed := e.nodes
	for _, n := range removed {
		n.removed = true
		n.removeDOM = removeDOM
	}
	e.removedNodes = append(e.removedNodes, removed...)
	e.nodes = nil
	e.notify(removed, removeDOM)
}

// Update copies constraints, flags and content from w onto n and moves it
// to w's geometry. It reports whether the geometry changed.
func (e *Engine) Update(n *Node, w Widget) bool {
	if !e.Tracks(n) {
		return false
	}
	n.MinW, n.MaxW, n.MinH, n.MaxH = w.MinW, w.MaxW, w.MinH, w.MaxH
	n.Locked, n.NoMove, n.NoResize = w.Locked, w.NoMove, w.NoResize
	n.Content = w.Content
	if w.Ref != nil {
		n.Ref = w.Ref
	}
	to := w.Rect()
	if w.AutoPosition {
		to.X, to.Y = n.X, n.Y
	}
	return e.MoveNode(n, to)
}
