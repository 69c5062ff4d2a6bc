package grid

// MoveOpts tunes a single [Engine.MoveNodeWith] call.
type MoveOpts struct {
	// NoPack skips the gravity pass and the change notification.
	NoPack bool
	// Raw skips clamping the target to constraints and grid bounds.
	Raw bool
	// NoSwap disables swapping with a same-sized neighbor during a drag.
	NoSwap bool

	skip   *Node
	nested bool
}

// =============================================================================
// Collision Queries
// =============================================================================

// Collision returns the first record in internal order, other than n, whose
// rectangle intersects area. n may be nil.
func (e *Engine) Collision(n *Node, area Rect) *Node {
	return e.collide(n, area, nil)
}

// CollideAll returns every record, other than n, intersecting area.
func (e *Engine) CollideAll(n *Node, area Rect) []*Node {
	return e.collideAll(n, area, nil)
}

func (e *Engine) collide(skip *Node, area Rect, skip2 *Node) *Node {
	for _, n := range e.nodes {
		if n != skip && n != skip2 && area.Intersects(n.Rect()) {
			return n
		}
	}
	return nil
}

func (e *Engine) collideAll(skip *Node, area Rect, skip2 *Node) []*Node {
	var out []*Node
	for _, n := range e.nodes {
		if n != skip && n != skip2 && area.Intersects(n.Rect()) {
			out = append(out, n)
		}
	}
	return out
}

// =============================================================================
// Collision Resolution
// =============================================================================

// fixCollisions clears the way for n to occupy nn. Colliders are pushed
// below nn, except that n jumps past locked colliders (and, during a
// downward drag, past colliders that fit into the space n leaves behind).
// When a collider can be neither pushed nor jumped, n keeps its current
// rect. It reports whether n's position is already final, in which case the
// caller must not overwrite it with nn.
func (e *Engine) fixCollisions(n *Node, nn Rect, collider *Node, opts MoveOpts) bool {
	e.sortNodes(-1)
	if collider == nil {
		collider = e.collide(n, nn, opts.skip)
	}
	if collider == nil {
		return false
	}

	if e.isMoving(n) && !opts.nested && !opts.NoSwap && !e.float {
		if e.swap(n, collider, true) {
			return true
		}
	}

	didMove := false
	// settled is set once n has given up on nn and keeps its current rect;
	// whatever still overlaps that rect is pushed below it instead.
	settled := false
	var last *Node
	for collider != nil {
		if settled && collider == last {
			return true
		}
		var moved bool
		if collider.Locked || e.shouldSkipPast(n, nn, collider) {
			if e.session != nil {
				e.session.skipDown = true
			}
			target := nn
			target.Y = collider.Y + collider.H
			moved = e.moveNode(n, target, MoveOpts{NoPack: true, nested: true})
			if moved {
				switch {
				case collider.Locked:
					nn = n.Rect()
				case !opts.NoPack:
					e.packNodes()
					nn.Y = collider.Y + collider.H
					n.setRect(nn)
					n.dirty = true
				default:
					nn = n.Rect()
				}
			}
			didMove = didMove || moved
		} else {
			target := collider.Rect()
			target.Y = nn.Y + nn.H
			moved = e.moveNode(collider, target, MoveOpts{NoPack: true, nested: true, skip: n})
		}
		if !moved {
			settled = true
			nn = n.Rect()
			didMove = true
		}
		last = collider
		collider = e.collide(n, nn, opts.skip)
	}
	return didMove
}

// shouldSkipPast reports whether a record being dragged down onto collider
// should hop over it rather than push it: the two touch, and collider can
// be slotted either into the space n is vacating or just above nn.
func (e *Engine) shouldSkipPast(n *Node, nn Rect, collider *Node) bool {
	if !e.isMoving(n) || e.session.skipDown || nn.Y <= n.Y || e.float {
		return false
	}
	if !n.Rect().Touches(collider.Rect()) {
		return false
	}
	up := collider.Rect()
	up.Y = n.Y
	before := collider.Rect()
	before.Y = nn.Y - collider.H
	return e.collide(collider, up, n) == nil || e.collide(collider, before, n) == nil
}

// Swap exchanges the positions of a and b when both are unlocked, have the
// same size and touch. It reports whether the swap happened.
func (e *Engine) Swap(a, b *Node) bool {
	return e.swap(a, b, false)
}

// swap implements Swap. With aligned set, the two records must also share a
// row or a column, which keeps drags from swapping diagonal neighbors.
func (e *Engine) swap(a, b *Node, aligned bool) bool {
	if a == nil || b == nil || a == b || a.Locked || b.Locked {
		return false
	}
	if a.W != b.W || a.H != b.H {
		return false
	}
	if aligned && a.X != b.X && a.Y != b.Y {
		return false
	}
	if !a.Rect().Touches(b.Rect()) {
		return false
	}
	a.X, b.X = b.X, a.X
	a.Y, b.Y = b.Y, a.Y
	a.dirty = true
	b.dirty = true
	return true
}

// =============================================================================
// Moves
// =============================================================================

// MoveNode moves (and possibly resizes) n to the rectangle to, clamped to its
// constraints and the grid. Zero W or H keep the current size. Records in
// the way are pushed down and the board is repacked. MoveNode is a direct
// placement: it honors locked records as the moving record, and it never
// refuses a move because of MaxRow. Interactive gestures use
// [Engine.MoveNodeCheck] instead. It reports whether n's geometry changed.
func (e *Engine) MoveNode(n *Node, to Rect) bool {
	return e.MoveNodeWith(n, to, MoveOpts{})
}

// MoveNodeWith is [Engine.MoveNode] with explicit options.
func (e *Engine) MoveNodeWith(n *Node, to Rect, opts MoveOpts) bool {
	if !e.Tracks(n) {
		return false
	}
	return e.moveNode(n, to, opts)
}

func (e *Engine) moveNode(n *Node, to Rect, opts MoveOpts) bool {
	if n == nil {
		return false
	}
	if to.W <= 0 {
		to.W = n.W
	}
	if to.H <= 0 {
		to.H = n.H
	}
	prev := n.Rect()
	resizing := to.W != n.W || to.H != n.H

	nn := to
	if !opts.Raw {
		w := n.Widget
		w.setRect(to)
		e.boundFix(&w, resizing)
		nn = w.Rect()
	}
	if nn == prev {
		return false
	}

	needToMove := true
	if collider := e.collide(n, nn, opts.skip); collider != nil {
		needToMove = !e.fixCollisions(n, nn, collider, opts)
	}
	if needToMove {
		n.setRect(nn)
		n.dirty = true
	}

	if !opts.NoPack {
		e.packNodes()
		e.notify(nil, false)
	}
	return n.Rect() != prev
}

// ChangedPosConstrain fills unset sizes in to from n, applies n's size
// constraints, and reports whether the result differs from n's geometry.
func (e *Engine) ChangedPosConstrain(n *Node, to Rect) (Rect, bool) {
	if to.W <= 0 {
		to.W = n.W
	}
	if to.H <= 0 {
		to.H = n.H
	}
	if n.X != to.X || n.Y != to.Y {
		return to, true
	}
	if n.MaxW > 0 {
		to.W = min(to.W, n.MaxW)
	}
	if n.MaxH > 0 {
		to.H = min(to.H, n.MaxH)
	}
	if n.MinW > 0 {
		to.W = max(to.W, n.MinW)
	}
	if n.MinH > 0 {
		to.H = max(to.H, n.MinH)
	}
	return to, n.W != to.W || n.H != to.H
}

// MoveNodeCheck is the guarded move used by interactive gestures. It refuses
// to move locked records and, when the grid has a row limit or locked
// records, rehearses the move on a scratch copy first; the real board is
// only touched if the rehearsal stays within MaxRow. A same-sized neighbor
// in the way may be swapped instead. It reports whether anything moved.
func (e *Engine) MoveNodeCheck(n *Node, to Rect) bool {
	if !e.Tracks(n) || n.Locked {
		return false
	}
	to, changed := e.ChangedPosConstrain(n, to)
	if !changed {
		return false
	}
	resizing := to.W != n.W || to.H != n.H

	if e.maxRow == 0 && !e.HasLocked() {
		return e.moveNode(n, to, MoveOpts{})
	}

	scratch, mapping := e.clone(e.nodes, false)
	canMove := scratch.moveNode(mapping[n], to, MoveOpts{})
	if canMove && e.maxRow > 0 && scratch.GetRow() > e.maxRow {
		canMove = false
		if !resizing {
			if c := e.collide(n, to, nil); c != nil && e.swap(n, c, false) {
				e.notify(nil, false)
				return true
			}
		}
	}
	if !canMove {
		return false
	}

	for orig, cp := range mapping {
		if !cp.dirty {
			continue
		}
		orig.setRect(cp.Rect())
		orig.dirty = true
	}
	e.notify(nil, false)
	return true
}

// WillItFit reports whether w could be added without growing past MaxRow.
// It always succeeds on an unbounded grid.
func (e *Engine) WillItFit(w Widget) bool {
	if e.maxRow == 0 {
		return true
	}
	scratch, _ := e.clone(e.nodes, false)
	w.ID = ""
	scratch.AddNode(w, false)
	return scratch.GetRow() <= e.maxRow
}

// IsOutside reports whether a pointer at cell (x, y) should count as outside
// the grid while dragging n. Off-grid coordinates are always outside. On an
// unbounded, non-float grid, rows past the last occupied row are outside,
// and so is the last row when dropping n there would not move it.
func (e *Engine) IsOutside(x, y int, n *Node) bool {
	if x < 0 || x >= e.column || y < 0 {
		return true
	}
	if e.maxRow > 0 {
		return y >= e.maxRow
	}
	if e.float {
		return false
	}
	row := e.GetRow()
	if y < row || y == 0 {
		return false
	}
	if y > row {
		return true
	}
	if n == nil {
		return false
	}
	if !e.isTemporarilyRemoved(n) {
		others := make([]*Node, 0, len(e.nodes))
		for _, o := range e.nodes {
			if o != n {
				others = append(others, o)
			}
		}
		scratch, _ := e.clone(others, false)
		w := n.Widget
		w.X, w.Y = x, y
		w.AutoPosition = false
		w.ID = ""
		cp := scratch.AddNode(w, false)
		return cp.X == n.X && cp.Y == n.Y
	}
	return true
}
