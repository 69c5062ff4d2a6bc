package grid

// Session holds the state of one interactive gesture on an engine: the
// record being dragged or resized and the placements already tried.
// Sessions are opened with [Engine.BeginUpdate] and closed with
// [Engine.EndUpdate]; an engine has at most one open session.
type Session struct {
	node *Node

	// Moving is set while the record is being dragged (as opposed to
	// resized). It enables swapping with same-sized neighbors.
	Moving bool
	// TemporarilyRemoved is set while the record has been dragged out of
	// the grid and is not currently tracked.
	TemporarilyRemoved bool

	skipDown  bool
	lastTried Rect
	hasTried  bool
}

// Node returns the record the session is updating.
func (s *Session) Node() *Node { return s.node }

// Tried reports whether r is the last placement attempted in this session.
func (s *Session) Tried(r Rect) bool { return s.hasTried && s.lastTried == r }

// Remember records r as the last placement attempted.
func (s *Session) Remember(r Rect) {
	s.lastTried = r
	s.hasTried = true
}

// Forget clears the last attempted placement.
func (s *Session) Forget() { s.hasTried = false }

// BeginUpdate opens a gesture session for n and snapshots every record's row
// so that float-mode packing can restore widgets pushed aside by the drag.
// Calling it again for the same record returns the open session.
func (e *Engine) BeginUpdate(n *Node) *Session {
	if e.session != nil && e.session.node == n {
		return e.session
	}
	e.session = &Session{node: n}
	e.packY = make(map[string]int, len(e.nodes))
	for _, x := range e.nodes {
		e.packY[x.ID] = x.Y
	}
	return e.session
}

// EndUpdate closes the open session, if any. The row snapshot is kept until
// the next session so gravity keeps restoring displaced widgets.
func (e *Engine) EndUpdate() {
	e.session = nil
}

// Session returns the open gesture session, or nil.
func (e *Engine) Session() *Session { return e.session }

func (e *Engine) isUpdating(n *Node) bool {
	return e.session != nil && e.session.node == n
}

func (e *Engine) isMoving(n *Node) bool {
	return e.isUpdating(n) && e.session.Moving
}

func (e *Engine) isTemporarilyRemoved(n *Node) bool {
	return e.isUpdating(n) && e.session.TemporarilyRemoved
}
