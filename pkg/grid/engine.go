package grid

import (
	"github.com/google/uuid"
)

// DefaultColumn is the column count used when [Options.Column] is unset.
const DefaultColumn = 12

// ChangeFunc receives the records that changed since the last notification.
// removeDOM is a hint that the removed records in nodes are gone for good,
// as opposed to being temporarily detached during a drag.
type ChangeFunc func(nodes []*Node, removeDOM bool)

// Options configures a new [Engine].
type Options struct {
	// Column is the number of grid columns. Defaults to [DefaultColumn].
	Column int
	// MaxRow limits the number of rows. Zero means unbounded.
	MaxRow int
	// Float disables gravity: widgets stay where they are put.
	Float bool
	// Nodes are loaded into the engine before it is returned.
	Nodes []Widget
	// OnChange is called after every committed mutation.
	OnChange ChangeFunc
	// NewID generates ids for widgets that arrive without one.
	// Defaults to random UUIDs.
	NewID func() string
}

// Engine is the authoritative model of one grid. See the package
// documentation for the placement rules it enforces.
type Engine struct {
	column int
	maxRow int
	float  bool

	nodes    []*Node
	onChange ChangeFunc
	newID    func() string

	batchMode bool
	prevFloat bool

	addedNodes   []*Node
	removedNodes []*Node

	// layouts caches node positions per column count, see columns.go.
	layouts map[int][]LayoutEntry

	session *Session
	// packY records where each node sat when the current gesture began.
	packY map[string]int
}

// New creates an engine from opts. Nodes listed in opts.Nodes are added in
// one transaction; OnChange is not called for them.
func New(opts Options) *Engine {
	e := &Engine{
		column: opts.Column,
		maxRow: max(opts.MaxRow, 0),
		float:  opts.Float,
		newID:  opts.NewID,
	}
	if e.column <= 0 {
		e.column = DefaultColumn
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}

	if len(opts.Nodes) > 0 {
		e.BatchUpdate()
		for _, w := range opts.Nodes {
			e.AddNode(w, false)
		}
		e.Commit()
		e.drain()
	}
	e.onChange = opts.OnChange
	return e
}

// Column returns the current column count.
func (e *Engine) Column() int { return e.column }

// MaxRow returns the row limit, or 0 when unbounded.
func (e *Engine) MaxRow() int { return e.maxRow }

// Float reports whether gravity is disabled. Inside a batch this reports the
// forced value (true).
func (e *Engine) Float() bool { return e.float }

// BatchMode reports whether a [Engine.BatchUpdate] transaction is open.
func (e *Engine) BatchMode() bool { return e.batchMode }

// SetOnChange replaces the change callback.
func (e *Engine) SetOnChange(fn ChangeFunc) { e.onChange = fn }

// SetFloat toggles float mode. Turning float off packs the board and
// notifies. Inside a batch the value takes effect on commit.
func (e *Engine) SetFloat(float bool) {
	if e.batchMode {
		e.prevFloat = float
		return
	}
	if e.float == float {
		return
	}
	e.float = float
	if !float {
		e.packNodes()
		e.notify(nil, false)
	}
}

// Nodes returns the tracked records in their current internal order.
// The slice is a copy; the records are shared.
func (e *Engine) Nodes() []*Node {
	out := make([]*Node, len(e.nodes))
	copy(out, e.nodes)
	return out
}

// Len returns the number of tracked records.
func (e *Engine) Len() int { return len(e.nodes) }

// Node returns the record with the given id, or nil.
func (e *Engine) Node(id string) *Node {
	if id == "" {
		return nil
	}
	for _, n := range e.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Tracks reports whether n is one of the engine's records.
func (e *Engine) Tracks(n *Node) bool { return e.indexOf(n) >= 0 }

func (e *Engine) indexOf(n *Node) int {
	if n == nil {
		return -1
	}
	for i, x := range e.nodes {
		if x == n {
			return i
		}
	}
	return -1
}

// HasLocked reports whether any tracked record is locked.
func (e *Engine) HasLocked() bool {
	for _, n := range e.nodes {
		if n.Locked {
			return true
		}
	}
	return false
}

// GetRow returns the number of occupied rows: the largest y+h, or 0 for an
// empty grid.
func (e *Engine) GetRow() int {
	row := 0
	for _, n := range e.nodes {
		row = max(row, n.Y+n.H)
	}
	return row
}

// IsAreaEmpty reports whether no record occupies any cell of the area.
// Zero or negative sizes are treated as 1.
func (e *Engine) IsAreaEmpty(x, y, w, h int) bool {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return e.collide(nil, Rect{X: x, Y: y, W: w, H: h}, nil) == nil
}

// AddedNodes returns the records added with trigger set since the last drain.
func (e *Engine) AddedNodes() []*Node { return append([]*Node(nil), e.addedNodes...) }

// RemovedNodes returns the records removed with trigger set since the last drain.
func (e *Engine) RemovedNodes() []*Node { return append([]*Node(nil), e.removedNodes...) }

// DrainChanges returns and clears the added/removed accumulators.
// [Engine.Commit] drains them itself after notifying.
func (e *Engine) DrainChanges() (added, removed []*Node) {
	added, removed = e.addedNodes, e.removedNodes
	e.drain()
	return added, removed
}

func (e *Engine) drain() {
	e.addedNodes = nil
	e.removedNodes = nil
}

// notify delivers extra plus every dirty record to the change callback.
// It does nothing inside a batch.
func (e *Engine) notify(extra []*Node, removeDOM bool) {
	if e.batchMode || e.onChange == nil {
		return
	}
	nodes := append([]*Node(nil), extra...)
	nodes = append(nodes, e.GetDirtyNodes(false)...)
	if len(nodes) == 0 {
		return
	}
	e.onChange(nodes, removeDOM)
}

// clone returns a scratch engine holding copies of nodes, without a change
// callback or layout cache. The returned map links originals to copies.
// The copy has no row limit unless keepMaxRow is set.
func (e *Engine) clone(nodes []*Node, keepMaxRow bool) (*Engine, map[*Node]*Node) {
	c := &Engine{
		column: e.column,
		float:  e.float,
		newID:  e.newID,
		packY:  e.packY,
	}
	if keepMaxRow {
		c.maxRow = e.maxRow
	}
	mapping := make(map[*Node]*Node, len(nodes))
	c.nodes = make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		cp := n.clone()
		mapping[n] = cp
		c.nodes = append(c.nodes, cp)
	}
	if s := e.session; s != nil {
		if cn, ok := mapping[s.node]; ok {
			cs := *s
			cs.node = cn
			c.session = &cs
		}
	}
	return c, mapping
}
