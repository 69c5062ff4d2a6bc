// Package interact drives pointer gestures over one or more grid engines.
//
// A [Drag] is one gesture: a widget picked up on its origin grid, moved or
// resized cell by cell, possibly dragged out and into another grid, and
// finally dropped or cancelled. The drag keeps every bit of per-gesture
// state itself, so several drags on different grids can be in flight at
// once without shared globals. Like the engine, a Drag is not safe for
// concurrent use.
package interact

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridpack/pkg/grid"
)

// Kind selects what a gesture changes.
type Kind int

const (
	// Move drags the widget to new cells.
	Move Kind = iota
	// Resize changes the widget's width and height.
	Resize
)

func (k Kind) String() string {
	if k == Resize {
		return "resize"
	}
	return "move"
}

// Outcome describes the effect of one pointer update.
type Outcome int

const (
	// Unchanged means the update was rejected or repeated the last attempt.
	Unchanged Outcome = iota
	// Moved means the widget was placed at the new cells.
	Moved
	// Left means the pointer left the grid and the widget was taken out.
	Left
	// Entered means the widget was put back into a grid it had left.
	Entered
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case Left:
		return "left"
	case Entered:
		return "entered"
	default:
		return "unchanged"
	}
}

var (
	// ErrNotMovable is returned when a move starts on a noMove or locked widget.
	ErrNotMovable = errors.New("interact: widget cannot be moved")
	// ErrNotResizable is returned when a resize starts on a noResize or locked widget.
	ErrNotResizable = errors.New("interact: widget cannot be resized")
	// ErrNotTracked is returned when the widget is not part of the grid.
	ErrNotTracked = errors.New("interact: widget is not on the grid")
	// ErrWouldNotFit is returned by Enter when the target grid has no room.
	ErrWouldNotFit = errors.New("interact: widget does not fit the grid")
	// ErrFinished is returned once the drag has been dropped, cancelled or removed.
	ErrFinished = errors.New("interact: drag already finished")
)

// Drag is an in-flight gesture.
type Drag struct {
	kind   Kind
	origin *grid.Engine
	node   *grid.Node

	current *grid.Engine
	active  *grid.Node
	outside bool
	done    bool

	// guests holds the copies added to foreign grids, keyed by grid.
	guests  map[*grid.Engine]*grid.Node
	touched []*grid.Engine

	logger *log.Logger
}

// Start picks n up on e. It records the grid's baseline, opens an update
// session and, for moves, marks the session as a drag. A nil logger
// discards output.
func Start(e *grid.Engine, n *grid.Node, kind Kind, logger *log.Logger) (*Drag, error) {
	if !e.Tracks(n) {
		return nil, ErrNotTracked
	}
	switch kind {
	case Move:
		if n.NoMove || n.Locked {
			return nil, ErrNotMovable
		}
	case Resize:
		if n.NoResize || n.Locked {
			return nil, ErrNotResizable
		}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	d := &Drag{
		kind:    kind,
		origin:  e,
		node:    n,
		current: e,
		active:  n,
		guests:  make(map[*grid.Engine]*grid.Node),
		logger:  logger,
	}
	d.touch(e)
	s := e.BeginUpdate(n)
	s.Moving = kind == Move

	logger.Debug("drag started", "id", n.ID, "kind", kind, "x", n.X, "y", n.Y, "w", n.W, "h", n.H)
	return d, nil
}

// Node returns the widget picked up on the origin grid.
func (d *Drag) Node() *grid.Node { return d.node }

// Active returns the record currently standing for the widget: the origin
// record, or the copy placed on a foreign grid.
func (d *Drag) Active() *grid.Node { return d.active }

// Grid returns the grid the widget is over, or last left.
func (d *Drag) Grid() *grid.Engine { return d.current }

// Outside reports whether the widget is currently out of every grid.
func (d *Drag) Outside() bool { return d.outside }

// Done reports whether the drag has finished.
func (d *Drag) Done() bool { return d.done }

func (d *Drag) touch(e *grid.Engine) {
	for _, t := range d.touched {
		if t == e {
			return
		}
	}
	e.SaveInitial()
	d.touched = append(d.touched, e)
}

// MoveTo moves the widget's top-left corner to cell (x, y) on the current
// grid. Pointing past the grid takes the widget out; pointing back in while
// outside puts it back.
func (d *Drag) MoveTo(x, y int) Outcome {
	if d.done || d.kind != Move {
		return Unchanged
	}
	n, e := d.active, d.current

	if d.outside {
		if e.IsOutside(x, y, n) {
			return Unchanged
		}
		if err := d.Enter(e, x, y); err != nil {
			return Unchanged
		}
		return Entered
	}

	to := grid.Rect{X: x, Y: y, W: n.W, H: n.H}
	s := e.BeginUpdate(n)
	if s.Tried(to) {
		return Unchanged
	}
	if e.IsOutside(x, y, n) {
		d.leave()
		return Left
	}
	if !e.MoveNodeCheck(n, to) {
		s.Remember(to)
		d.logger.Debug("move rejected", "id", n.ID, "x", x, "y", y)
		return Unchanged
	}
	d.logger.Debug("moved", "id", n.ID, "x", n.X, "y", n.Y)
	return Moved
}

// ResizeTo changes the widget's size, keeping its top-left corner.
func (d *Drag) ResizeTo(w, h int) Outcome {
	if d.done || d.kind != Resize {
		return Unchanged
	}
	n, e := d.active, d.current
	to := grid.Rect{X: n.X, Y: n.Y, W: w, H: h}
	s := e.BeginUpdate(n)
	if s.Tried(to) {
		return Unchanged
	}
	if !e.MoveNodeCheck(n, to) {
		s.Remember(to)
		d.logger.Debug("resize rejected", "id", n.ID, "w", w, "h", h)
		return Unchanged
	}
	d.logger.Debug("resized", "id", n.ID, "w", n.W, "h", n.H)
	return Moved
}

// Leave takes the widget out of the current grid while the gesture keeps
// going. It is a no-op when the widget is already outside.
func (d *Drag) Leave() {
	if d.done || d.outside {
		return
	}
	d.leave()
}

func (d *Drag) leave() {
	e, n := d.current, d.active
	s := e.BeginUpdate(n)
	e.RemoveNode(n, false, false)
	s.TemporarilyRemoved = true
	d.outside = true
	d.logger.Debug("left grid", "id", n.ID)
}

// Enter drops the widget into target at cell (x, y) and continues the
// gesture there. On the origin grid the original record is put back; on any
// other grid a copy is added. Enter fails with [ErrWouldNotFit] when target
// has a row limit the widget would break, leaving the widget outside.
func (d *Drag) Enter(target *grid.Engine, x, y int) error {
	if d.done {
		return ErrFinished
	}
	if !d.outside {
		if target == d.current {
			return nil
		}
		d.leave()
	}

	w := d.node.Widget
	if g := d.guests[target]; g != nil {
		w = g.Widget
	}
	w.X, w.Y = x, y
	w.AutoPosition = false
	if !target.WillItFit(w) {
		d.logger.Debug("does not fit", "id", w.ID, "x", x, "y", y)
		return ErrWouldNotFit
	}

	d.touch(target)
	n := d.guests[target]
	switch {
	case target == d.origin:
		n = d.node
	case n == nil:
		w.Ref = d.node.Ref
		n = &grid.Node{Widget: w}
		d.guests[target] = n
	}
	s := target.BeginUpdate(n)
	s.Moving = d.kind == Move
	s.TemporarilyRemoved = false
	target.InsertNodeAt(n, grid.Rect{X: x, Y: y}, false)

	d.current, d.active, d.outside = target, n, false
	d.logger.Debug("entered grid", "id", n.ID, "x", n.X, "y", n.Y, "column", target.Column())
	return nil
}

// Drop ends the gesture where the widget is. It returns the records on the
// final grid whose geometry differs from the start of the gesture. Dropping
// while outside every grid cancels the drag. When the widget moved to a
// foreign grid, its origin record stays removed from the origin grid.
func (d *Drag) Drop() ([]*grid.Node, error) {
	if d.done {
		return nil, ErrFinished
	}
	if d.outside {
		d.logger.Debug("dropped outside, cancelling", "id", d.node.ID)
		d.Cancel()
		return nil, nil
	}

	changed := d.current.GetDirtyNodes(true)
	if d.current != d.origin {
		d.origin.RemoveFromLayoutCache(d.node)
	}
	for e, g := range d.guests {
		if e != d.current && !e.Tracks(g) {
			e.RemoveFromLayoutCache(g)
		}
	}
	d.finish()

	d.logger.Debug("dropped", "id", d.active.ID, "x", d.active.X, "y", d.active.Y, "changed", len(changed))
	return changed, nil
}

// Remove ends the gesture by deleting the widget from every grid it touched.
func (d *Drag) Remove() error {
	if d.done {
		return ErrFinished
	}
	for e, g := range d.guests {
		if e.Tracks(g) {
			e.RemoveNode(g, true, true)
		} else {
			e.RemoveFromLayoutCache(g)
		}
	}
	if d.origin.Tracks(d.node) {
		d.origin.RemoveNode(d.node, true, true)
	} else {
		d.origin.RemoveFromLayoutCache(d.node)
	}
	d.finish()
	d.logger.Debug("removed", "id", d.node.ID)
	return nil
}

// Cancel undoes the gesture: copies on foreign grids are removed, the
// widget goes back to its origin grid and every touched grid is restored to
// its baseline.
func (d *Drag) Cancel() {
	if d.done {
		return
	}
	for e, g := range d.guests {
		if e.Tracks(g) {
			e.RemoveNode(g, true, false)
		}
	}
	if !d.origin.Tracks(d.node) {
		if r, ok := d.node.Initial(); ok {
			d.origin.InsertNodeAt(d.node, r, false)
		} else {
			d.origin.InsertNode(d.node, false)
		}
	}
	for _, e := range d.touched {
		e.RestoreInitial()
	}
	d.current, d.active, d.outside = d.origin, d.node, false
	d.finish()
	d.logger.Debug("cancelled", "id", d.node.ID)
}

func (d *Drag) finish() {
	for _, e := range d.touched {
		if changed := e.GetDirtyNodes(true); len(changed) > 0 {
			e.LayoutsNodesChange(changed)
		}
		e.CleanNodes()
		e.SaveInitial()
		e.EndUpdate()
	}
	d.done = true
}
