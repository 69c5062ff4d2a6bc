package grid

import (
	"fmt"
	"math"
)

// LayoutEntry is one cached placement. Heights are not cached; they carry
// over from the live record.
type LayoutEntry struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
	W  int    `json:"w"`
}

// LayoutMode selects how records without a cached placement are adapted
// when the column count changes.
type LayoutMode string

const (
	// LayoutMove scales x by the column ratio and clamps w.
	LayoutMove LayoutMode = "move"
	// LayoutScale clamps x and scales w by the column ratio.
	LayoutScale LayoutMode = "scale"
	// LayoutMoveScale scales both x and w. This is the default.
	LayoutMoveScale LayoutMode = "moveScale"
	// LayoutNone keeps x and w; records are only clamped into the grid.
	LayoutNone LayoutMode = "none"
)

// ParseLayoutMode converts a mode name, accepting the empty string as
// [LayoutMoveScale].
func ParseLayoutMode(s string) (LayoutMode, error) {
	switch LayoutMode(s) {
	case "":
		return LayoutMoveScale, nil
	case LayoutMove, LayoutScale, LayoutMoveScale, LayoutNone:
		return LayoutMode(s), nil
	}
	return "", fmt.Errorf("unknown layout mode %q (want move, scale, moveScale or none)", s)
}

// ColumnFunc positions the records that have no cached placement for the
// new column count. It mutates unresolved in place; resolved holds records
// already placed from the cache, for reference.
type ColumnFunc func(newColumn, oldColumn int, resolved, unresolved []*Node)

// ColumnOpts tunes [Engine.UpdateNodeWidths].
type ColumnOpts struct {
	// Mode is used for records with no cached placement. Defaults to
	// [LayoutMoveScale].
	Mode LayoutMode
	// Custom replaces Mode when set. It is not called when DOMOrder applies.
	Custom ColumnFunc
	// DOMOrder, when going to a single column, stacks records in this order
	// instead of reading order, ignoring any cached single-column layout.
	// Untracked records are ignored and tracked records missing from it
	// follow in reading order.
	DOMOrder []*Node
}

// =============================================================================
// Layout Cache
// =============================================================================

// CacheLayout stores the placement of nodes under column. With clear set,
// every other cached column is dropped first.
func (e *Engine) CacheLayout(nodes []*Node, column int, clear bool) {
	entries := make([]LayoutEntry, 0, len(nodes))
	for _, n := range nodes {
		if n.ID == "" {
			n.ID = e.newID()
		}
		entries = append(entries, LayoutEntry{ID: n.ID, X: n.X, Y: n.Y, W: n.W})
	}
	e.cacheEntries(column, entries, clear)
}

func (e *Engine) cacheEntries(column int, entries []LayoutEntry, clear bool) {
	if clear || e.layouts == nil {
		e.layouts = make(map[int][]LayoutEntry)
	}
	e.layouts[column] = entries
}

// CacheOneLayout records n's current placement in the cache for column,
// replacing any earlier entry for it.
func (e *Engine) CacheOneLayout(n *Node, column int) {
	if n.ID == "" {
		n.ID = e.newID()
	}
	if e.layouts == nil {
		e.layouts = make(map[int][]LayoutEntry)
	}
	entry := LayoutEntry{ID: n.ID, X: n.X, Y: n.Y, W: n.W}
	layout := e.layouts[column]
	for i := range layout {
		if layout[i].ID == n.ID {
			layout[i] = entry
			return
		}
	}
	e.layouts[column] = append(layout, entry)
}

// RemoveFromLayoutCache forgets n in every cached column.
func (e *Engine) RemoveFromLayoutCache(n *Node) {
	if n == nil || n.ID == "" {
		return
	}
	for column, layout := range e.layouts {
		kept := layout[:0:0]
		for _, entry := range layout {
			if entry.ID != n.ID {
				kept = append(kept, entry)
			}
		}
		e.layouts[column] = kept
	}
}

// LayoutsNodesChange propagates user edits of nodes to the cached layouts:
// narrower caches are dropped so they regenerate, wider ones shift by the
// same amount vertically and rescale horizontally. Nodes need a baseline
// from [Engine.SaveInitial]; nodes without one, or without a cached entry,
// are skipped.
func (e *Engine) LayoutsNodesChange(nodes []*Node) {
	for column, layout := range e.layouts {
		if column == e.column {
			continue
		}
		if column < e.column {
			delete(e.layouts, column)
			continue
		}
		ratio := float64(column) / float64(e.column)
		for _, n := range nodes {
			if !n.hasOrig {
				continue
			}
			for i := range layout {
				entry := &layout[i]
				if entry.ID != n.ID {
					continue
				}
				if n.Y != n.orig.Y {
					entry.Y += n.Y - n.orig.Y
				}
				if n.X != n.orig.X {
					entry.X = round(float64(n.X) * ratio)
				}
				if n.W != n.orig.W {
					entry.W = round(float64(n.W) * ratio)
				}
			}
		}
	}
}

// LayoutCache returns a deep copy of the cached layouts keyed by column.
func (e *Engine) LayoutCache() map[int][]LayoutEntry {
	out := make(map[int][]LayoutEntry, len(e.layouts))
	for column, layout := range e.layouts {
		out[column] = append([]LayoutEntry(nil), layout...)
	}
	return out
}

// SetLayoutCache replaces the cached layouts, e.g. with ones persisted from
// an earlier session.
func (e *Engine) SetLayoutCache(layouts map[int][]LayoutEntry) {
	e.layouts = make(map[int][]LayoutEntry, len(layouts))
	for column, layout := range layouts {
		e.layouts[column] = append([]LayoutEntry(nil), layout...)
	}
}

// =============================================================================
// Column Changes
// =============================================================================

// SetColumn switches the engine to column columns, relaying out the board
// with [Engine.UpdateNodeWidths].
func (e *Engine) SetColumn(column int, opts ColumnOpts) {
	if column <= 0 || column == e.column {
		return
	}
	e.UpdateNodeWidths(e.column, column, opts)
}

// UpdateNodeWidths relays the board out for a change from oldColumn to
// newColumn columns and makes newColumn the engine's column count.
//
// The current placement is cached under oldColumn first. Records with a
// cached placement for newColumn adopt it verbatim. When growing to a
// column count that was never cached, the widest cached layout seeds the
// placement instead. Remaining records go through opts.Custom or opts.Mode.
// Locked records keep their x and w, clamped to the new grid.
func (e *Engine) UpdateNodeWidths(oldColumn, newColumn int, opts ColumnOpts) {
	if len(e.nodes) == 0 || oldColumn == newColumn || newColumn <= 0 {
		if newColumn > 0 {
			e.column = newColumn
		}
		return
	}

	e.CacheLayout(e.nodes, oldColumn, false)

	var nodes []*Node
	domOrder := newColumn == 1 && len(opts.DOMOrder) > 0
	if domOrder {
		top := 0
		seen := make(map[*Node]bool, len(opts.DOMOrder))
		for _, n := range opts.DOMOrder {
			if !e.Tracks(n) || seen[n] {
				continue
			}
			seen[n] = true
			n.X, n.W = 0, 1
			n.Y = max(n.Y, top)
			top = n.Y + n.H
			nodes = append(nodes, n)
		}
		var rest []*Node
		for _, n := range e.nodes {
			if !seen[n] {
				rest = append(rest, n)
			}
		}
		SortNodes(rest, 1, oldColumn)
		for _, n := range rest {
			n.X, n.W = 0, 1
			n.Y = max(n.Y, top)
			top = n.Y + n.H
			nodes = append(nodes, n)
		}
	} else {
		nodes = e.Nodes()
		SortNodes(nodes, -1, oldColumn)
	}

	byID := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	cached, ok := e.layouts[newColumn]
	if domOrder {
		// the stacking above is final
		cached = nil
	} else if !ok && newColumn > oldColumn {
		// no cache for the target: borrow the widest cached layout
		largest := 0
		for column := range e.layouts {
			largest = max(largest, column)
		}
		if largest > newColumn {
			for _, entry := range e.layouts[largest] {
				if n := byID[entry.ID]; n != nil {
					n.X, n.Y, n.W = entry.X, entry.Y, entry.W
				}
			}
			oldColumn = largest
		}
	}

	var resolved []*Node
	placed := make(map[*Node]bool)
	for _, entry := range cached {
		n := byID[entry.ID]
		if n == nil || placed[n] {
			continue
		}
		n.X, n.Y, n.W = entry.X, entry.Y, entry.W
		placed[n] = true
		resolved = append(resolved, n)
	}

	var unresolved []*Node
	for _, n := range nodes {
		if !placed[n] {
			unresolved = append(unresolved, n)
		}
	}

	if len(unresolved) > 0 {
		switch {
		case domOrder:
		case opts.Custom != nil:
			opts.Custom(newColumn, oldColumn, resolved, unresolved)
		default:
			scaleNodes(unresolved, oldColumn, newColumn, opts.Mode)
		}
		resolved = append(resolved, unresolved...)
	}

	SortNodes(resolved, -1, newColumn)
	e.column = newColumn
	e.BatchUpdate()
	e.nodes = nil
	for _, n := range resolved {
		e.addNode(n, false)
		n.dirty = true
	}
	e.Commit()
}

func scaleNodes(nodes []*Node, oldColumn, newColumn int, mode LayoutMode) {
	switch mode {
	case "":
		mode = LayoutMoveScale
	case LayoutNone:
		return
	}
	move := mode == LayoutMove || mode == LayoutMoveScale
	scale := mode == LayoutScale || mode == LayoutMoveScale
	ratio := float64(newColumn) / float64(oldColumn)

	for _, n := range nodes {
		if n.Locked {
			n.X = min(n.X, newColumn-1)
			n.W = min(n.W, newColumn)
			continue
		}
		switch {
		case newColumn == 1:
			n.X = 0
		case move:
			n.X = round(float64(n.X) * ratio)
		default:
			n.X = min(n.X, newColumn-1)
		}
		switch {
		case newColumn == 1 || oldColumn == 1:
			n.W = 1
		case scale:
			n.W = max(round(float64(n.W)*ratio), 1)
		default:
			n.W = min(n.W, newColumn)
		}
	}
}

func round(f float64) int { return int(math.Round(f)) }
