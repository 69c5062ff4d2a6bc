package grid

// Save returns the persisted form of every record in reading order.
// Collaborator handles (Widget.Ref) are included only when withRef is set.
func (e *Engine) Save(withRef bool) []Widget {
	e.sortNodes(1)
	out := make([]Widget, 0, len(e.nodes))
	for _, n := range e.nodes {
		w := n.Widget
		w.AutoPosition = false
		if !withRef {
			w.Ref = nil
		}
		out = append(out, w)
	}
	return out
}

// Load reconciles the engine with widgets in one transaction. Records whose
// id matches a widget are updated in place. With addAndRemove set, records
// missing from widgets are removed and widgets with unknown ids are added;
// otherwise those are ignored.
//
// When the widgets extend past the current column count they are assumed to
// come from a wider grid, and their placement is cached under that width so
// switching back to it restores them exactly.
func (e *Engine) Load(widgets []Widget, addAndRemove bool) {
	items := append([]Widget(nil), widgets...)
	SortWidgets(items, -1, e.column)

	wider := 0
	for _, w := range items {
		if !w.AutoPosition && w.X+w.W > e.column {
			wider = max(wider, w.X+w.W)
		}
	}
	if wider > 0 {
		entries := make([]LayoutEntry, 0, len(items))
		for _, w := range items {
			if w.ID == "" || w.AutoPosition {
				continue
			}
			entries = append(entries, LayoutEntry{ID: w.ID, X: w.X, Y: w.Y, W: w.W})
		}
		e.cacheEntries(wider, entries, false)
	}

	ids := make(map[string]bool, len(items))
	for _, w := range items {
		if w.ID != "" {
			ids[w.ID] = true
		}
	}

	e.BatchUpdate()
	if addAndRemove {
		for _, n := range e.Nodes() {
			if !ids[n.ID] {
				e.RemoveNode(n, true, true)
			}
		}
	}
	for _, w := range items {
		if n := e.Node(w.ID); n != nil {
			e.Update(n, w)
		} else if addAndRemove {
			e.AddNode(w, true)
		}
	}
	e.Commit()
}
