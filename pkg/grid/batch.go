package grid

// BatchUpdate opens a transaction. Until [Engine.Commit], packing and change
// notifications are deferred and float mode is forced on. Nested calls are
// no-ops.
func (e *Engine) BatchUpdate() {
	if e.batchMode {
		return
	}
	e.batchMode = true
	e.prevFloat = e.float
	e.float = true
}

// Commit closes the transaction opened by [Engine.BatchUpdate]: it restores
// float mode, packs once and fires a single notification carrying the
// records removed during the batch and every dirty record. The added and
// removed accumulators are drained afterwards.
func (e *Engine) Commit() {
	if !e.batchMode {
		return
	}
	e.batchMode = false
	e.float = e.prevFloat
	e.packNodes()

	removeDOM := false
	for _, n := range e.removedNodes {
		removeDOM = removeDOM || n.removeDOM
	}
	e.notify(e.removedNodes, removeDOM)
	e.drain()
}

// GetDirtyNodes returns the records flagged dirty. With verify set, records
// whose geometry equals their [Engine.SaveInitial] baseline are left out,
// so a widget that moved away and back within a transaction is not
// reported. Records without a baseline are always reported.
func (e *Engine) GetDirtyNodes(verify bool) []*Node {
	var out []*Node
	for _, n := range e.nodes {
		if !n.dirty {
			continue
		}
		if verify && !n.changed() {
			continue
		}
		out = append(out, n)
	}
	return out
}

// SaveInitial records every record's geometry as its baseline and clears the
// dirty flags.
func (e *Engine) SaveInitial() {
	for _, n := range e.nodes {
		n.orig = n.Rect()
		n.hasOrig = true
		n.dirty = false
	}
}

// RestoreInitial moves every record back to its baseline and notifies.
func (e *Engine) RestoreInitial() {
	for _, n := range e.nodes {
		if !n.hasOrig || n.orig == n.Rect() {
			continue
		}
		n.setRect(n.orig)
		n.dirty = true
	}
	e.notify(nil, false)
}

// CleanNodes clears the dirty flags and the open session's last attempted
// placement. It is a no-op inside a batch.
func (e *Engine) CleanNodes() {
	if e.batchMode {
		return
	}
	for _, n := range e.nodes {
		n.dirty = false
	}
	if e.session != nil {
		e.session.Forget()
	}
}
