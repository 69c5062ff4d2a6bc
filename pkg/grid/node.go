package grid

// Node is the engine's working record for one widget. It embeds the
// persisted [Widget] and adds transient bookkeeping.
//
// Collaborators read geometry from a Node but must not write X/Y/W/H
// directly; all geometry changes go through the [Engine] so that collisions,
// packing and dirty tracking stay consistent.
type Node struct {
	Widget

	dirty     bool
	orig      Rect
	hasOrig   bool
	removed   bool
	removeDOM bool
}

// Dirty reports whether the node changed since the last [Engine.CleanNodes]
// or [Engine.SaveInitial].
func (n *Node) Dirty() bool { return n.dirty }

// Removed reports whether the engine dropped the node. Removed nodes are
// delivered once to the change callback so collaborators can tear down
// whatever they attached to them.
func (n *Node) Removed() bool { return n.removed }

// Initial returns the baseline recorded by [Engine.SaveInitial], if any.
func (n *Node) Initial() (Rect, bool) { return n.orig, n.hasOrig }

// changed reports whether the node moved away from its baseline. Nodes
// without a baseline always count as changed.
func (n *Node) changed() bool {
	return !n.hasOrig || n.orig != n.Rect()
}

// clone returns a detached copy of the node, including its bookkeeping.
func (n *Node) clone() *Node {
	cp := *n
	return &cp
}
