// Package grid implements a column grid layout engine for dashboard-style
// widget boards.
//
// # Overview
//
// A grid has a fixed number of columns and an optional row limit. Widgets
// occupy integer rectangles on it. The [Engine] owns the authoritative list
// of widget records ([Node]) and keeps it consistent while widgets are added,
// removed, moved, resized, reloaded and rescaled to a different column count.
//
// The engine is a pure state machine. It never renders anything; collaborators
// are told which records changed through the [Options.OnChange] callback and
// read the committed geometry back from the records.
//
// # Placement Rules
//
// Two rectangles collide when they share any cell. Edges that merely touch do
// not collide:
//
//	a := grid.Rect{X: 0, Y: 0, W: 3, H: 2}
//	b := grid.Rect{X: 3, Y: 0, W: 3, H: 2}
//	a.Intersects(b) // false
//
// When a move lands on other widgets the engine pushes them below the moving
// widget, or moves the widget past a locked one. Unless float mode is on,
// gravity then lifts every unlocked widget as high as it can go. Locked
// widgets are never displaced by others and never packed.
//
// # Transactions
//
// [Engine.BatchUpdate] and [Engine.Commit] bracket a group of mutations.
// Inside a batch, packing and change notifications are deferred and float
// mode is forced on so intermediate states do not shuffle the board. The
// commit packs once and fires one notification with every dirty record.
//
// Interactive gestures use a separate [Session] opened with
// [Engine.BeginUpdate]. The session knows which record is being dragged and
// lets gravity restore widgets that were pushed aside during the drag.
//
// # Column Changes
//
// [Engine.UpdateNodeWidths] rescales the board to a new column count. Each
// column count visited is remembered in a layout cache so that going
// 12 → 1 → 12 restores the original arrangement exactly.
//
// # Concurrency
//
// An Engine is not safe for concurrent use. All methods are synchronous and
// expected to be called from a single goroutine.
package grid
