// Package io reads and writes grid layout files.
//
// # Overview
//
// A layout file is JSON. The short form is a bare array of widgets, exactly
// what [grid.Engine.Save] returns:
//
//	[
//	  {"id": "a", "x": 0, "y": 0, "w": 6, "h": 2},
//	  {"id": "b", "x": 6, "y": 0, "w": 6, "h": 1, "locked": true}
//	]
//
// The long form wraps the widgets in a document that also records the grid
// they were laid out for and, optionally, the per-column layout cache:
//
//	{
//	  "grid": {"column": 12, "maxRow": 0, "float": false},
//	  "widgets": [ ... ],
//	  "layouts": {"1": [{"id": "a", "x": 0, "y": 0, "w": 1}]}
//	}
//
// Both forms are accepted by [ReadJSON] and [ImportJSON]. [WriteJSON] writes
// the short form when the document has neither grid settings nor cached
// layouts, so files that started short stay short.
//
// # Widget Fields
//
// Geometry fields are coerced: numeric strings are accepted, fractions are
// floored, and a missing or unparsable x or y marks the widget for automatic
// placement. Numeric ids are turned into strings.
//
// # Concurrency
//
// Functions in this package keep no state and are safe for concurrent use.
package io
