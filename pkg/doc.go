// Package pkg provides the core libraries for gridpack, a column grid layout
// engine for dashboard-style widget boards.
//
// # Overview
//
// Gridpack keeps a board of rectangular widgets consistent on a grid with a
// fixed column count: collisions are pushed aside, gravity packs widgets
// upward, and layouts can be rescaled to a different column count and back
// without losing the original arrangement. The pkg directory is organized
// into three areas:
//
//  1. Engine: [grid] and [interact]
//  2. Orchestration: [pipeline], [io] and [config]
//  3. Infrastructure: [cache], [server], [observability], [errors] and [buildinfo]
//
// # Architecture
//
// The typical data flow through gridpack:
//
//	layout.json
//	     ↓
//	[io] package (read widgets, grid settings and stored column layouts)
//	     ↓
//	[pipeline] package (restore cached layouts, run the operation)
//	     ↓
//	[grid] package (place, pack and rescale widgets)
//	     ↓
//	layout.json / HTTP response
//
// # Quick Start
//
// Load a board, move a widget and read back what changed:
//
//	import "github.com/matzehuels/gridpack/pkg/grid"
//
//	e := grid.New(grid.Options{Column: 12, Nodes: []grid.Widget{
//	    {ID: "a", X: 0, Y: 0, W: 6, H: 2},
//	    {ID: "b", X: 6, Y: 0, W: 6, H: 2},
//	}})
//	e.MoveNode(e.Node("b"), grid.Rect{X: 0, Y: 0, W: 6, H: 2})
//	for _, w := range e.Save(false) {
//	    fmt.Println(w.ID, w.Rect())
//	}
//
// # Main Packages
//
// ## Engine
//
// [grid] - The layout engine: collision resolution, gravity packing,
// batch transactions, column rescaling with a per-column layout cache, and
// persistence of the board to widget records.
//
// [interact] - Pointer gestures on top of the engine: drag, resize, leaving
// and entering grids, drop and cancel.
//
// ## Orchestration
//
// [pipeline] - Compact, rescale, check and edit operations shared by the CLI
// and the HTTP server. Rescaled layouts are cached per widget set.
//
// [io] - JSON layout documents in short (bare widget array) and full form.
//
// [config] - TOML configuration with environment overrides.
//
// ## Infrastructure
//
// [cache] - Column layout caches: file, Redis, memory and null backends.
//
// [server] - HTTP API exposing the pipeline operations.
//
// [observability] - Hooks for timing pipeline stages and logging them.
//
// [errors] - Error codes shared by every entry point.
//
// [buildinfo] - Version information stamped at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/grid/...     # Specific package
//	go test -run Example ./... # Examples only
//
// [grid]: https://pkg.go.dev/github.com/matzehuels/gridpack/pkg/grid
// [interact]: https://pkg.go.dev/github.com/matzehuels/gridpack/pkg/interact
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/gridpack/pkg/pipeline
// [io]: https://pkg.go.dev/github.com/matzehuels/gridpack/pkg/io
// [config]: https://pkg.go.dev/github.com/matzehuels/gridpack/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/gridpack/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/gridpack/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/gridpack/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/gridpack/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/gridpack/pkg/buildinfo
package pkg
