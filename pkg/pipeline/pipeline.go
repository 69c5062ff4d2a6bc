// Package pipeline runs layout operations for the CLI and the HTTP API.
//
// Every operation follows the same steps: load the widgets into a fresh
// [grid.Engine], restore the layout's column cache from a [cache.Cache],
// apply the operation, then store the updated column cache and return the
// saved widgets. Centralizing this keeps both entry points consistent.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Columns(ctx, widgets, pipeline.Options{Column: 12},
//	    pipeline.ColumnsOptions{To: 1})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Changed)
//
// The engine itself does not log or fail; the runner adds structured
// logging, error codes from [errors] and [observability] events.
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridpack/pkg/errors"
	"github.com/matzehuels/gridpack/pkg/grid"
)

// Operation names reported to logs and hooks.
const (
	OpCompact = "compact"
	OpColumns = "columns"
	OpCheck   = "check"
	OpAdd     = "add"
	OpMove    = "move"
)

// DefaultConcurrency bounds [Runner.ColumnsMany].
const DefaultConcurrency = 4

// =============================================================================
// Options
// =============================================================================

// Options describes the grid the widgets live on.
type Options struct {
	Column int  `json:"column,omitempty"`
	MaxRow int  `json:"maxRow,omitempty"`
	Float  bool `json:"float,omitempty"`

	// Layouts seeds the engine's column cache, for example from a layout
	// file that carries its own. When set, the stored cache is not read.
	Layouts map[int][]grid.LayoutEntry `json:"-"`
	// NoCache skips loading and storing the column cache.
	NoCache bool `json:"-"`
	// Logger overrides the runner's logger for one call.
	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults fills in the default column count and checks the
// grid size. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Column == 0 {
		o.Column = grid.DefaultColumn
	}
	if err := errors.ValidateColumn(o.Column); err != nil {
		return err
	}
	return errors.ValidateMaxRow(o.MaxRow)
}

// GridOptions converts o for [grid.New].
func (o Options) GridOptions() grid.Options {
	return grid.Options{Column: o.Column, MaxRow: o.MaxRow, Float: o.Float}
}

// ColumnsOptions configures [Runner.Columns].
type ColumnsOptions struct {
	// To is the target column count.
	To int `json:"to"`
	// Mode is a [grid.LayoutMode] name; empty means moveScale.
	Mode string `json:"mode,omitempty"`
	// DOMOrder stacks widgets in their input order when going to one
	// column.
	DOMOrder bool `json:"domOrder,omitempty"`
}

// Validate checks the target column count and the mode.
func (o ColumnsOptions) Validate() (grid.LayoutMode, error) {
	if err := errors.ValidateColumn(o.To); err != nil {
		return "", err
	}
	return errors.ValidateLayoutMode(o.Mode)
}

// Job is one layout processed by [Runner.ColumnsMany].
type Job struct {
	Name    string
	Widgets []grid.Widget
	Options Options
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of one operation.
type Result struct {
	// Widgets is the saved layout in reading order.
	Widgets []grid.Widget `json:"widgets"`
	// Changed lists the ids whose geometry differs from the input.
	Changed []string `json:"changed"`
	// Row is the number of occupied rows.
	Row int `json:"row"`
	// Column is the column count of Widgets.
	Column int `json:"column"`
	// Violations is set by [Runner.Check].
	Violations []grid.Violation `json:"violations,omitempty"`
	// CacheHit reports whether a stored column cache was used.
	CacheHit bool `json:"cacheHit"`
	// Layouts is the column cache after the operation.
	Layouts map[int][]grid.LayoutEntry `json:"layouts,omitempty"`

	Duration time.Duration `json:"-"`
}

func changedIDs(nodes []*grid.Node) []string {
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	return ids
}
