package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/gridpack/pkg/grid"
)

// GridSpec records the grid a layout was produced for. Zero fields are
// unset and fall back to the caller's configuration.
type GridSpec struct {
	Column int   `json:"column,omitempty"`
	MaxRow int   `json:"maxRow,omitempty"`
	Float  *bool `json:"float,omitempty"`
}

// Document is a layout file.
type Document struct {
	Grid    *GridSpec                  `json:"grid,omitempty"`
	Widgets []grid.Widget              `json:"widgets"`
	Layouts map[int][]grid.LayoutEntry `json:"layouts,omitempty"`
}

// Apply copies the document's grid settings onto opts, leaving unset ones
// alone.
func (d *Document) Apply(opts *grid.Options) {
	if d.Grid == nil {
		return
	}
	if d.Grid.Column > 0 {
		opts.Column = d.Grid.Column
	}
	if d.Grid.MaxRow > 0 {
		opts.MaxRow = d.Grid.MaxRow
	}
	if d.Grid.Float != nil {
		opts.Float = *d.Grid.Float
	}
}

// short reports whether the document can be written as a bare array.
func (d *Document) short() bool {
	return d.Grid == nil && len(d.Layouts) == 0
}

// WriteJSON encodes doc to w, indented by two spaces.
func WriteJSON(doc *Document, w io.Writer) error {
	var v any = doc
	if doc.short() {
		v = doc.Widgets
		if doc.Widgets == nil {
			v = []grid.Widget{}
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes doc to a file at path.
func ExportJSON(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(doc, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
