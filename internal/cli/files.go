package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/gridpack/pkg/errors"
	gridio "github.com/matzehuels/gridpack/pkg/io"
	"github.com/matzehuels/gridpack/pkg/pipeline"
)

// stdoutPath as an output file writes the layout to standard output.
const stdoutPath = "-"

// readLayout loads a layout file.
func readLayout(path string) (*gridio.Document, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "layout file %s does not exist", path)
	}
	doc, err := gridio.ImportJSON(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "read layout")
	}
	return doc, nil
}

// writeLayout stores res next to what was read from in. The grid settings
// are recorded when the input carried them or when the column count
// changed away from inColumn; the column cache is kept when the input
// carried one.
func writeLayout(path string, in *gridio.Document, inColumn int, res *pipeline.Result) error {
	out := &gridio.Document{Widgets: res.Widgets}
	if in.Grid != nil || res.Column != inColumn {
		spec := gridio.GridSpec{}
		if in.Grid != nil {
			spec = *in.Grid
		}
		spec.Column = res.Column
		out.Grid = &spec
	}
	if in.Layouts != nil {
		out.Layouts = res.Layouts
	}

	if path == stdoutPath {
		return gridio.WriteJSON(out, os.Stdout)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return gridio.ExportJSON(out, path)
}

// derivedPath turns "dash.json" into "dash.<suffix>.json".
func derivedPath(input, suffix string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "." + suffix + ".json"
}
