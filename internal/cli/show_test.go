package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/gridpack/pkg/grid"
)

func TestRenderGrid(t *testing.T) {
	tests := []struct {
		name    string
		widgets []grid.Widget
		column  int
		maxRow  int
		want    []string
	}{
		{
			name:    "side by side",
			widgets: []grid.Widget{{ID: "a", X: 0, Y: 0, W: 2, H: 1}, {ID: "b", X: 2, Y: 0, W: 1, H: 2}},
			column:  4,
			want:    []string{"aab·", "··b·"},
		},
		{
			name:    "overlap",
			widgets: []grid.Widget{{ID: "a", X: 0, Y: 0, W: 2, H: 1}, {ID: "b", X: 1, Y: 0, W: 2, H: 1}},
			column:  3,
			want:    []string{"a#b"},
		},
		{
			name:    "clipped at the right edge",
			widgets: []grid.Widget{{ID: "a", X: 2, Y: 0, W: 4, H: 1}},
			column:  4,
			want:    []string{"··aa"},
		},
		{
			name:    "rows up to the limit",
			widgets: []grid.Widget{{ID: "a", X: 0, Y: 0, W: 1, H: 1}},
			column:  2,
			maxRow:  2,
			want:    []string{"a·", "··"},
		},
		{
			name:    "zero size counts as one cell",
			widgets: []grid.Widget{{ID: "a", X: 1, Y: 1}},
			column:  2,
			want:    []string{"··", "·a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderGrid(tt.widgets, tt.column, tt.maxRow)
			if want := strings.Join(tt.want, "\n"); got != want {
				t.Errorf("renderGrid() =\n%s\nwant\n%s", got, want)
			}
		})
	}
}

func TestRenderGridEmpty(t *testing.T) {
	if got := renderGrid(nil, 12, 0); got != "" {
		t.Errorf("renderGrid(nil) = %q, want empty", got)
	}
}

func TestWidgetTable(t *testing.T) {
	out := widgetTable([]grid.Widget{
		{ID: "header", X: 0, Y: 0, W: 12, H: 1, Locked: true},
		{ID: "chart", X: 0, Y: 1, W: 6, H: 3, NoResize: true},
	}, 1)

	for _, want := range []string{"header", "chart", "locked", "no-resize"} {
		if !strings.Contains(out, want) {
			t.Errorf("table is missing %q:\n%s", want, out)
		}
	}
}

func TestWidgetFlags(t *testing.T) {
	tests := []struct {
		w    grid.Widget
		want string
	}{
		{grid.Widget{}, ""},
		{grid.Widget{Locked: true}, "locked"},
		{grid.Widget{NoMove: true, NoResize: true}, "no-move,no-resize"},
		{grid.Widget{AutoPosition: true}, "auto"},
	}
	for _, tt := range tests {
		if got := widgetFlags(tt.w); got != tt.want {
			t.Errorf("widgetFlags(%+v) = %q, want %q", tt.w, got, tt.want)
		}
	}
}

func TestShowCommand(t *testing.T) {
	dir := isolate(t)
	input := writeLayoutFile(t, dir, "dash.json", halvesJSON)
	if err := runCLI(t, "show", input); err != nil {
		t.Fatal(err)
	}
}
