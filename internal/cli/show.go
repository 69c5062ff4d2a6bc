package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridpack/pkg/grid"
)

// Cell markers in a rendered grid.
const (
	cellEmpty   = '·'
	cellOverlap = '#'
)

// widgetMarks label widgets in a rendered grid, cycling by index.
const widgetMarks = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// showCommand creates the show command.
func (c *CLI) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <layout.json>",
		Short: "Draw a layout in the terminal",
		Long: `Draw a layout in the terminal as a character map, one letter per widget,
followed by a table of the widgets. The layout is shown as stored; cells
claimed by more than one widget are marked with #.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readLayout(args[0])
			if err != nil {
				return err
			}
			opts := c.options(cmd, doc)

			fmt.Println(StyleTitle.Render(args[0]) + " " +
				StyleDim.Render(fmt.Sprintf("%d columns, %d widgets", opts.Column, len(doc.Widgets))))
			fmt.Println(styleGridMap(renderGrid(doc.Widgets, opts.Column, opts.MaxRow)))
			fmt.Println(widgetTable(doc.Widgets, -1))
			return nil
		},
	}
}

// renderGrid draws widgets as a character map of column cells per row.
// Widgets reaching past the grid are clipped. With maxRow set, every row up
// to the limit is drawn.
func renderGrid(widgets []grid.Widget, column, maxRow int) string {
	rows := maxRow
	for _, w := range widgets {
		rows = max(rows, w.Y+max(w.H, 1))
	}
	cells := make([][]rune, rows)
	for y := range cells {
		cells[y] = []rune(strings.Repeat(string(cellEmpty), column))
	}

	for i, w := range widgets {
		mark := rune(widgetMarks[i%len(widgetMarks)])
		for y := max(w.Y, 0); y < w.Y+max(w.H, 1) && y < rows; y++ {
			for x := max(w.X, 0); x < w.X+max(w.W, 1) && x < column; x++ {
				if cells[y][x] == cellEmpty {
					cells[y][x] = mark
				} else {
					cells[y][x] = cellOverlap
				}
			}
		}
	}

	lines := make([]string, rows)
	for y, row := range cells {
		lines[y] = string(row)
	}
	return strings.Join(lines, "\n")
}

// styleGridMap colors the marks of a rendered grid and frames it.
func styleGridMap(s string) string {
	return styleGridMapSelected(s, 0)
}

// styleGridMapSelected is styleGridMap with the cells of mark inverted.
func styleGridMapSelected(s string, mark rune) string {
	var b strings.Builder
	for _, r := range s {
		switch i := strings.IndexRune(widgetMarks, r); {
		case r == '\n':
			b.WriteRune(r)
		case r == cellEmpty:
			b.WriteString(StyleDim.Render(string(r)))
		case r == cellOverlap:
			b.WriteString(styleIconError.Render(string(r)))
		case i >= 0:
			style := lipgloss.NewStyle().Foreground(widgetColors[i%len(widgetColors)])
			if r == mark {
				style = style.Reverse(true).Bold(true)
			}
			b.WriteString(style.Render(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorDim).
		Padding(0, 1).
		Render(b.String())
}

// widgetTable lists widgets with their mark and geometry. The row at
// selected is highlighted; pass -1 for none.
func widgetTable(widgets []grid.Widget, selected int) string {
	rows := make([][]string, len(widgets))
	for i, w := range widgets {
		rows[i] = []string{
			string(widgetMarks[i%len(widgetMarks)]),
			w.ID,
			strconv.Itoa(w.X),
			strconv.Itoa(w.Y),
			strconv.Itoa(w.W),
			strconv.Itoa(w.H),
			widgetFlags(w),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("", "ID", "X", "Y", "W", "H", "Flags").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 0 {
				base = base.Foreground(widgetColors[row%len(widgetColors)])
			}
			if row == selected {
				return base.Bold(true).Foreground(colorCyan)
			}
			if col == 6 {
				return base.Foreground(colorGray)
			}
			return base
		})
	return t.Render()
}

func widgetFlags(w grid.Widget) string {
	var flags []string
	if w.Locked {
		flags = append(flags, "locked")
	}
	if w.NoMove {
		flags = append(flags, "no-move")
	}
	if w.NoResize {
		flags = append(flags, "no-resize")
	}
	if w.AutoPosition {
		flags = append(flags, "auto")
	}
	return strings.Join(flags, ",")
}
