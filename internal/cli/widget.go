package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridpack/pkg/grid"
)

type addFlags struct {
	id       string
	x, y     int
	w, h     int
	locked   bool
	noMove   bool
	noResize bool
	content  string
	output   string
}

// addCommand creates the add command.
func (c *CLI) addCommand() *cobra.Command {
	var f addFlags

	cmd := &cobra.Command{
		Use:   "add <layout.json>",
		Short: "Add a widget to a layout",
		Long: `Add a widget to a layout.

Without --x and --y the widget goes into the first free slot in reading
order. On a grid with a row limit the command fails when there is no room.
The file is updated in place unless -o is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAdd(cmd, args[0], f)
		},
	}

	cmd.Flags().StringVar(&f.id, "id", "", "widget id (default: generated)")
	cmd.Flags().IntVar(&f.x, "x", 0, "column of the top-left cell")
	cmd.Flags().IntVar(&f.y, "y", 0, "row of the top-left cell")
	cmd.Flags().IntVar(&f.w, "w", 1, "width in columns")
	cmd.Flags().IntVar(&f.h, "h", 1, "height in rows")
	cmd.Flags().BoolVar(&f.locked, "locked", false, "never push or pack the widget")
	cmd.Flags().BoolVar(&f.noMove, "no-move", false, "refuse drags in the editor")
	cmd.Flags().BoolVar(&f.noResize, "no-resize", false, "refuse resizes in the editor")
	cmd.Flags().StringVar(&f.content, "content", "", "opaque content stored with the widget")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: the input, - for stdout)")

	return cmd
}

func (c *CLI) runAdd(cmd *cobra.Command, input string, f addFlags) error {
	ctx := cmd.Context()
	doc, err := readLayout(input)
	if err != nil {
		return err
	}
	opts := c.options(cmd, doc)

	w := grid.Widget{
		ID:       f.id,
		X:        f.x,
		Y:        f.y,
		W:        f.w,
		H:        f.h,
		Locked:   f.locked,
		NoMove:   f.noMove,
		NoResize: f.noResize,
		Content:  f.content,
	}
	w.AutoPosition = !cmd.Flags().Changed("x") && !cmd.Flags().Changed("y")

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Add(ctx, doc.Widgets, opts, w)
	if err != nil {
		return err
	}

	output := f.output
	if output == "" {
		output = input
	}
	if err := writeLayout(output, doc, opts.Column, res); err != nil {
		return err
	}
	if output != stdoutPath {
		added := addedWidget(doc.Widgets, res.Widgets)
		printSuccess("Added %s at %d,%d (%dx%d)", added.ID, added.X, added.Y, added.W, added.H)
		printFile(output)
		printStats(res)
	}
	return nil
}

// addedWidget finds the widget in after whose id is not in before.
func addedWidget(before, after []grid.Widget) grid.Widget {
	seen := make(map[string]bool, len(before))
	for _, w := range before {
		seen[w.ID] = true
	}
	for _, w := range after {
		if !seen[w.ID] {
			return w
		}
	}
	return grid.Widget{}
}

type moveFlags struct {
	x, y   int
	w, h   int
	output string
}

// moveCommand creates the move command.
func (c *CLI) moveCommand() *cobra.Command {
	var f moveFlags

	cmd := &cobra.Command{
		Use:   "move <layout.json> <id>",
		Short: "Move or resize one widget",
		Long: `Move or resize one widget, pushing the others out of the way.

A move the grid cannot take, for example one that would grow a grid with a
row limit past it, leaves the layout unchanged. The file is updated in place
unless -o is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMove(cmd, args[0], args[1], f)
		},
	}

	cmd.Flags().IntVar(&f.x, "x", 0, "target column")
	cmd.Flags().IntVar(&f.y, "y", 0, "target row")
	cmd.Flags().IntVar(&f.w, "w", 0, "new width (default: unchanged)")
	cmd.Flags().IntVar(&f.h, "h", 0, "new height (default: unchanged)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: the input, - for stdout)")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")

	return cmd
}

func (c *CLI) runMove(cmd *cobra.Command, input, id string, f moveFlags) error {
	ctx := cmd.Context()
	doc, err := readLayout(input)
	if err != nil {
		return err
	}
	opts := c.options(cmd, doc)

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Move(ctx, doc.Widgets, opts, id, grid.Rect{X: f.x, Y: f.y, W: f.w, H: f.h})
	if err != nil {
		return err
	}
	if len(res.Changed) == 0 {
		printWarning("%s stays where it is", id)
		return nil
	}

	output := f.output
	if output == "" {
		output = input
	}
	if err := writeLayout(output, doc, opts.Column, res); err != nil {
		return err
	}
	if output != stdoutPath {
		printSuccess("Moved %s", id)
		printFile(output)
		printStats(res)
	}
	return nil
}
