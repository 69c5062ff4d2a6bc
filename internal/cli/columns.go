package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridpack/pkg/errors"
	gridio "github.com/matzehuels/gridpack/pkg/io"
	"github.com/matzehuels/gridpack/pkg/pipeline"
)

type columnsFlags struct {
	to       int
	from     int
	mode     string
	domOrder bool
	output   string
}

// columnsCommand creates the columns command for rescaling layouts.
func (c *CLI) columnsCommand() *cobra.Command {
	var f columnsFlags

	cmd := &cobra.Command{
		Use:   "columns <layout.json>...",
		Short: "Rescale layouts to another column count",
		Long: `Rescale layouts to another column count.

Going narrower remembers where every widget was, so rescaling back restores
the original placement exactly. The memory is kept in the column cache (see
'gridpack cache') or, when the layout file carries a "layouts" section, in
the file itself.

Modes:
  moveScale  scale x and w proportionally (default)
  move       keep w, scale x
  scale      scale w, keep x
  none       keep x and w, only clamp them to the grid

Several files are rescaled concurrently. Each result is written to
<input>.c<N>.json unless -o is given for a single input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runColumns(cmd, args, f)
		},
	}

	cmd.Flags().IntVar(&f.to, "to", 0, "target column count")
	cmd.Flags().IntVar(&f.from, "from", 0, "column count the inputs were laid out for (overrides --column and the file)")
	cmd.Flags().StringVar(&f.mode, "mode", "", "rescale mode: moveScale, move, scale, none (default: from config)")
	cmd.Flags().BoolVar(&f.domOrder, "dom-order", false, "stack widgets in file order when going to one column")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file for a single input (default: <input>.c<N>.json, - for stdout)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func (c *CLI) runColumns(cmd *cobra.Command, inputs []string, f columnsFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	if f.output != "" && len(inputs) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "-o needs a single input, got %d", len(inputs))
	}

	co := pipeline.ColumnsOptions{To: f.to, Mode: c.config().LayoutMode, DOMOrder: c.config().OneColumnDOMOrder}
	if cmd.Flags().Changed("mode") {
		co.Mode = f.mode
	}
	if cmd.Flags().Changed("dom-order") {
		co.DOMOrder = f.domOrder
	}
	if _, err := co.Validate(); err != nil {
		return err
	}

	docs := make([]*gridio.Document, len(inputs))
	jobs := make([]pipeline.Job, len(inputs))
	for i, input := range inputs {
		doc, err := readLayout(input)
		if err != nil {
			return err
		}
		opts := c.options(cmd, doc)
		if cmd.Flags().Changed("from") {
			opts.Column = f.from
		}
		docs[i] = doc
		jobs[i] = pipeline.Job{Name: input, Widgets: doc.Widgets, Options: opts}
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	var spinner *Spinner
	if len(jobs) > 1 {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Rescaling %d layouts...", len(jobs)))
		spinner.Start()
	}
	results, err := runner.ColumnsMany(ctx, jobs, co)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	if len(jobs) > 1 {
		prog.done("rescaled layouts", "count", len(jobs), "column", f.to)
	}

	outputs := make([]string, len(results))
	for i, res := range results {
		output := f.output
		if output == "" {
			output = derivedPath(inputs[i], "c"+strconv.Itoa(f.to))
		}
		outputs[i] = output
		if err := writeLayout(output, docs[i], jobs[i].Options.Column, res); err != nil {
			return err
		}
		if output == stdoutPath {
			continue
		}
		printSuccess("Rescaled %s to %d columns", inputs[i], res.Column)
		printFile(output)
		printStats(res)
	}
	if len(results) == 1 && outputs[0] != stdoutPath && jobs[0].Options.Column != f.to {
		printNextStep("Restore the original",
			fmt.Sprintf("gridpack columns %s --to %d", outputs[0], jobs[0].Options.Column))
	}
	return nil
}
