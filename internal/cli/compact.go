package cli

import (
	"github.com/spf13/cobra"
)

// compactCommand creates the compact command.
func (c *CLI) compactCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "compact <layout.json>",
		Short: "Pack widgets toward the top of the grid",
		Long: `Pack widgets toward the top of the grid.

Locked widgets keep their cells; every other widget is placed again, in
reading order, in the first free slot. The result is written to
<input>.compact.json unless -o is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompact(cmd, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.compact.json, - for stdout)")

	return cmd
}

func (c *CLI) runCompact(cmd *cobra.Command, input, output string) error {
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

	res, err := runner.Compact(ctx, doc.Widgets, opts)
	if err != nil {
		return err
	}

	if output == "" {
		output = derivedPath(input, "compact")
	}
	if err := writeLayout(output, doc, opts.Column, res); err != nil {
		return err
	}
	if output != stdoutPath {
		printSuccess("Compacted %s", input)
		printFile(output)
		printStats(res)
	}
	return nil
}
