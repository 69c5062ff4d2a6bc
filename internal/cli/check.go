package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridpack/pkg/errors"
	"github.com/matzehuels/gridpack/pkg/pipeline"
)

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <layout.json>",
		Short: "Report overlapping and out-of-grid widgets",
		Long: `Report overlapping and out-of-grid widgets.

The layout is checked as stored, without packing or clamping it. The command
exits with a non-zero status when any problem is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd, args[0])
		},
	}
}

func (c *CLI) runCheck(cmd *cobra.Command, input string) error {
	doc, err := readLayout(input)
	if err != nil {
		return err
	}
	opts := c.options(cmd, doc)

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	res, err := runner.Check(cmd.Context(), doc.Widgets, opts)
	if res == nil {
		return err
	}
	if len(res.Violations) == 0 {
		printSuccess("%s is valid", input)
		printStats(res)
		return nil
	}

	printError("%s has %d problems", input, len(res.Violations))
	for _, v := range res.Violations {
		printDetail("%s", v)
	}
	return errors.Wrap(errors.GetCode(err), err, "%s", input)
}
