package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridpack/internal/cli"
	griderrors "github.com/matzehuels/gridpack/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for layouts that break the grid's rules, 1 otherwise.
func exitCode(err error) int {
	switch griderrors.GetCode(err) {
	case griderrors.ErrCodeOverlap, griderrors.ErrCodeOutOfBounds, griderrors.ErrCodeInvalidLayout:
		return 2
	}
	return 1
}

// errorLine formats err for the terminal, naming the code when there is one.
func errorLine(err error) string {
	if code := griderrors.GetCode(err); code != "" {
		return fmt.Sprintf("Error [%s]: %s", code, strings.TrimPrefix(err.Error(), string(code)+": "))
	}
	return "Error: " + err.Error()
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// the log level is only known once flags are parsed
	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := cli.LogInfo
		if verbose {
			level = cli.LogDebug
		}
		c.SetLogLevel(level)

		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
