package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridpack/pkg/observability"
	"github.com/matzehuels/gridpack/pkg/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout operations over HTTP",
		Long: `Serve the layout operations as a JSON HTTP API.

Routes:
  GET  /health
  POST /v1/layouts/compact
  POST /v1/layouts/columns
  POST /v1/layouts/check
  POST /v1/layouts/add
  POST /v1/layouts/move

Requests that omit grid settings use the configured ones. Point several
servers at one Redis cache (cache_backend = "redis") to share column caches.
Run with --verbose to log every operation, cache lookup and request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.config().ListenAddr
			}

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			observability.NewLogHooks(c.Logger).Install()
			defer observability.Reset()

			srv := server.New(runner, server.Options{
				Defaults: c.options(cmd, nil),
				Logger:   c.Logger,
			})
			printInfo("Listening on %s", addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: from config, :8080)")

	return cmd
}
