package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/compgraph/internal/config"
	"github.com/matzehuels/compgraph/internal/server"
	"github.com/matzehuels/compgraph/pkg/observability"
)

func (c *CLI) serveCommand() *cobra.Command {
	var noMetrics bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the editor HTTP API",
		Long: `Serve the editor HTTP API.

Every request carries its graph in ?data=, so the server keeps no state and
any number of replicas can run behind a load balancer. Point --redis-addr at
a shared Redis to share rendered SVGs between replicas.

Routes:
  GET    /api/graph                        decode ?data=
  GET    /api/layout                       layout JSON
  GET    /render.svg                       Graphviz SVG
  POST   /api/components                   add a component
  PATCH  /api/components/{id}              rename, move, re-prop
  DELETE /api/components/{id}              delete, orphaning children
  POST   /api/components/{id}/props        add a prop
  DELETE /api/components/{id}/props/{name} remove a prop
  GET    /metrics                          Prometheus metrics
  GET    /healthz                          liveness`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.cfg()
			runner, err := c.newRunner(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			var metrics *server.Metrics
			if !noMetrics {
				metrics = server.NewMetrics()
				metrics.Install()
				defer observability.Reset()
			}

			opts := cfg.PipelineOptions()
			opts.Logger = c.Logger
			srv := server.New(server.Config{
				Addr:    cfg.Addr,
				BaseURL: cfg.BaseURL,
				Options: opts,
				Runner:  runner,
				Metrics: metrics,
				Logger:  c.Logger,
			})
			printInfo("Serving on %s", StyleLink.Render("http://"+cfg.Addr))
			return srv.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().String(config.KeyAddr, config.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable /metrics")
	return cmd
}
