package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/api"
	"github.com/matzehuels/lineage/pkg/observability"
	"github.com/matzehuels/lineage/pkg/store"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve <file>",
		Short: "Serve a family tree over an HTTP JSON API",
		Long: `Load a GEDCOM file once and serve its individuals, families, ancestor
walks and diagnostics over HTTP. Metrics are exposed at /metrics.

Snapshots are stored in MongoDB when store.mongo_uri (or LINEAGE_MONGO_URI)
is set, and in memory otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), args[0], addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, path, addr string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	hooks := observability.NewPrometheusHooks(reg)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	res, err := c.load(ctx, path)
	if err != nil {
		return err
	}

	snapshots, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer snapshots.Close(context.Background())

	srv := api.NewServer(res, api.Options{
		Source:   path,
		Store:    snapshots,
		Gatherer: reg,
		Logger:   c.Logger,
	})

	printSuccess("Serving %s", path)
	printStats(res.Stats.Individuals, res.Stats.Families, res.CacheInfo.LoadHit)
	printDetail("http://%s/api/individuals", displayAddr(addr))
	return srv.Run(ctx, addr, c.Config.Server.ShutdownTimeout)
}

// openStore connects to MongoDB when configured and falls back to an
// in-memory store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg := c.Config.Store
	if cfg.MongoURI == "" {
		c.Logger.Debug("no mongo_uri configured, snapshots are kept in memory")
		return store.NewMemoryStore(), nil
	}
	spin := newSpinnerWithContext(ctx, "Connecting to MongoDB...")
	spin.Start()
	s, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.Database, cfg.Collection)
	spin.Stop()
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("connected to mongodb", "database", cfg.Database, "collection", cfg.Collection)
	return s, nil
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
