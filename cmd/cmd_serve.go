package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/peerhire/internal/adapters/http/api"
	"github.com/okian/peerhire/internal/adapters/http/swagger"
	"github.com/okian/peerhire/internal/adapters/reload"
	"github.com/okian/peerhire/internal/config"
	"github.com/okian/peerhire/internal/supervisor"
	"github.com/okian/peerhire/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeoutMargin    = 5 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func newServeCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until SIGINT or SIGTERM.

The corpus is loaded from data_dir; a seeded sample is generated there first
when generate_if_missing is set and the files are absent. With watch_data the
snapshot is rebuilt whenever a corpus file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := flags.setup(ctx, cmd)
			if err != nil {
				return err
			}
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	svc, loader, err := startService(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Stop()

	tree := supervisor.NewTree(logger.Slog(), supervisor.TreeConfig{ShutdownTimeout: shutdownTimeout})

	if cfg.WatchData {
		trigger := reload.NewTrigger()
		defer func() { _ = trigger.Close() }()
		tree.AddDataService(supervisor.Named("reload-worker",
			reload.NewWorker(trigger, svc, reload.WithDebounce(cfg.ReloadDebounce))))
		tree.AddDataService(supervisor.Named("data-watcher",
			reload.NewWatcher(loader.Dir, loader.Files(), trigger)))
	}

	server := api.NewServer(svc,
		api.WithVersion(version),
		api.WithDefaults(cfg.DefaultLimit, cfg.CFWeight),
		api.WithCORSOrigins(cfg.Origins()),
		api.WithRateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow),
		api.WithRequestTimeout(cfg.RequestTimeout),
		api.WithDocs(swagger.Register),
	)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(ctx),
		ReadTimeout:       readTimeout,
		WriteTimeout:      cfg.RequestTimeout + writeTimeoutMargin,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	tree.AddAPIService(supervisor.NewHTTPService(srv, shutdownTimeout))
	tree.AddSystemService(supervisor.NewSystemMetricsService(systemMetricsInterval))

	log.Info(ctx, "starting HTTP server",
		logger.String("addr", cfg.Addr),
		logger.String("dataDir", cfg.DataDir),
		logger.Bool("watchData", cfg.WatchData),
	)
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info(context.Background(), "server stopped")
	return nil
}
