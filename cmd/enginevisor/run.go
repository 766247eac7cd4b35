package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/enginevisor/pkg/bootstrap"
	"mercator-hq/enginevisor/pkg/cli"
	"mercator-hq/enginevisor/pkg/config"
	"mercator-hq/enginevisor/pkg/server"
	"mercator-hq/enginevisor/pkg/telemetry/health"
	"mercator-hq/enginevisor/pkg/telemetry/logging"
	"mercator-hq/enginevisor/pkg/telemetry/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Provision and launch the engine",
	Long: `Provision and launch the engine, then stay up serving the health endpoint.

The health endpoint is bound before anything else; if its port is taken the
command fails immediately. A failed download or launch also exits non-zero.
On SIGINT or SIGTERM the heartbeat stops and the health endpoint shuts down.
The engine itself is left running.

Examples:
  # Start with defaults
  enginevisor run

  # Public port from the environment
  SERVER_PORT=8443 enginevisor run

  # Custom config; metrics, /ready and /version on a side port
  enginevisor run --config /etc/enginevisor.yaml`,
	RunE: runEngine,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runEngine(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, os.Stdout))
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	return serve(ctx, cfg, logger)
}

// serve runs the daemon until ctx is cancelled or bootstrap fails.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	collector := metrics.NewCollector(metrics.DefaultNamespace, nil)

	responder := server.NewServer(&cfg.Service, server.WithLogger(logger))
	if err := responder.Listen(); err != nil {
		return cli.NewCommandError("run", err)
	}
	defer responder.Shutdown(context.Background())

	serveCtx, cancelServe := context.WithCancel(ctx)
	defer cancelServe()

	serveErr := make(chan error, 2)
	go func() { serveErr <- responder.Serve(serveCtx) }()

	b := bootstrap.New(cfg,
		bootstrap.WithLogger(logger),
		bootstrap.WithMetrics(collector),
	)
	defer b.Close()

	if addr := cfg.Telemetry.Metrics.ListenAddress; addr != "" {
		checker := health.New(2 * time.Second)
		checker.RegisterCheck("bootstrap", b.Ready)
		checker.RegisterCheck("engine", b.EngineAlive)

		mux := http.NewServeMux()
		mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
		mux.Handle("/ready", checker.ReadinessHandler())
		mux.Handle("/version", health.VersionHandler(Version, GitCommit, BuildDate))

		telemetrySrv := server.NewTelemetryServer(addr, mux, server.WithLogger(logger))
		if err := telemetrySrv.Listen(); err != nil {
			return cli.NewCommandError("run", err)
		}
		defer telemetrySrv.Shutdown(context.Background())
		go func() { serveErr <- telemetrySrv.Serve(serveCtx) }()
	}

	bootErr := make(chan error, 1)
	go func() {
		_, err := b.Run(ctx)
		bootErr <- err
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down", "bootstrap_state", b.State().String())
			return nil
		case err := <-bootErr:
			if err != nil {
				logger.Error("bootstrap failed", "state", b.State().String(), "error", err)
				return cli.NewCommandError("run", err)
			}
			bootErr = nil
		case err := <-serveErr:
			if err != nil {
				return cli.NewCommandError("run", err)
			}
		}
	}
}
