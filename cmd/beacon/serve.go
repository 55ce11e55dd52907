package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Beacon/internal/api"
	"github.com/MikeSquared-Agency/Beacon/internal/config"
	"github.com/MikeSquared-Agency/Beacon/internal/hermes"
	"github.com/MikeSquared-Agency/Beacon/internal/ingest"
	"github.com/MikeSquared-Agency/Beacon/internal/metrics"
	"github.com/MikeSquared-Agency/Beacon/internal/scoring"
	"github.com/MikeSquared-Agency/Beacon/internal/store"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the quality index over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(parent context.Context, opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if opts.verbose {
		level = "debug"
	}
	logger := newLogger(os.Stdout, level, cfg.Logging.Format)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	registry := scoring.NewRegistry(weightSlots(cfg.Scoring.Weights))

	// Database (optional)
	var st store.Store
	if cfg.Database.URL != "" {
		db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()
		st = db
		n, err := store.LoadWeights(ctx, db, registry, logger)
		if err != nil {
			return fmt.Errorf("load weights: %w", err)
		}
		logger.Info("connected to database", "weight_slots", n)
	}

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	publisher := hermes.NewPublisher(hermesClient, logger)
	session := scoring.NewSession(registry, logger)
	loader := ingest.NewLoader(session, logger, m, publisher)
	defer loader.Wait()

	m.ObserveResult(session.Recompute())

	// Background ingests announce the recomputed index themselves; API
	// ingests do so in the handler.
	announce := func(r ingest.Result) {
		res := session.Recompute()
		m.ObserveResult(res)
		publisher.IndexRecomputed(res)
	}

	if hermesClient != nil {
		err := hermesClient.Subscribe(hermes.SubjectReportSubmitted, func(subject string, data []byte) {
			done := loader.Start(ctx, ingest.NewBytesSource("nats", data))
			go func() {
				if r := <-done; r.OK() {
					announce(r)
				}
			}()
		})
		if err != nil {
			logger.Warn("failed to subscribe to report submissions", "subject", hermes.SubjectReportSubmitted, "error", err)
		}
	}

	if interval := cfg.PollInterval(); interval > 0 {
		poller := ingest.NewPoller(loader, ingest.NewRemoteSource(cfg.Fetch.ReportURL, cfg.FetchTimeout()), interval, announce, logger)
		poller.Start(ctx)
		defer poller.Stop()
		logger.Info("report poller started", "url", cfg.Fetch.ReportURL, "interval", interval)
	}

	// API server
	router := api.NewRouter(session, registry, loader, st, publisher, m, cfg, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
	return nil
}
