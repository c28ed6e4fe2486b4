package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/dnscache"

	"github.com/solweather/swxgate/internal/app"
	"github.com/solweather/swxgate/internal/cache"
	"github.com/solweather/swxgate/internal/config"
	"github.com/solweather/swxgate/internal/report"
	"github.com/solweather/swxgate/internal/server"
	"github.com/solweather/swxgate/internal/swpc"
	"github.com/solweather/swxgate/internal/telemetry"
	"github.com/solweather/swxgate/internal/worker"
)

func run(configPath string) error {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	slog.Info("starting swxgate", "version", version, "addr", cfg.Server.Addr)

	ctx := context.Background()

	// Cache store
	store := cache.New(cfg.Cache.MaxEntries, cfg.Cache.TTL)

	// Upstream client
	resolver := &dnscache.Resolver{}
	go refreshDNS(ctx, resolver)
	client := swpc.New(cfg.Upstream.BaseURL, cfg.Upstream.UserAgent, &http.Client{
		Transport: swpc.NewTransport(resolver),
		Timeout:   cfg.Upstream.Timeout,
	})

	// Telemetry
	var metrics *telemetry.Metrics
	var metricsHandler http.Handler
	if cfg.Telemetry.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = telemetry.NewMetrics(reg, func() float64 {
			return float64(store.Stats().Size)
		})
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}
	if cfg.Telemetry.Tracing.Enabled {
		shutdown, err := telemetry.SetupTracing(ctx, cfg.Telemetry.Tracing.Endpoint, cfg.Telemetry.Tracing.SampleRate)
		if err != nil {
			return err
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(flushCtx); err != nil {
				slog.Warn("tracer shutdown", "error", err)
			}
		}()
	}

	// Wire services
	fetcher := app.NewFetchService(client, store, swpc.Catalog, cfg.TTLs, metrics)

	memo, err := report.NewMemo(2*cfg.Cache.MaxEntries, cfg.Cache.TTL)
	if err != nil {
		return err
	}

	// Create HTTP server
	handler := server.New(server.Deps{
		Fetcher:        fetcher,
		Products:       swpc.Catalog,
		Cache:          store,
		Reports:        memo,
		Metrics:        metrics,
		MetricsHandler: metricsHandler,
		AdminKey:       cfg.Auth.AdminKey,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Background cache warmer
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	workersDone := make(chan error, 1)
	if cfg.Refresh.Enabled {
		refresher := worker.NewRefresher(fetcher, cfg.Refresh.Products, cfg.Refresh.Interval)
		runner := worker.NewRunner(refresher)
		go func() { workersDone <- runner.Run(workerCtx) }()
	} else {
		close(workersDone)
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	slog.Info("swxgate ready", "addr", cfg.Server.Addr)

	// Wait for signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig)
	case err := <-errCh:
		return err
	}

	// Shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	stopWorkers()
	if err := <-workersDone; err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("worker shutdown", "error", err)
	}

	slog.Info("swxgate stopped")
	return nil
}

// refreshDNS re-resolves cached records every few minutes so the client does
// not pin a CDN address past its useful life.
func refreshDNS(ctx context.Context, resolver *dnscache.Resolver) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			resolver.Refresh(true)
		}
	}
}
