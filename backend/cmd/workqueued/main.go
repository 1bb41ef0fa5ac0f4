// workqueued runs a work queue with an HTTP surface for load generation,
// statistics, health probes and Prometheus metrics.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tohafrit/workqueue/backend/internal/api"
	"github.com/tohafrit/workqueue/backend/internal/config"
	"github.com/tohafrit/workqueue/pkg/workqueue"
	"github.com/tohafrit/workqueue/pkg/workqueue/metrics"
	"github.com/tohafrit/workqueue/pkg/workqueue/observability"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	// Build the queue
	queueCfg := workqueue.DefaultConfig()
	if cfg.Workers > 0 {
		queueCfg.Workers = cfg.Workers
	}
	queueCfg.Logger = observability.NewSlogLogger(logger)

	queue, err := workqueue.NewFifoWorkQueue(queueCfg)
	if err != nil {
		log.Fatalf("Failed to create queue: %v", err)
	}

	health := observability.NewHealthChecker(queueCfg.Workers)
	health.MarkStarted()

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.NewQueueCollector(cfg.QueueName, queue),
	)

	// Keep the health gauges in step with the queue
	healthCtx, stopHealth := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-healthCtx.Done():
				return
			case <-ticker.C:
				stats := queue.Stats()
				health.UpdateMetrics(stats.PendingTasks, stats.ActiveWorkers)
			}
		}
	}()

	router := api.NewRouter(cfg, api.Deps{
		Queue:    queue,
		Jobs:     api.NewJobRegistry(),
		Health:   health,
		Gatherer: registry,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("workqueued starting", "port", cfg.Port, "workers", queueCfg.Workers, "queue", cfg.QueueName)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	health.MarkStopped()
	stopHealth()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Drain in-flight tasks before exiting
	queue.JoinAll()
	slog.Info("queue drained, exiting")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
