// Command peoplerelay publishes committed Zeus.People events from PostgreSQL to Kafka.
//
// It polls the event log from a checkpoint kept in Redis and serves Prometheus metrics on
// relay.metrics_addr. Configuration is read from the file given with -config and ZEUS_ environment
// variables, see package config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore/postgresengine"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore/promadapters"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/shell/checkpoint"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/shell/config"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/shell/kafkapublisher"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/shell/relay"
)

const (
	metricsNamespace = "zeus_people"
	shutdownTimeout  = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	createSchema := flag.Bool("create-schema", false, "create the events table and its indexes before relaying")
	flag.Parse()

	if err := run(*configPath, *createSchema); err != nil {
		fmt.Fprintf(os.Stderr, "peoplerelay: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, createSchema bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err = cfg.Validate(); err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Log, os.Stdout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics := promadapters.NewMetricsCollector(registry,
		promadapters.WithNamespace(metricsNamespace),
		promadapters.WithLabelNames(append(slices.Clone(promadapters.DefaultLabelNames), "stage")...),
	)

	store, closeStore, err := cfg.NewEventStore(ctx,
		postgresengine.WithContextualLogger(logger),
		postgresengine.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}
	defer closeStore()

	if createSchema {
		if err = store.CreateSchema(ctx); err != nil {
			return err
		}
	}

	publisher, err := kafkapublisher.NewPublisher(cfg.Kafka.PublisherConfig())
	if err != nil {
		return err
	}
	defer closeQuietly(logger, "kafka publisher", publisher.Close)

	redisClient := redis.NewClient(cfg.Redis.RedisOptions())
	defer closeQuietly(logger, "redis client", redisClient.Close)

	checkpoints, err := checkpoint.NewRedisStore(redisClient, cfg.Redis.CheckpointKey)
	if err != nil {
		return err
	}

	relayOptions := []relay.Option{
		relay.WithBatchSize(cfg.Relay.BatchSize),
		relay.WithPollInterval(cfg.Relay.PollInterval),
		relay.WithLookback(cfg.Relay.Lookback),
		relay.WithLogger(logger),
		relay.WithMetrics(metrics),
	}
	if cfg.Relay.EventualConsistency {
		relayOptions = append(relayOptions, relay.WithEventualConsistency())
	}

	r, err := relay.New(store, publisher, checkpoints, relayOptions...)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Relay.MetricsAddr,
		Handler:           metricsHandler(registry),
		ReadHeaderTimeout: shutdownTimeout,
	}

	go func() {
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", serveErr.Error())
			stop()
		}
	}()

	logger.Info("relay started",
		"metrics_addr", cfg.Relay.MetricsAddr,
		"topic", cfg.Kafka.Topic,
		"poll_interval", cfg.Relay.PollInterval.String(),
		"lookback", cfg.Relay.Lookback.String(),
	)

	runErr := r.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics server shutdown failed", "error", err.Error())
	}

	logger.Info("relay stopped")

	return runErr
}

func metricsHandler(registry *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	return mux
}

func closeQuietly(logger *slog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Warn("closing "+name+" failed", "error", err.Error())
	}
}
