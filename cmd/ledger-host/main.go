package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sendblocks/custom-indexer-example/internal/adapter"
	"github.com/sendblocks/custom-indexer-example/internal/config"
	"github.com/sendblocks/custom-indexer-example/internal/decoder"
	"github.com/sendblocks/custom-indexer-example/internal/function"
	"github.com/sendblocks/custom-indexer-example/internal/host"
	"github.com/sendblocks/custom-indexer-example/internal/kv"
	"github.com/sendblocks/custom-indexer-example/internal/ledger"
	"github.com/sendblocks/custom-indexer-example/internal/logger"
	"github.com/sendblocks/custom-indexer-example/internal/trigger"
	"github.com/sendblocks/custom-indexer-example/internal/webhook"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadHostConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "ledger-host",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Token Ledger host")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("dsn", cfg.Database.DSN()))
	}
	if err := kv.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database")

	// Initialize store
	dataStore := kv.NewPGStore(db)
	if err := dataStore.Migrate(); err != nil {
		logger.FatalCtx(ctx, "Failed to migrate key-value schema", zap.Error(err))
	}

	// Initialize adapters
	fs := adapter.NewFileSystem()
	jsonAdapter := adapter.NewJSON()
	natsJS := adapter.NewNatsJetStream()
	clock := adapter.NewClock()

	// Load trigger registry
	if cfg.RegistryPath == "" {
		logger.FatalCtx(ctx, "Trigger registry path not configured")
	}
	registryLoader := trigger.NewRegistryLoader(fs, jsonAdapter)
	registry, err := registryLoader.Load(cfg.RegistryPath)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load trigger registry",
			zap.Error(err),
			zap.String("path", cfg.RegistryPath))
	}
	logger.InfoCtx(ctx, "Loaded trigger registry", zap.String("path", cfg.RegistryPath))

	// Build the event-processing pipeline
	dec, err := decoder.NewERC721()
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create event decoder", zap.Error(err))
	}
	updater := ledger.NewUpdater(dataStore, cfg.Namespace)
	handler := function.NewHandler(dec, updater)

	// Webhook delivery is optional
	var notifier webhook.Notifier
	if cfg.Webhook.URL != "" {
		notifier = webhook.NewHTTPNotifier(webhook.Config{
			URL:             cfg.Webhook.URL,
			Secret:          cfg.Webhook.Secret,
			InitialInterval: cfg.Webhook.InitialInterval,
			MaxInterval:     cfg.Webhook.MaxInterval,
			MaxElapsedTime:  cfg.Webhook.MaxElapsedTime,
		}, adapter.NewHTTPClient(30*time.Second), clock)
		logger.InfoCtx(ctx, "Webhook notifications enabled", zap.String("url", cfg.Webhook.URL))
	} else {
		logger.WarnCtx(ctx, "Webhook URL not configured, ledger updates will not be delivered")
	}

	// Create host
	ledgerHost, err := host.NewHost(
		host.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			SubjectPrefix:  cfg.NATS.SubjectPrefix,
			ConsumerName:   cfg.NATS.ConsumerName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
			AckWaitTimeout: cfg.NATS.AckWait,
			MaxDeliver:     cfg.NATS.MaxDeliver,
			Workers:        cfg.Worker.WorkerPoolSize,
			QueueSize:      cfg.Worker.WorkerQueueSize,
		},
		natsJS,
		handler,
		registry,
		notifier,
		jsonAdapter,
		clock,
	)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create ledger host", zap.Error(err))
	}
	defer ledgerHost.Close()
	logger.InfoCtx(ctx, "Ledger host created",
		zap.String("stream", cfg.NATS.StreamName),
		zap.String("consumer", cfg.NATS.ConsumerName),
		zap.String("namespace", cfg.Namespace))

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := ledgerHost.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "host"))
		cancel()
	}

	// Give in-flight messages a moment to finish
	time.Sleep(time.Second)

	logger.Info("Ledger host stopped")
}
