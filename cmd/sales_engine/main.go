package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sales-record-engine/internal/api_gateway"
	"github.com/sales-record-engine/internal/config"
	"github.com/sales-record-engine/internal/logger"
	"github.com/sales-record-engine/internal/notify"
	"github.com/sales-record-engine/internal/platform/messaging/changefeed"
	"github.com/sales-record-engine/internal/platform/messaging/producers"
	"github.com/sales-record-engine/internal/sales"
	"github.com/sales-record-engine/internal/store"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("sales_engine")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	backend, closeBackend, err := openBackend(appCtx, log, cfg)
	if err != nil {
		log.Error("Failed to open store backend", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	log.Info("Store backend ready", "backend", cfg.Store.Backend, "key_prefix", cfg.Store.KeyPrefix)

	registry := notify.NewRegistry(log)
	st := store.New(log, backend, registry, store.WithKeyPrefix(cfg.Store.KeyPrefix))

	// Optional change feed forwarding saves to Kafka
	var relay *changefeed.Relay
	if cfg.ChangeFeed.Enabled {
		kafkaProducer, err := producers.NewChangeEventProducer(appCtx, log, &cfg.Kafka)
		if err != nil {
			log.Error("Failed to initialize change feed producer", "error", err)
			os.Exit(1)
		}
		relay, err = changefeed.NewRelay(log, kafkaProducer, changefeed.Config{
			PoolSize:       cfg.WorkerPool.Size,
			KeyPrefix:      cfg.Store.KeyPrefix,
			PublishTimeout: cfg.Kafka.WriteTimeout,
		})
		if err != nil {
			log.Error("Failed to initialize change feed relay", "error", err)
			_ = kafkaProducer.Close()
			os.Exit(1)
		}
		relay.Attach(registry)
		log.Info("Change feed enabled", "topic", cfg.Kafka.ChangeTopic)
	}

	validator := sales.NewDraftValidator()
	server := api_gateway.NewServer(log, cfg, api_gateway.Services{
		Bookings: sales.NewBookingService(log, st, validator),
		Payments: sales.NewPaymentService(log, st, validator),
		Ledger:   sales.NewLedgerService(log, st),
		Changes:  registry,
	})

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case serverErr = <-errChan:
		log.Error("Server error occurred", "error", serverErr)
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")
	failed := serverErr != nil

	// Stop accepting writes before the relay and backend go away
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
		failed = true
	}

	// Closing the relay also closes the Kafka producer
	if relay != nil {
		if err := relay.Close(cfg.Server.ShutdownTimeout); err != nil {
			log.Error("Error draining change feed", "error", err)
			failed = true
		}
	}

	if err := closeBackend(shutdownCtx); err != nil {
		log.Error("Error closing store backend", "error", err)
		failed = true
	}

	if n := st.CorruptFallbacks(); n > 0 {
		log.Warn("Corrupt collections were replaced by defaults during this run", "count", n)
	}

	if failed {
		log.Error("Server shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Server shutdown completed successfully")
}
