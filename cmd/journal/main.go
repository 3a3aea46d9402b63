package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"trade-journal-go/internal/api"
	"trade-journal-go/internal/config"
	"trade-journal-go/internal/connector"
	"trade-journal-go/internal/database"
	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/logger"
	"trade-journal-go/internal/store"
)

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// Initialize database and the trade store
	db, err := database.New(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	tradeStore := store.NewTradeStore(db, cfg.Database.DSN)
	log.Info("Database opened and schema migrated", zap.String("dsn", cfg.Database.DSN))

	// Pick the broker connector. The stub keeps everything working on
	// hosts without a terminal bridge.
	var conn connector.Connector
	if cfg.Broker.BridgeURL != "" {
		conn = connector.NewRestBridge(&cfg.Broker, log)
		log.Info("Using REST bridge connector", zap.String("broker", cfg.Broker.Name))
	} else {
		conn = connector.Stub{}
		log.Info("No bridge configured, broker sync disabled")
	}

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Sync engine and API server
	engine := journal.NewEngine(log, &cfg, tradeStore, conn)

	server := api.NewServer(&cfg, log, tradeStore, conn, engine)
	server.Start()

	if cfg.Sync.Enabled {
		engine.Run(ctx)
	} else {
		log.Info("Background sync disabled")
		<-ctx.Done()
	}

	if err := server.Stop(context.Background()); err != nil {
		log.Warn("API server shutdown failed", zap.Error(err))
	}
	conn.Disconnect()
	log.Info("Journal has been shut down.")
}
