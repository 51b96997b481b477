package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cooperative-society-ledger/internal/api_gateway"
	"github.com/cooperative-society-ledger/internal/api_gateway/service"
	"github.com/cooperative-society-ledger/internal/config"
	"github.com/cooperative-society-ledger/internal/data/memory"
	"github.com/cooperative-society-ledger/internal/data/mongo"
	"github.com/cooperative-society-ledger/internal/data/postgres"
	"github.com/cooperative-society-ledger/internal/domain/snapshot"
	"github.com/cooperative-society-ledger/internal/engine"
	"github.com/cooperative-society-ledger/internal/logger"
	"github.com/cooperative-society-ledger/internal/platform/persistence"
	"github.com/shopspring/decimal"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting API Gateway",
		"backend", cfg.Persistence.Backend,
		"snapshot_key", cfg.Persistence.SnapshotKey,
	)

	var (
		postgresDB *persistence.PostgresDB
		mongoDB    *persistence.MongoDB
		store      snapshot.Repository
	)

	// Every backend except memory archives events in MongoDB, which also
	// serves the event history routes
	if cfg.Persistence.Backend != config.BackendMemory {
		mongoDB, err = persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
		if err != nil {
			log.Error("Failed to initialize MongoDB", "error", err)
			os.Exit(1)
		}
	}

	switch cfg.Persistence.Backend {
	case config.BackendPostgres:
		postgresDB, err = persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
		if err != nil {
			log.Error("Failed to initialize PostgreSQL", "error", err)
			os.Exit(1)
		}
		store = postgres.NewSnapshotRepository(log, postgresDB, cfg.Persistence.SnapshotKey)
	case config.BackendMongo:
		archive := mongo.NewEventArchiveRepository(log, mongoDB.Database())
		if err := archive.EnsureIndexes(appCtx); err != nil {
			log.Error("Failed to create event archive indexes", "error", err)
			os.Exit(1)
		}
		store = mongo.NewSnapshotRepository(log, mongoDB.Database(), archive, cfg.Persistence.SnapshotKey)
	default:
		log.Warn("Using in-memory persistence, state is lost on restart")
		store = memory.NewSnapshotRepository()
	}

	// Initialize the engine from the last snapshot
	ledger, err := engine.NewService(appCtx, store, defaultSettings(cfg), log)
	if err != nil {
		log.Error("Failed to initialize ledger engine", "error", err)
		os.Exit(1)
	}

	var history service.EventHistoryService
	if mongoDB != nil {
		history = service.NewEventHistoryService(log, mongo.NewEventArchiveRepository(log, mongoDB.Database()))
	}

	var checks []api_gateway.HealthCheck
	if postgresDB != nil {
		checks = append(checks, api_gateway.HealthCheck{Name: "postgres", Ping: postgresDB.Ping})
	}
	if mongoDB != nil {
		checks = append(checks, api_gateway.HealthCheck{Name: "mongodb", Ping: mongoDB.Ping})
	}

	// Initialize REST server
	server := api_gateway.NewServer(log, cfg, ledger, history, checks...)
	log.Info("REST server initialized", "event_history", history != nil)

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Stop taking requests before the stores go away
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if postgresDB != nil {
		postgresDB.Close()
	}

	if mongoDB != nil {
		if closeErr := mongoDB.Close(shutdownCtx); closeErr != nil {
			log.Error("Error closing MongoDB connection", "error", closeErr)
			err = closeErr
		}
	}

	finish(log, serverErr, err)
}

// defaultSettings seeds a society that has no snapshot yet
func defaultSettings(cfg *config.Config) snapshot.Settings {
	return snapshot.Settings{
		SocietyName:              cfg.Society.Name,
		DefaultLoanTenure:        cfg.Society.DefaultLoanTenure,
		LoanInterestRate:         decimal.NewFromFloat(cfg.Society.LoanInterestRate),
		DefaulterGracePeriodDays: cfg.Society.DefaulterGracePeriodDays,
	}
}

func finish(log *slog.Logger, serverErr, shutdownErr error) {
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if shutdownErr != nil {
		log.Error("Server shutdown completed with errors")
		return
	}
	log.Info("Server shutdown completed successfully")
}
