package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cooperative-society-ledger/internal/config"
	"github.com/cooperative-society-ledger/internal/data/mongo"
	"github.com/cooperative-society-ledger/internal/data/postgres"
	"github.com/cooperative-society-ledger/internal/event_processor/consumer"
	"github.com/cooperative-society-ledger/internal/event_processor/outbox_poller"
	"github.com/cooperative-society-ledger/internal/event_processor/service"
	"github.com/cooperative-society-ledger/internal/logger"
	"github.com/cooperative-society-ledger/internal/platform/messaging/consumers"
	"github.com/cooperative-society-ledger/internal/platform/messaging/producers"
	"github.com/cooperative-society-ledger/internal/platform/persistence"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("event_processor")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Event Processor",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	archiveRepo := mongo.NewEventArchiveRepository(log, mongoDB.Database())
	if err := archiveRepo.EnsureIndexes(appCtx); err != nil {
		log.Error("Failed to create event archive indexes", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producers
	eventProducer, err := producers.NewEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize Kafka event producer", "error", err)
		os.Exit(1)
	}

	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}
	// dlqProducer is nil when no DLQ topic is configured; its methods are nil-safe

	// Initialize Kafka consumer
	kafkaConsumer := consumers.NewKafkaConsumer(log, &cfg.Kafka)

	// Archive writes run on a bounded worker pool
	archiveService, err := service.NewWorkerPoolArchiveService(
		service.NewArchiveService(archiveRepo, log),
		service.WorkerPoolConfig{Size: cfg.WorkerPool.Size},
		log,
	)
	if err != nil {
		log.Error("Failed to initialize worker pool", "error", err)
		os.Exit(1)
	}

	log.Info("Archive worker pool ready", "capacity", archiveService.Capacity())

	eventHandler := consumer.NewEventHandler(log, archiveService, dlqProducer)
	poller := outbox_poller.NewPoller(&cfg.Outbox, outboxRepo, eventProducer, dlqProducer, log)

	group, groupCtx := errgroup.WithContext(appCtx)

	group.Go(func() error {
		log.Info("Starting outbox relay",
			"interval", cfg.Outbox.PollingInterval.String(),
			"batch_size", cfg.Outbox.BatchSize,
		)
		if err := poller.Start(groupCtx); err != nil {
			return fmt.Errorf("outbox poller error: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		log.Info("Starting event archiver",
			"topic", cfg.Kafka.EventsTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := kafkaConsumer.Run(groupCtx, eventHandler.HandleMessage); err != nil {
			return fmt.Errorf("kafka consumer error: %w", err)
		}
		return nil
	})

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or the first failing component
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case <-groupCtx.Done():
		log.Warn("A component stopped, shutting down")
	}

	// Cancel the application context
	cancelAppCtx()

	log.Info("Starting graceful shutdown...")

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- group.Wait()
	}()

	var serviceErr error
	select {
	case serviceErr = <-waitErr:
		if errors.Is(serviceErr, context.Canceled) {
			serviceErr = nil
		}
		log.Info("All components stopped")
	case <-time.After(shutdownTimeout):
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	archiveService.Shutdown()

	var closeErrs []error
	if err := kafkaConsumer.Close(); err != nil {
		closeErrs = append(closeErrs, fmt.Errorf("close kafka consumer: %w", err))
	}
	if err := eventProducer.Close(); err != nil {
		closeErrs = append(closeErrs, fmt.Errorf("close event producer: %w", err))
	}
	if err := dlqProducer.Close(); err != nil {
		closeErrs = append(closeErrs, fmt.Errorf("close DLQ producer: %w", err))
	}

	postgresDB.Close()

	mongoCtx, cancelMongo := context.WithTimeout(context.Background(), cfg.MongoDB.Timeout)
	defer cancelMongo()
	if err := mongoDB.Close(mongoCtx); err != nil {
		closeErrs = append(closeErrs, err)
	}

	if serviceErr != nil {
		log.Error("Event Processor stopped with a component error", "error", serviceErr)
	}
	if err := errors.Join(closeErrs...); err != nil {
		log.Error("Event Processor shutdown completed with errors", "error", err)
		os.Exit(1)
	}
	log.Info("Event Processor shutdown completed successfully")
}
