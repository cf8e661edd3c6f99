// Package main is the entry point for the stitchline reconciliation worker.
// It drains the reconcile job queue: each claimed job books the stock effects
// of one completed order.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"stitchline/internal/domain/orders"
	"stitchline/internal/domain/stock"
	"stitchline/internal/infrastructure/storage/postgres"
	"stitchline/internal/infrastructure/storage/postgres/catalog_repo"
	"stitchline/internal/infrastructure/storage/postgres/order_repo"
	"stitchline/internal/infrastructure/storage/postgres/stock_repo"
	"stitchline/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting stitchline worker")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	warehouseRepo := catalog_repo.NewWarehouseRepo(txManager)
	itemRepo := catalog_repo.NewItemRepo(txManager)
	staffRepo := catalog_repo.NewStaffRepo(txManager)
	queueRepo := order_repo.NewQueueRepo(txManager)
	orderReader := order_repo.NewReaderRepo(txManager)

	stockService := stock.NewService(stock.ServiceConfig{
		Ledger:      stock_repo.NewLedgerRepo(txManager),
		Snapshots:   stock_repo.NewSnapshotRepo(txManager),
		History:     stock_repo.NewHistoryRepo(txManager),
		Attachments: stock_repo.NewAttachmentRepo(txManager),
		Items:       itemRepo,
		Warehouses:  warehouseRepo,
		TxManager:   txManager,
	})

	reconciler := orders.NewReconciler(orderReader, stockService, staffRepo)

	worker := NewWorker(WorkerConfig{
		TxManager:    txManager,
		Queue:        queueRepo,
		Reconciler:   reconciler,
		PollInterval: getEnvDuration("WORKER_POLL_INTERVAL", 2*time.Second),
		Logger:       log,
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
