// Package main is the entry point for the stitchline API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stitchline/internal/domain/auth"
	"stitchline/internal/domain/catalogs/item"
	"stitchline/internal/domain/catalogs/staff"
	"stitchline/internal/domain/catalogs/warehouse"
	"stitchline/internal/domain/stock"
	v1 "stitchline/internal/infrastructure/http/v1"
	"stitchline/internal/infrastructure/storage/postgres"
	"stitchline/internal/infrastructure/storage/postgres/catalog_repo"
	"stitchline/internal/infrastructure/storage/postgres/order_repo"
	"stitchline/internal/infrastructure/storage/postgres/stock_repo"
	"stitchline/pkg/logger"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting stitchline server")

	// --- Database connection ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- JWT Service ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	// --- Repositories ---
	warehouseRepo := catalog_repo.NewWarehouseRepo(txManager)
	itemRepo := catalog_repo.NewItemRepo(txManager)
	staffRepo := catalog_repo.NewStaffRepo(txManager)
	ledgerRepo := stock_repo.NewLedgerRepo(txManager)
	snapshotRepo := stock_repo.NewSnapshotRepo(txManager)
	historyRepo := stock_repo.NewHistoryRepo(txManager)
	attachmentRepo := stock_repo.NewAttachmentRepo(txManager)
	queueRepo := order_repo.NewQueueRepo(txManager)

	// --- Services ---
	warehouseService := warehouse.NewService(warehouseRepo, txManager)
	itemService := item.NewService(itemRepo, txManager)
	staffService := staff.NewService(staffRepo, txManager)

	stockService := stock.NewService(stock.ServiceConfig{
		Ledger:      ledgerRepo,
		Snapshots:   snapshotRepo,
		History:     historyRepo,
		Attachments: attachmentRepo,
		Items:       itemRepo,
		Warehouses:  warehouseRepo,
		TxManager:   txManager,
	})

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool,
		Logger:           log,
		TokenValidator:   jwtService,
		StockService:     stockService,
		WarehouseService: warehouseService,
		ItemService:      itemService,
		StaffService:     staffService,
		ReconcileQueue:   queueRepo,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
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

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
