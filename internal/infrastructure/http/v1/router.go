// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stitchline/internal/domain/catalogs/item"
	"stitchline/internal/domain/catalogs/staff"
	"stitchline/internal/domain/catalogs/warehouse"
	"stitchline/internal/domain/orders"
	"stitchline/internal/domain/stock"
	"stitchline/internal/infrastructure/http/v1/handlers"
	"stitchline/internal/infrastructure/http/v1/middleware"
	"stitchline/internal/infrastructure/storage/postgres"
	"stitchline/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// TokenValidator for access token validation
	TokenValidator middleware.TokenValidator

	// Services
	StockService     *stock.Service
	WarehouseService *warehouse.Service
	ItemService      *item.Service
	StaffService     *staff.Service

	// ReconcileQueue accepts order reconciliation jobs
	ReconcileQueue orders.Queue
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1 - everything behind authentication
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.TokenValidator))

	registerStockRoutes(v1, cfg)
	registerCatalogRoutes(v1, cfg)

	return router
}

// registerStockRoutes registers stock movement endpoints.
func registerStockRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	stockHandler := handlers.NewStockHandler(baseHandler, cfg.StockService, cfg.ReconcileQueue)

	st := rg.Group("/stock")
	{
		st.POST("/input", stockHandler.Input)
		st.POST("/output", stockHandler.Output)
		st.POST("/defective", stockHandler.Defective)

		st.GET("/transfers/pending", stockHandler.PendingTransfers)
		st.POST("/transfers/:id/resolve", stockHandler.ResolveTransfer)

		st.GET("/entries/:id", stockHandler.EntryDetail)
		st.POST("/entries/:id/attachments", stockHandler.AttachFiles)

		st.GET("/balances", stockHandler.Balances)
		st.GET("/history", stockHandler.History)

		// Reconciliation is dispatched by managers when an order completes.
		st.POST("/reconcile",
			middleware.RequireRole(string(staff.RoleDirector), string(staff.RoleManager)),
			stockHandler.Reconcile)
	}
}

// registerCatalogRoutes registers catalog endpoints.
// Catalog writes are restricted to management roles; reads are open to all
// authenticated staff.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	manageOnly := middleware.RequireRole(string(staff.RoleDirector), string(staff.RoleManager))

	// --- WAREHOUSES ---
	{
		handler := handlers.NewWarehouseHandler(baseHandler, cfg.WarehouseService)
		wh := rg.Group("/warehouses")
		wh.GET("", handler.List)
		wh.GET("/for-staff/:staffId", handler.ForStaff)
		wh.GET("/:id", handler.Get)
		wh.POST("", manageOnly, handler.Create)
		wh.PUT("/:id", manageOnly, handler.Update)
		wh.DELETE("/:id", manageOnly, handler.Delete)
		wh.POST("/:id/deletion-mark", manageOnly, handler.SetDeletionMark)
		wh.POST("/:id/staff", manageOnly, handler.AssignStaff)
	}

	// --- ITEMS ---
	{
		handler := handlers.NewItemHandler(baseHandler, cfg.ItemService)
		it := rg.Group("/items")
		it.GET("", handler.List)
		it.GET("/:id", handler.Get)
		it.POST("", manageOnly, handler.Create)
		it.PUT("/:id", manageOnly, handler.Update)
		it.DELETE("/:id", manageOnly, handler.Delete)
		it.POST("/:id/deletion-mark", manageOnly, handler.SetDeletionMark)
	}

	// --- STAFF ---
	{
		handler := handlers.NewStaffHandler(baseHandler, cfg.StaffService)
		stf := rg.Group("/staff")
		stf.GET("", handler.List)
		stf.GET("/:id", handler.Get)
		stf.POST("", manageOnly, handler.Create)
		stf.PUT("/:id", manageOnly, handler.Update)
		stf.DELETE("/:id", manageOnly, handler.Delete)
		stf.POST("/:id/deletion-mark", manageOnly, handler.SetDeletionMark)
	}
}
