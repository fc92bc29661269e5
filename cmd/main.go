package main

import (
	"net/http"

	"github.com/refracc/de-store/internal/auth"
	"github.com/refracc/de-store/internal/engine"
	"github.com/refracc/de-store/internal/handler"
	mid "github.com/refracc/de-store/internal/middleware"
	"github.com/refracc/de-store/internal/postgres"
	"github.com/refracc/de-store/pkg/config"
	"github.com/refracc/de-store/pkg/database"
	"github.com/refracc/de-store/pkg/jwtutil"
	"github.com/refracc/de-store/pkg/logger"
	"github.com/refracc/de-store/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration (reads .env if present)
	appConfig, err := config.Load("de-store")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting de-store", appConfig.LogConfig()...)

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database and build the engine; everything is injected,
	// nothing global.
	db, err := database.InitDB(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	store := postgres.NewStore(db)
	eng := engine.New(store, auth.Default(), log)

	retail := handler.NewRetailHandler(eng)
	products := handler.NewProductHandler(db)
	customers := handler.NewCustomerHandler(db)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Retail operations
	api := e.Group("/api", mid.AuthMiddleware)
	api.POST("/purchases", retail.Purchase)
	api.GET("/transactions", retail.RecentTransactions)
	api.GET("/reports/monthly", retail.MonthlyReport)
	api.GET("/inventory/low-stock", retail.LowStockProducts)
	api.POST("/inventory/restock", retail.TriggerRestock)
	api.GET("/customers/:id/loyalty/eligibility", retail.CheckLoyaltyEligibility)
	api.POST("/customers/:id/loyalty", retail.EnrollLoyalty)
	api.GET("/finance", handler.FinanceInfo)

	// Catalog
	api.GET("/products", products.ListProducts)
	api.POST("/products", products.CreateProduct)
	api.GET("/products/:id", retail.GetProductDetail)
	api.PUT("/products/:id", products.UpdateProduct)
	api.DELETE("/products/:id", products.DeleteProduct)
	api.PUT("/products/:id/price", retail.ChangePrice)
	api.POST("/products/:id/promotions", retail.ApplyPromotion)

	// Customers
	api.GET("/customers", customers.ListCustomers)
	api.POST("/customers", customers.CreateCustomer)
	api.GET("/customers/:id", customers.GetCustomer)
	api.PUT("/customers/:id", customers.UpdateCustomer)
	api.DELETE("/customers/:id", customers.DeleteCustomer)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
