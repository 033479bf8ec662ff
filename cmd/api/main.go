package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nexatel/portal_api/internal/cache"
	"github.com/nexatel/portal_api/internal/config"
	"github.com/nexatel/portal_api/internal/database"
	"github.com/nexatel/portal_api/internal/handler"
	"github.com/nexatel/portal_api/internal/middleware"
	"github.com/nexatel/portal_api/internal/models"
	"github.com/nexatel/portal_api/internal/repository"
	"github.com/nexatel/portal_api/internal/service"
	"github.com/nexatel/portal_api/internal/utils"
	"github.com/nexatel/portal_api/internal/worker"
	"github.com/nexatel/portal_api/pkg/provitel"
)

// main is the application entrypoint for the Nexatel reseller portal API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting portal api")

	// 2a. Initialize token signing
	utils.InitJWT(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize usage cache
	usageCache := cache.NewUsageCache(redisClient, cfg.Provider.UsageCacheTTL)

	// 4. Initialize provisioning clients, one per master category
	var mobileAPI, fixedAPI service.ProviderAPI
	if cfg.Provider.Mobile.BaseURL != "" {
		mobileAPI = provitel.NewClient(provitel.Config{
			BaseURL:  cfg.Provider.Mobile.BaseURL,
			Username: cfg.Provider.Mobile.Username,
			Password: cfg.Provider.Mobile.Password,
		})
		log.Info().Msg("mobile provisioning client registered")
	}
	if cfg.Provider.Fixed.BaseURL != "" {
		fixedAPI = provitel.NewClient(provitel.Config{
			BaseURL:  cfg.Provider.Fixed.BaseURL,
			Username: cfg.Provider.Fixed.Username,
			Password: cfg.Provider.Fixed.Password,
		})
		log.Info().Msg("fixed provisioning client registered")
	}
	providers := service.NewRegistry(mobileAPI, fixedAPI)

	// 5. Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	clientRepo := repository.NewClientRepository(db)
	trxRepo := repository.NewTransactionRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userProductRepo := repository.NewUserProductRepository(db)

	// 6. Initialize services
	authSvc := service.NewAuthService(userRepo)
	userSvc := service.NewUserService(userRepo)
	productSvc := service.NewProductService(productRepo, categoryRepo)
	categorySvc := service.NewCategoryService(categoryRepo)
	clientSvc := service.NewClientService(clientRepo)
	ledgerSvc := service.NewLedgerService(trxRepo, userRepo, productRepo, clientRepo)
	orderSvc := service.NewOrderService(orderRepo, clientRepo, productRepo, categoryRepo, userProductRepo, providers)
	usageSvc := service.NewUsageService(userProductRepo, productRepo, categoryRepo, providers, usageCache)
	webhookSvc := service.NewWebhookService(userProductRepo, usageCache)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:           handler.NewHealthHandler(db, redisClient),
		Auth:             handler.NewAuthHandler(authSvc, userSvc, ledgerSvc),
		Catalog:          handler.NewCatalogHandler(productSvc, categorySvc, ledgerSvc),
		Client:           handler.NewClientHandler(clientSvc),
		Purchase:         handler.NewPurchaseHandler(ledgerSvc),
		Order:            handler.NewOrderHandler(orderSvc),
		Usage:            handler.NewUsageHandler(usageSvc),
		Webhook:          handler.NewWebhookHandler(webhookSvc, cfg.Provider.WebhookSecret),
		AdminProduct:     handler.NewAdminProductHandler(productSvc),
		AdminCategory:    handler.NewAdminCategoryHandler(categorySvc),
		AdminReseller:    handler.NewAdminResellerHandler(userSvc, ledgerSvc),
		AdminOrder:       handler.NewAdminOrderHandler(orderSvc),
		AdminInstance:    handler.NewAdminInstanceHandler(usageSvc),
		AdminTransaction: handler.NewAdminTransactionHandler(ledgerSvc),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewReconcileWorker(trxRepo, cfg.Worker.ReconcileInterval).Start(ctx)
	go worker.NewProviderSyncWorker(
		userProductRepo, productRepo, categoryRepo, providers,
		cfg.Worker.StatusSyncInterval,
	).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health           *handler.HealthHandler
	Auth             *handler.AuthHandler
	Catalog          *handler.CatalogHandler
	Client           *handler.ClientHandler
	Purchase         *handler.PurchaseHandler
	Order            *handler.OrderHandler
	Usage            *handler.UsageHandler
	Webhook          *handler.WebhookHandler
	AdminProduct     *handler.AdminProductHandler
	AdminCategory    *handler.AdminCategoryHandler
	AdminReseller    *handler.AdminResellerHandler
	AdminOrder       *handler.AdminOrderHandler
	AdminInstance    *handler.AdminInstanceHandler
	AdminTransaction *handler.AdminTransactionHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	// Provider webhook (HMAC-signed, no session auth)
	router.POST("/webhook/provitel", handlers.Webhook.HandleStatusCallback)

	router.GET("/v1/health", handlers.Health.GetHealth)
	router.POST("/v1/auth/login", handlers.Auth.Login)

	// Authenticated portal routes (any role)
	v1 := router.Group("/v1")
	v1.Use(jwtMiddleware.Handle())
	{
		v1.GET("/profile", handlers.Auth.GetProfile)
		v1.PUT("/profile/dashboard", handlers.Auth.SaveDashboardLayout)

		v1.GET("/catalog/products", handlers.Catalog.ListProducts)
		v1.GET("/catalog/categories", handlers.Catalog.ListCategories)

		// Client book
		v1.GET("/clients", handlers.Client.ListClients)
		v1.POST("/clients", handlers.Client.CreateClient)
		v1.GET("/clients/:id", handlers.Client.GetClient)
		v1.PUT("/clients/:id", handlers.Client.UpdateClient)

		// Billing
		v1.POST("/purchases", handlers.Purchase.Purchase)
		v1.GET("/balance", handlers.Purchase.GetBalance)
		v1.GET("/transactions", handlers.Purchase.ListTransactions)

		// Orders
		v1.POST("/orders", handlers.Order.CreateOrder)
		v1.GET("/orders", handlers.Order.ListOrders)
		v1.GET("/orders/:id", handlers.Order.GetOrder)

		// Assigned services and provider usage
		v1.GET("/services", handlers.Usage.ListServices)
		v1.GET("/services/:id/endpoints", handlers.Usage.ListEndpoints)
		v1.GET("/endpoints/:id/usage", handlers.Usage.QueryUsage)
	}

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.Use(jwtMiddleware.Handle())
	admin.Use(jwtMiddleware.RequireRole(models.RoleAdmin))
	{
		// Catalog management
		admin.GET("/products", handlers.AdminProduct.ListProducts)
		admin.POST("/products", handlers.AdminProduct.CreateProduct)
		admin.GET("/products/:id", handlers.AdminProduct.GetProduct)
		admin.PUT("/products/:id", handlers.AdminProduct.UpdateProduct)
		admin.DELETE("/products/:id", handlers.AdminProduct.DeleteProduct)

		admin.GET("/categories", handlers.AdminCategory.ListCategories)
		admin.POST("/categories", handlers.AdminCategory.CreateCategory)
		admin.GET("/categories/:id", handlers.AdminCategory.GetCategory)
		admin.PUT("/categories/:id", handlers.AdminCategory.UpdateCategory)
		admin.DELETE("/categories/:id", handlers.AdminCategory.DeleteCategory)

		// Reseller management
		admin.GET("/resellers", handlers.AdminReseller.ListResellers)
		admin.POST("/resellers", handlers.AdminReseller.CreateReseller)
		admin.GET("/resellers/:id", handlers.AdminReseller.GetReseller)
		admin.PUT("/resellers/:id", handlers.AdminReseller.UpdateReseller)
		admin.POST("/resellers/:id/credit", handlers.AdminReseller.AdjustCredit)

		// Order queue
		admin.GET("/orders", handlers.AdminOrder.ListOrders)
		admin.GET("/orders/:id", handlers.AdminOrder.GetOrder)
		admin.POST("/orders/:id/decision", handlers.AdminOrder.DecideOrder)

		// Instance endpoint assignment
		admin.POST("/services/:id/endpoints", handlers.AdminInstance.CreateEndpoint)

		// Ledger
		admin.GET("/transactions", handlers.AdminTransaction.ListTransactions)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
