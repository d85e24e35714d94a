package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	eventapp "github.com/sakmfg/backoffice/internal/application/event"
	inventoryapp "github.com/sakmfg/backoffice/internal/application/inventory"
	receivingapp "github.com/sakmfg/backoffice/internal/application/receiving"
	traceapp "github.com/sakmfg/backoffice/internal/application/traceability"
	"github.com/sakmfg/backoffice/internal/domain/shared"
	"github.com/sakmfg/backoffice/internal/infrastructure/cache"
	"github.com/sakmfg/backoffice/internal/infrastructure/config"
	"github.com/sakmfg/backoffice/internal/infrastructure/event"
	"github.com/sakmfg/backoffice/internal/infrastructure/lock"
	"github.com/sakmfg/backoffice/internal/infrastructure/logger"
	"github.com/sakmfg/backoffice/internal/infrastructure/notification"
	"github.com/sakmfg/backoffice/internal/infrastructure/persistence"
	"github.com/sakmfg/backoffice/internal/infrastructure/telemetry"
	"github.com/sakmfg/backoffice/internal/interfaces/http/handler"
	"github.com/sakmfg/backoffice/internal/interfaces/http/middleware"
	"github.com/sakmfg/backoffice/internal/interfaces/http/router"
)

const payablesCollectionInterval = 5 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.NewFromConfig(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting backoffice service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Initialize distributed tracing
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Initialize metrics export
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Register database query tracing
	dbTraceCfg := telemetry.DefaultDBTracingConfig()
	dbTraceCfg.Enabled = cfg.Telemetry.DBTraceEnabled
	if cfg.Telemetry.DBSlowQueryThresh > 0 {
		dbTraceCfg.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
	}
	if err := telemetry.NewDBTracingPlugin(dbTraceCfg, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing plugin", zap.Error(err))
	}

	// Initialize repositories
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	debitNoteRepo := persistence.NewGormDebitNoteRepository(db.DB)
	sequenceRepo := persistence.NewGormSequenceRepository(db.DB)
	uidRepo := persistence.NewGormUIDRepository(db.DB)
	stockEntryRepo := persistence.NewGormStockEntryRepository(db.DB)
	stockBalanceRepo := persistence.NewGormStockBalanceRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Read-side providers over the procurement master data
	itemProvider := persistence.NewGormItemProvider(db.DB)
	orderProvider := persistence.NewGormPurchaseOrderProvider(db.DB)
	vendorProvider := persistence.NewGormVendorProvider(db.DB)
	warehouseProvider := persistence.NewGormWarehouseProvider(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Inject outbox publisher into repositories so domain events persist in
	// the same transaction as the aggregate
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)
	receiptRepo.SetOutboxEventSaver(outboxPublisher)
	debitNoteRepo.SetOutboxEventSaver(outboxPublisher)

	// Per-receipt locking (Redis when reachable, in-process fallback)
	locker, err := lock.NewFactory(cfg.Redis, cfg.Lock, lock.WithLogger(log)).CreateLocker()
	if err != nil {
		log.Fatal("Failed to create receipt locker", zap.Error(err))
	}

	notifier := notification.NewNotifier(cfg.Notification, log)

	// Initialize application services
	issuerService := traceapp.NewIssuerService(
		uidRepo, itemProvider, warehouseProvider,
		cfg.Identifier.TenantCode, cfg.Identifier.PlantCode,
		log,
	)
	traceService := traceapp.NewTraceService(uidRepo, receiptRepo, vendorProvider)
	stockService := inventoryapp.NewStockService(stockEntryRepo, stockBalanceRepo, log)
	debitNoteService := receivingapp.NewDebitNoteService(
		debitNoteRepo, receiptRepo, sequenceRepo,
		orderProvider, vendorProvider, notifier, log,
	)
	inspectionService := receivingapp.NewInspectionService(
		receiptRepo, orderProvider, itemProvider,
		stockService, issuerService, debitNoteService, locker, log,
	)
	paymentService := receivingapp.NewPaymentService(receiptRepo, log)
	receiptService := receivingapp.NewReceiptService(
		receiptRepo, debitNoteRepo, sequenceRepo,
		orderProvider, vendorProvider, warehouseProvider, itemProvider,
		issuerService, uidRepo, log,
	)

	// Business metrics for the receiving flow
	receivingMetrics, err := telemetry.NewReceivingMetrics(telemetry.ReceivingMetricsConfig{
		Meter:            meterProvider.Meter("backoffice.receiving"),
		Logger:           log,
		PayablesProvider: telemetry.NewGormPayablesMetricsProvider(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to initialize receiving metrics", zap.Error(err))
	}
	defer receivingMetrics.Stop()
	if meterProvider.IsEnabled() {
		receivingMetrics.StartPeriodicCollection(ctx,
			telemetry.NewGormTenantProvider(db.DB), payablesCollectionInterval)
	}

	// Idempotency store for event handlers (Redis when reachable)
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Initialize event bus and subscribe handlers
	eventBus := event.NewInMemoryEventBus(log)

	receiptCompletedHandler := receivingapp.NewReceiptCompletedHandler(receivingMetrics, log)
	debitNoteCreatedHandler := receivingapp.NewDebitNoteCreatedHandler(receivingMetrics, log)
	for _, h := range event.WrapHandlersWithIdempotency(
		[]shared.EventHandler{receiptCompletedHandler, debitNoteCreatedHandler},
		idempotencyStore, log,
		event.WithIdempotencyMetrics(event.GlobalIdempotencyMetrics),
	) {
		eventBus.Subscribe(h)
	}

	log.Info("Event handlers registered",
		zap.Strings("receipt_completed_events", receiptCompletedHandler.EventTypes()),
		zap.Strings("debit_note_created_events", debitNoteCreatedHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Start outbox processor for guaranteed event delivery
	outboxProcessorConfig := event.DefaultOutboxProcessorConfig()
	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
	if err := outboxProcessor.Start(ctx); err != nil {
		log.Fatal("Failed to start outbox processor", zap.Error(err))
	}
	defer func() {
		if err := outboxProcessor.Stop(context.Background()); err != nil {
			log.Error("Error stopping outbox processor", zap.Error(err))
		}
	}()
	log.Info("Outbox processor started",
		zap.Int("batch_size", outboxProcessorConfig.BatchSize),
		zap.Duration("poll_interval", outboxProcessorConfig.PollInterval),
	)

	// Direct publisher for services that emit events outside a repository save
	receiptService.SetEventPublisher(eventBus)

	// Initialize HTTP handlers
	receiptHandler := handler.NewReceiptHandler(receiptService, inspectionService, paymentService)
	debitNoteHandler := handler.NewDebitNoteHandler(debitNoteService)
	uidHandler := handler.NewUIDHandler(traceService)
	stockHandler := handler.NewStockHandler(stockService)
	outboxHandler := handler.NewOutboxHandler(eventapp.NewOutboxService(outboxRepo, log))
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	// 8. Tracing/Metrics - Observability
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitPerMin, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitPerMin),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine.Use(middleware.Tracing())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		ServiceName:   cfg.Telemetry.ServiceName,
		Enabled:       meterProvider.IsEnabled(),
	}))

	// Health check endpoint (outside API versioning, no tenant required)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.TenantMiddleware())
	r.Use(middleware.TracingAttributeInjector())
	r.Use(middleware.SpanErrorMarker())

	// Goods receipts: lifecycle, QC disposition, payments
	receiptRoutes := router.NewDomainGroup("receiving", "/receipts")
	receiptRoutes.POST("", receiptHandler.Create)
	receiptRoutes.GET("", receiptHandler.List)
	receiptRoutes.GET("/:id", receiptHandler.Get)
	receiptRoutes.PUT("/:id", receiptHandler.Update)
	receiptRoutes.DELETE("/:id", receiptHandler.Delete)
	receiptRoutes.POST("/:id/submit", receiptHandler.Submit)
	receiptRoutes.PATCH("/:id/status", receiptHandler.UpdateStatus)
	receiptRoutes.POST("/:id/dispose", receiptHandler.Dispose)
	receiptRoutes.POST("/:id/payments", receiptHandler.RecordPayment)
	receiptRoutes.POST("/:id/debit-note", debitNoteHandler.Generate)

	// Debit notes: vendor claims raised from rejections or manually
	debitNoteRoutes := router.NewDomainGroup("debit-notes", "/debit-notes")
	debitNoteRoutes.GET("", debitNoteHandler.List)
	debitNoteRoutes.POST("", debitNoteHandler.CreateManual)
	debitNoteRoutes.GET("/payables", debitNoteHandler.VendorPayables)
	debitNoteRoutes.GET("/:id", debitNoteHandler.Get)
	debitNoteRoutes.POST("/:id/approve", debitNoteHandler.Approve)
	debitNoteRoutes.PATCH("/:id/status", debitNoteHandler.UpdateStatus)
	debitNoteRoutes.POST("/:id/send", debitNoteHandler.Send)
	debitNoteRoutes.PATCH("/:id/lines/:lineId/return-status", debitNoteHandler.UpdateLineReturnStatus)

	// Traceability identifiers
	uidRoutes := router.NewDomainGroup("traceability", "/uids")
	uidRoutes.GET("", uidHandler.List)
	uidRoutes.GET("/:code", uidHandler.Get)
	uidRoutes.GET("/:code/trace", uidHandler.Trace)
	uidRoutes.POST("/:code/lifecycle", uidHandler.AppendLifecycle)

	// Stock ledger
	stockRoutes := router.NewDomainGroup("stock", "/stock")
	stockRoutes.GET("/movements", stockHandler.Movements)
	stockRoutes.GET("/balances", stockHandler.Balances)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/outbox/stats", outboxHandler.Stats)
	systemRoutes.GET("/outbox/dead", outboxHandler.DeadLetters)
	systemRoutes.POST("/outbox/dead/retry-all", outboxHandler.RetryAll)
	systemRoutes.GET("/outbox/:id", outboxHandler.Get)
	systemRoutes.POST("/outbox/:id/retry", outboxHandler.Retry)

	r.Register(receiptRoutes).
		Register(debitNoteRoutes).
		Register(uidRoutes).
		Register(stockRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
