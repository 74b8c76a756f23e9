package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/hadesigndz/Ha-Design/internal/application/catalog"
	"github.com/hadesigndz/Ha-Design/internal/application/checkout"
	"github.com/hadesigndz/Ha-Design/internal/application/fulfillment"
	orderapp "github.com/hadesigndz/Ha-Design/internal/application/order"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/cache"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/config"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/delivery"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/logger"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/scheduler"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/storage"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/telemetry"
	"github.com/hadesigndz/Ha-Design/internal/interfaces/http/handler"
	"github.com/hadesigndz/Ha-Design/internal/interfaces/http/middleware"
	"github.com/hadesigndz/Ha-Design/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Ha-Design API
//	@version		1.0
//	@description	Storefront and back-office API for Ha-Design wall art.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Ha-Design backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Telemetry: every provider falls back to no-op when disabled
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		_ = tracerProvider.Shutdown(context.Background())
	}()
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		_ = meterProvider.Shutdown(context.Background())
	}()
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		_ = loggerProvider.Shutdown(context.Background())
	}()
	log = loggerProvider.Bridge(log)
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	var businessMetrics *telemetry.BusinessMetrics
	if meterProvider.IsEnabled() {
		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{Meter: meter, Logger: log})
		if err != nil {
			log.Fatal("Failed to create business metrics", zap.Error(err))
		}
	}

	// Order and product store
	st, err := openStores(ctx, cfg, log, meter)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err), zap.String("driver", cfg.Store.Driver))
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Error("Error closing store", zap.Error(err))
		}
	}()
	log.Info("Store ready", zap.String("driver", cfg.Store.Driver))

	// Product list cache and carts
	caches, err := cache.NewFactory(*cfg, cache.WithLogger(log)).Build(ctx)
	if err != nil {
		log.Fatal("Failed to build caches", zap.Error(err))
	}
	defer func() {
		_ = caches.Close()
	}()

	// Delivery provider
	provider, err := delivery.ActiveProvider(cfg.Delivery, log)
	if err != nil {
		log.Fatal("Failed to resolve delivery provider", zap.Error(err))
	}
	if cfg.Delivery.Enabled && cfg.Delivery.Token == "" {
		log.Warn("Delivery sync enabled without an API token; the carrier will reject registrations")
	}
	log.Info("Delivery provider selected",
		zap.String("provider", provider.Code()),
		zap.Bool("enabled", cfg.Delivery.Enabled),
	)

	// Media storage is optional; uploads answer 503 without it
	var productOpts []catalogapp.Option
	productOpts = append(productOpts, catalogapp.WithLogger(log))
	if cfg.Storage.Bucket != "" {
		objects, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := objects.EnsureBucket(ctx); err != nil {
			log.Warn("Object storage bucket check failed", zap.Error(err))
		}
		productOpts = append(productOpts, catalogapp.WithObjectStorage(objects))
		log.Info("Object storage ready", zap.String("bucket", objects.Bucket()))
	} else {
		log.Info("Object storage not configured, image uploads disabled")
	}

	// Application services
	productService := catalogapp.NewProductService(st.Products, caches.Products, catalogapp.Config{
		CacheTTL:      cfg.Catalog.CacheTTL,
		MaxUploadSize: cfg.Storage.MaxUploadSize,
		ImageWidth:    cfg.Media.OptimizeWidth,
	}, productOpts...)
	fulfillmentService := fulfillment.NewService(st.Orders, provider)
	fulfillmentService.SetBusinessMetrics(businessMetrics)
	checkoutService := checkout.NewService(st.Orders, st.Products, caches.Carts, fulfillmentService)
	checkoutService.SetBusinessMetrics(businessMetrics)
	orderService := orderapp.NewService(st.Orders, productService)

	// Unsynced-order sweeper, off unless an interval is configured
	var sweeper *scheduler.ResyncSweeper
	if cfg.Delivery.AutoResyncInterval > 0 {
		sweepCfg := scheduler.DefaultResyncSweeperConfig()
		sweepCfg.Interval = cfg.Delivery.AutoResyncInterval
		sweepCfg.MinAge = cfg.Delivery.AutoResyncMinAge
		sweepCfg.BatchSize = cfg.Delivery.AutoResyncBatch
		sweeper, err = scheduler.NewResyncSweeper(sweepCfg, fulfillmentService, log.Named("resync"))
		if err != nil {
			log.Fatal("Failed to create resync sweeper", zap.Error(err))
		}
		if err := sweeper.Start(ctx); err != nil {
			log.Fatal("Failed to start resync sweeper", zap.Error(err))
		}
	}

	// Admin authentication
	verifier, authService, err := buildAuth(ctx, cfg, caches, log)
	if err != nil {
		log.Fatal("Failed to initialize admin authentication", zap.Error(err))
	}
	log.Info("Admin authentication ready", zap.String("provider", authService.Provider()))

	// HTTP handlers
	systemHandler := handler.NewSystemHandler(version)
	systemHandler.AddCheck("store", st.Ping)
	systemHandler.AddCheck("cache", caches.Ping)
	handlers := router.Handlers{
		Region:  handler.NewRegionHandler(),
		Product: handler.NewProductHandler(productService),
		Cart:    handler.NewCartHandler(checkoutService),
		Order:   handler.NewOrderHandler(checkoutService, orderService, fulfillmentService),
		Auth:    handler.NewAuthHandler(authService),
		System:  systemHandler,
	}

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{MeterProvider: meterProvider, Logger: log}))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	router.Setup(engine, handlers, router.RouteOptions{
		AdminAuth:  middleware.AdminAuth(verifier),
		LocalLogin: authService.Provider() == config.AuthProviderLocal,
	}, router.WithAPIVersion("v1"))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	if sweeper != nil {
		if err := sweeper.Stop(shutdownCtx); err != nil {
			log.Warn("Resync sweeper did not stop cleanly", zap.Error(err))
		}
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
