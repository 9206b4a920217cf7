package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/aihaccp/backend/internal/application/catalog"
	complianceapp "github.com/aihaccp/backend/internal/application/compliance"
	identityapp "github.com/aihaccp/backend/internal/application/identity"
	"github.com/aihaccp/backend/internal/application/metering"
	partnerapp "github.com/aihaccp/backend/internal/application/partner"
	"github.com/aihaccp/backend/internal/infrastructure/auth"
	"github.com/aihaccp/backend/internal/infrastructure/cache"
	"github.com/aihaccp/backend/internal/infrastructure/config"
	"github.com/aihaccp/backend/internal/infrastructure/logger"
	"github.com/aihaccp/backend/internal/infrastructure/persistence"
	"github.com/aihaccp/backend/internal/infrastructure/pricing"
	"github.com/aihaccp/backend/internal/infrastructure/storage"
	"github.com/aihaccp/backend/internal/infrastructure/telemetry"
	"github.com/aihaccp/backend/internal/infrastructure/vision"
	"github.com/aihaccp/backend/internal/interfaces/http/handler"
	"github.com/aihaccp/backend/internal/interfaces/http/middleware"
	"github.com/aihaccp/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

//	@title			HACCP Backend API
//	@version		1.0
//	@description	Multi-tenant food safety record keeping with usage metering
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.FromAppConfig(cfg.Log))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting HACCP backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry
	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	mp, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	lp, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = lp.Bridge(log, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))

	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tp.EnableSpanProfiles()
	}
	defer shutdownTelemetry(log, tp, mp, lp, profiler)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	tracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      !cfg.IsProduction(),
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log)
	if err := tracing.Register(db.DB); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}
	if dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, mp, cfg.Telemetry.DBSlowQueryThresh, log); err != nil {
		log.Warn("Database metrics disabled", zap.Error(err))
	} else if dbMetrics != nil {
		defer dbMetrics.Stop()
	}

	// Repositories
	orgRepo := persistence.NewGormOrganizationRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	configRepo := persistence.NewGormConfigurationRepository(db.DB)
	usageRepo := persistence.NewGormUsageRecordRepository(db.DB)
	temperatureLogRepo := persistence.NewGormTemperatureLogRepository(db.DB)
	cleaningPlanRepo := persistence.NewGormCleaningPlanRepository(db.DB)
	roomCleaningRepo := persistence.NewGormRoomCleaningRepository(db.DB)
	receptionRepo := persistence.NewGormMaterialReceptionRepository(db.DB)

	// Pricing and metering
	priceCache, cacheCloser := cache.NewPriceCache(ctx, cfg.Pricing, cfg.Redis, log)
	defer func() {
		_ = cacheCloser.Close()
	}()

	resolverOpts := []metering.PricingResolverOption{metering.WithResolverLogger(log)}
	ledgerOpts := []metering.UsageLedgerOption{
		metering.WithLedgerLogger(log),
		metering.WithReportWindow(cfg.Pricing.ReportWindow),
	}
	if priceCache != nil {
		resolverOpts = append(resolverOpts, metering.WithPriceCache(priceCache))
	}
	if mp.IsEnabled() {
		if meteringMetrics, err := telemetry.NewMeteringMetrics(mp.Meter("haccp.metering")); err != nil {
			log.Warn("Metering metrics disabled", zap.Error(err))
		} else {
			resolverOpts = append(resolverOpts, metering.WithResolverMetrics(meteringMetrics))
			ledgerOpts = append(ledgerOpts, metering.WithLedgerMetrics(meteringMetrics))
		}
	}

	defaults := pricing.NewFileDefaults(cfg.Pricing.DefaultsFile)
	resolver := metering.NewPricingResolver(configRepo, defaults, resolverOpts...)
	ledger := metering.NewUsageLedger(usageRepo, resolver, ledgerOpts...)
	ranges := metering.NewTemperatureRangeService(configRepo, defaults, log)
	configService := metering.NewConfigurationService(configRepo, resolver, resolver, log)

	if cfg.Pricing.SeedOnStart {
		if err := resolver.EnsureSeeded(ctx); err != nil {
			log.Error("Failed to seed pricing", zap.Error(err))
		}
		if err := ranges.EnsureSeeded(ctx); err != nil {
			log.Error("Failed to seed temperature ranges", zap.Error(err))
		}
	}

	// Image pipeline
	images, err := storage.New(cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}
	if s3Store, ok := images.(*storage.S3ImageStorage); ok {
		if err := s3Store.EnsureBucket(ctx); err != nil {
			log.Warn("Failed to ensure image bucket", zap.String("bucket", s3Store.Bucket()), zap.Error(err))
		}
	}
	analyzer := vision.NewMockAnalyzer(log)

	// Identity
	jwtService := auth.NewJWTService(cfg.JWT)
	revoker, closeRevoker := newRevoker(ctx, cfg, log)
	defer closeRevoker()

	// Application services
	authService := identityapp.NewAuthService(userRepo, jwtService, revoker, ledger, log)
	orgService := identityapp.NewOrganizationService(orgRepo, log)
	userService := identityapp.NewUserService(userRepo, orgRepo, log)
	productService := catalogapp.NewProductService(productRepo, ledger, log)
	supplierService := partnerapp.NewSupplierService(supplierRepo, ledger, log)
	temperatureLogService := complianceapp.NewTemperatureLogService(temperatureLogRepo, ranges, ledger, log)
	cleaningService := complianceapp.NewCleaningService(cleaningPlanRepo, roomCleaningRepo, ledger, log)
	receptionService := complianceapp.NewMaterialReceptionService(receptionRepo, supplierRepo, analyzer, images, ledger, log)

	// HTTP engine
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.HTTPMetrics(mp, log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	var limiters []*middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		limiters = append(limiters, limiter)
		engine.Use(middleware.RateLimit(limiter))
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		limiters = append(limiters, limiter)
		engine.Use(loginOnly(middleware.RateLimit(limiter)))
	}
	defer func() {
		for _, l := range limiters {
			l.Stop()
		}
	}()

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Revoker = revoker
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	router.RegisterAPI(engine, router.NewRouter(engine), router.Handlers{
		System:            handler.NewSystemHandler(db, version),
		Auth:              handler.NewAuthHandler(authService),
		Identity:          handler.NewIdentityHandler(orgService, userService),
		Product:           handler.NewProductHandler(productService),
		Supplier:          handler.NewSupplierHandler(supplierService),
		TemperatureLog:    handler.NewTemperatureLogHandler(temperatureLogService),
		Cleaning:          handler.NewCleaningHandler(cleaningService),
		MaterialReception: handler.NewMaterialReceptionHandler(receptionService),
		Configuration:     handler.NewConfigurationHandler(configService, ranges),
		Usage:             handler.NewUsageHandler(ledger, resolver),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

// loginOnly applies mw to the login endpoint and passes everything else through
func loginOnly(mw gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost && c.Request.URL.Path == "/api/v1/auth/login" {
			mw(c)
			return
		}
		c.Next()
	}
}

// newRevoker shares revocations through Redis when the redis cache backend is
// configured and reachable; otherwise logouts are tracked per instance.
func newRevoker(ctx context.Context, cfg *config.Config, log *zap.Logger) (auth.TokenRevoker, func()) {
	if cfg.Pricing.CacheBackend == cache.BackendRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		err := client.Ping(pingCtx).Err()
		if err == nil {
			log.Info("Using Redis token revocation list", zap.String("addr", cfg.Redis.Addr()))
			return auth.NewRedisRevocationList(client), func() { _ = client.Close() }
		}
		log.Warn("Redis unavailable, token revocation is local to this instance", zap.Error(err))
		_ = client.Close()
	}
	return auth.NewInMemoryRevocationList(), func() {}
}

func shutdownTelemetry(log *zap.Logger, tp *telemetry.TracerProvider, mp *telemetry.MeterProvider,
	lp *telemetry.LoggerProvider, profiler *telemetry.Profiler) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := profiler.Stop(); err != nil {
		log.Error("Failed to stop profiler", zap.Error(err))
	}
	if err := mp.Shutdown(ctx); err != nil {
		log.Error("Failed to shutdown meter provider", zap.Error(err))
	}
	if err := tp.Shutdown(ctx); err != nil {
		log.Error("Failed to shutdown tracer provider", zap.Error(err))
	}
	if err := lp.Shutdown(ctx); err != nil {
		log.Error("Failed to shutdown logger provider", zap.Error(err))
	}
}
