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
	"go.uber.org/zap"

	appcatalog "github.com/grifons-arch/grifon-eshop-sub000/internal/application/catalog"
	appcustomer "github.com/grifons-arch/grifon-eshop-sub000/internal/application/customer"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/application/registration"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/shop"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/infrastructure/cache"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/infrastructure/config"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/infrastructure/logger"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/infrastructure/telemetry"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/infrastructure/upstream"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/interfaces/http/handler"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/interfaces/http/middleware"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer log.Sync()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer tracerProvider.Shutdown(ctx)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("failed to start profiler", zap.Error(err))
	}
	defer profiler.Stop()

	if cfg.Telemetry.Enabled && cfg.Telemetry.ProfilingEnabled {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("failed to enable span profiles", zap.Error(err))
		}
	}

	shops := make([]shop.Shop, 0, len(cfg.Shops.Entries))
	for _, e := range cfg.Shops.Entries {
		shops = append(shops, shop.Shop{
			ID:      e.ID,
			Code:    e.Code,
			Domain:  e.Domain,
			BaseURL: e.BaseURL,
		})
	}
	dir, err := shop.NewDirectory(shops, cfg.Shops.DefaultID)
	if err != nil {
		log.Fatal("invalid shop directory", zap.Error(err))
	}

	store, err := cache.New(ctx, cache.Options{
		Backend:       cfg.Cache.Backend,
		Capacity:      cfg.Cache.Capacity,
		DefaultTTL:    cfg.Cache.TTL,
		RedisAddr:     cfg.Cache.RedisAddr,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
		KeyPrefix:     cfg.Cache.KeyPrefix,
		Logger:        log,
	})
	if err != nil {
		log.Fatal("failed to create cache", zap.Error(err))
	}

	clients, err := upstream.NewFactory(upstream.Config{
		APIKey:      cfg.Upstream.APIKey,
		Timeout:     cfg.Upstream.Timeout,
		MaxAttempts: cfg.Upstream.MaxAttempts,
		RetryDelay:  cfg.Upstream.RetryDelay,
		Logger:      log,
	}, dir)
	if err != nil {
		log.Fatal("failed to create upstream client factory", zap.Error(err))
	}

	priceAccess := appcustomer.NewPriceAccessService(clients, log)
	categories := appcatalog.NewCategoryService(clients, store, cfg.Cache.TTLCategories, log)
	products := appcatalog.NewProductService(clients, dir, store, cfg.Cache.TTLProducts, priceAccess, log)
	groups := appcatalog.NewGroupService(clients, store, cfg.Cache.TTLCategories, priceAccess, log)
	pages := appcatalog.NewPageService(clients, store, cfg.Cache.TTLCategories, log)
	registrations := registration.NewService(dir, registration.Options{
		Secret:         cfg.Sync.Secret,
		SyncPath:       cfg.Sync.Path,
		PendingGroupID: cfg.Sync.PendingGroupID,
		CountryGroups:  cfg.Sync.CountryGroups,
		CountryShops:   cfg.Sync.CountryShops,
		AliasHost:      cfg.Sync.AliasHost,
		AliasTarget:    cfg.Sync.AliasTarget,
		Timeout:        cfg.Sync.Timeout,
		Logger:         log,
	})
	if cfg.Sync.Secret == "" {
		log.Warn("sync.secret is empty, registration endpoint is disabled")
	}

	base := handler.NewBaseHandler(log)

	var limiter, authLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter = middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine := router.New(router.Options{
		Logger:          log,
		CORS:            cors,
		BodyLimit:       cfg.HTTP.MaxBodySize,
		RateLimiter:     limiter,
		AuthRateLimiter: authLimiter,
		TracingEnabled:  tracerProvider.IsEnabled(),
		ServiceName:     cfg.Telemetry.ServiceName,
		TrustedProxies:  cfg.HTTP.TrustedProxies,
	}, router.Handlers{
		System:   handler.NewSystemHandler(base, dir, cfg.App.Name, cfg.App.Env),
		Catalog:  handler.NewCatalogHandler(base, dir, categories, products, groups, pages),
		Customer: handler.NewCustomerHandler(base, dir, priceAccess),
		Auth:     handler.NewAuthHandler(base, registrations),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server starting",
			zap.String("port", cfg.App.Port),
			zap.String("env", cfg.App.Env),
			zap.Int64("default_shop", dir.DefaultID()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
