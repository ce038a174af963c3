package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/oakpoint-health/booking-portal/internal/awsconfig"
	appconfig "github.com/oakpoint-health/booking-portal/internal/config"
	"github.com/oakpoint-health/booking-portal/internal/server"
	"github.com/oakpoint-health/booking-portal/pkg/logging"
)

func main() {
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting slot API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"table", cfg.SlotsTableName,
	)

	var repo server.SlotRepository
	if cfg.UseMemoryRepo {
		logger.Warn("using in-memory slot repository; data will not survive restarts")
		repo = server.NewMemoryRepository()
	} else {
		awsCfg, err := awsconfig.Load(context.Background(), cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		repo = server.NewDynamoRepository(awsconfig.NewDynamoClient(awsCfg, cfg), cfg.SlotsTableName, logger)
	}

	var listCache *server.ListCache
	if cfg.SlotsCacheEnabled {
		listCache = server.NewListCache(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}), cfg.SlotsCacheTTL, logger)
		logger.Info("slot list cache enabled", "redis_addr", cfg.RedisAddr, "ttl", cfg.SlotsCacheTTL)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	r := server.NewRouter(&server.RouterConfig{
		Logger:             logger,
		Handler:            server.NewHandler(repo, listCache, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
