// ABOUTME: Main entry point for the Icons API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"icons-api/api"
	"icons-api/api/handlers"
	"icons-api/core/icons"
	"icons-api/core/interfaces"
	"icons-api/core/services"
	"icons-api/infrastructure/cache/memory"
	"icons-api/infrastructure/cache/redis"
	"icons-api/infrastructure/cache/sqlite"
	stdhttp "icons-api/infrastructure/http/standard"
	logruslogger "icons-api/infrastructure/logger/logrus"
	"icons-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logruslogger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	logger.Info("Starting Icons API", map[string]interface{}{
		"port":       cfg.Server.Port,
		"cache_type": cfg.Cache.Type,
		"cache":      cfg.Cache.Enabled,
	})

	cache, closeCache := newCache(cfg.Cache, logger)
	defer closeCache()

	httpClient := stdhttp.NewStandardHTTPClient(cfg.Icons.Timeout,
		stdhttp.WithDialGuard(),
		stdhttp.WithLogger(logger),
	)

	deps := interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: httpClient,
		Resolver:   net.DefaultResolver,
		Logger:     logger,
	}

	iconService := services.NewIconService(deps, services.IconServiceConfig{
		CacheEnabled:  cfg.Cache.Enabled,
		CacheHours:    cfg.Cache.Hours,
		DomainMapping: cfg.Icons.DomainMapping,
		Limits: icons.Options{
			Timeout:         cfg.Icons.Timeout,
			MaxRedirects:    icons.RedirectLimit(cfg.Icons.MaxRedirects),
			MaxCandidates:   cfg.Icons.MaxCandidates,
			MaxLinks:        cfg.Icons.MaxLinks,
			MaxResponseSize: cfg.Icons.MaxResponseBytes,
		},
	})

	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
		Logger:     logger,
		RateLimit:  cfg.RateLimit.Requests,
		RateWindow: cfg.RateLimit.Window,
	})

	handlers.NewIconHandler(iconService).RegisterRoutes(humaAPI)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*cfg.Icons.Timeout + 5*time.Second, // page fetch plus icon fetch
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	logger.Info("Server stopped", nil)
}

// newCache builds the configured cache backend, falling back to memory when
// an external backend is unreachable.
func newCache(cfg config.CacheConfig, logger interfaces.Logger) (interfaces.Cache, func()) {
	noop := func() {}

	switch cfg.Type {
	case config.CacheTypeRedis:
		redisCache, err := redis.NewRedisCache(cfg.Redis)
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewMemoryCache(), noop
		}
		logger.Info("Using Redis cache", map[string]interface{}{
			"address": cfg.Redis.Address,
		})
		return redisCache, closer(redisCache, logger)

	case config.CacheTypeSQLite:
		sqliteCache, err := sqlite.NewSQLiteCache(cfg.SQLite.Path, logger)
		if err != nil {
			logger.Error("Failed to open SQLite cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
				"path":  cfg.SQLite.Path,
			})
			return memory.NewMemoryCache(), noop
		}
		logger.Info("Using SQLite cache", map[string]interface{}{
			"path": cfg.SQLite.Path,
		})
		return sqliteCache, closer(sqliteCache, logger)

	default:
		logger.Info("Using memory cache", nil)
		return memory.NewMemoryCache(), noop
	}
}

func closer(c io.Closer, logger interfaces.Logger) func() {
	return func() {
		if err := c.Close(); err != nil {
			logger.Warn("Failed to close cache", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

func init() {
	fmt.Println(`
    ____                         ___    ____  ____
   /  _/________  ____  _____   /   |  / __ \/  _/
   / // ___/ __ \/ __ \/ ___/  / /| | / /_/ // /
 _/ // /__/ /_/ / / / (__  )  / ___ |/ ____// /
/___/\___/\____/_/ /_/____/  /_/  |_/_/   /___/
	`)
}
