// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as caching, HTTP communication, and logging.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: In-memory cache backed by patrickmn/go-cache
// - cache/redis: Redis-based cache implementation
// - cache/sqlite: SQLite-based persistent cache
// - http/standard: net/http client that never follows redirects and can refuse internal addresses at dial time
// - logger/logrus: Structured logger with optional rotating file output
//
// # Cache Implementations
//
// Memory Cache Example:
//
//	cache := memory.NewMemoryCache()
//	err := cache.Set(ctx, "icon:example.com", entry, 24*time.Hour)
//	value, err := cache.Get(ctx, "icon:example.com")
//
// Redis Cache Example:
//
//	cache, err := redis.NewRedisCache(config.RedisConfig{
//	    Address:   "localhost:6379",
//	    KeyPrefix: "icons:",
//	})
//
// # HTTP Client
//
// Redirects are returned to the caller so every hop can be checked:
//
//	client := standard.NewStandardHTTPClient(20*time.Second, standard.WithDialGuard())
//	resp, err := client.Get(ctx, "https://example.com", header)
//	if err != nil {
//	    // Handle error
//	}
//	defer resp.Body().Close()
//
// # Logger
//
//	logger, err := logrus.New(config.LogConfig{Level: "info", Format: "json"})
//	logger.Info("Processing request", map[string]interface{}{
//	    "domain": "example.com",
//	})
package infrastructure
