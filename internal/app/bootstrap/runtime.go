// Package bootstrap wires optional infrastructure for the API process.
// Builders degrade gracefully: a missing or unreachable backend yields nil
// and the caller falls back to an in-process alternative.
package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/localsight/localsight-platform/internal/availability"
	appconfig "github.com/localsight/localsight-platform/internal/config"
	"github.com/localsight/localsight-platform/pkg/logging"
)

// BuildRedisClient constructs a Redis client from config, returning nil when
// Redis is not configured. When verify is true an unreachable server also
// yields nil so callers can fall back to in-memory alternatives.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildAvailabilityCache returns a Redis-backed availability cache when a
// client is provided, an in-memory cache otherwise.
func BuildAvailabilityCache(client *redis.Client, ttl time.Duration, logger *logging.Logger) availability.Cache {
	if ttl <= 0 {
		ttl = availability.DefaultCacheTTL
	}
	if client != nil {
		return availability.NewRedisCache(client, ttl, logger)
	}
	return availability.NewMemoryCache(ttl)
}

// BuildPgxPool opens a pgx connection pool and verifies connectivity.
func BuildPgxPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
