package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"savor/internal/config"
	"savor/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "savor"

type CacheService interface {
	// Pantry stats
	GetStats(ctx context.Context) (*models.PantryStats, error)
	SetStats(ctx context.Context, stats *models.PantryStats, ttl time.Duration) error

	// Recipe suggestions, keyed by a fingerprint of the pantry summary
	GetRecipe(ctx context.Context, fingerprint string) (*models.SuggestionResult, error)
	SetRecipe(ctx context.Context, fingerprint string, result *models.SuggestionResult, ttl time.Duration) error

	// Cache invalidation
	InvalidatePantry(ctx context.Context) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCacheService connects to redis. An unreachable server is logged,
// not fatal: every cache read degrades to a miss.
func NewRedisCacheService(cfg config.RedisConfig, logger *zap.Logger) CacheService {
	// Accept redis://host:port as well as host:port
	addr := cfg.Addr
	for _, scheme := range []string{"redis://", "rediss://"} {
		addr = strings.TrimPrefix(addr, scheme)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis ping failed on initialization", zap.String("addr", addr), zap.Error(err))
	} else {
		logger.Debug("Redis connection established", zap.String("addr", addr))
	}

	return NewCacheServiceWithClient(client, logger)
}

// NewCacheServiceWithClient wraps an existing client.
func NewCacheServiceWithClient(client *redis.Client, logger *zap.Logger) CacheService {
	return &redisCacheService{client: client, logger: logger}
}

func statsKey() string {
	return keyPrefix + ":pantry:stats"
}

func recipeKey(fingerprint string) string {
	return fmt.Sprintf("%s:recipe:%s", keyPrefix, fingerprint)
}

func rateLimitKey(key string) string {
	return fmt.Sprintf("%s:ratelimit:%s", keyPrefix, key)
}

func (r *redisCacheService) GetStats(ctx context.Context) (*models.PantryStats, error) {
	var stats models.PantryStats
	found, err := r.getJSON(ctx, statsKey(), &stats)
	if err != nil || !found {
		return nil, err
	}
	return &stats, nil
}

func (r *redisCacheService) SetStats(ctx context.Context, stats *models.PantryStats, ttl time.Duration) error {
	return r.setJSON(ctx, statsKey(), stats, ttl)
}

func (r *redisCacheService) GetRecipe(ctx context.Context, fingerprint string) (*models.SuggestionResult, error) {
	var result models.SuggestionResult
	found, err := r.getJSON(ctx, recipeKey(fingerprint), &result)
	if err != nil || !found {
		return nil, err
	}
	return &result, nil
}

func (r *redisCacheService) SetRecipe(ctx context.Context, fingerprint string, result *models.SuggestionResult, ttl time.Duration) error {
	return r.setJSON(ctx, recipeKey(fingerprint), result, ttl)
}

// InvalidatePantry drops the derived pantry views. Recipe entries are keyed
// by pantry content and need no invalidation.
func (r *redisCacheService) InvalidatePantry(ctx context.Context) error {
	return r.client.Del(ctx, statsKey()).Err()
}

// IsRateLimited counts one hit against key and reports whether the count
// exceeds limit within window. The window starts at the first hit.
func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := rateLimitKey(key)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, cacheKey)
	pipe.ExpireNX(ctx, cacheKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return incr.Val() > int64(limit), nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// getJSON reports found=false on a cache miss.
func (r *redisCacheService) getJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		r.logger.Warn("Dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		r.client.Del(ctx, key)
		return false, nil
	}
	return true, nil
}

func (r *redisCacheService) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}
