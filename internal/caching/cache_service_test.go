package caching

import (
	"context"
	"testing"
	"time"

	"savor/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func unreachableCache() CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	return NewCacheServiceWithClient(client, zap.NewNop())
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "savor:pantry:stats", statsKey())
	assert.Equal(t, "savor:recipe:abc123", recipeKey("abc123"))
	assert.Equal(t, "savor:ratelimit:receipts:10.0.0.1", rateLimitKey("receipts:10.0.0.1"))
}

// Callers fail open, so an outage must surface as an error rather than a
// silent miss or a false "limited".
func TestUnreachableRedisReturnsErrors(t *testing.T) {
	cache := unreachableCache()
	ctx := context.Background()

	stats, err := cache.GetStats(ctx)
	assert.Error(t, err)
	assert.Nil(t, stats)

	limited, err := cache.IsRateLimited(ctx, "receipts:10.0.0.1", 5, time.Minute)
	assert.Error(t, err)
	assert.False(t, limited)

	assert.Error(t, cache.SetRecipe(ctx, "fp", &models.SuggestionResult{}, time.Minute))
	assert.Error(t, cache.Ping(ctx))
}
