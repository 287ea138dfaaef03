package ranking

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jonathan/job-match/internal/types"
)

// DefaultCacheTTL is how long a cached match result stays valid
const DefaultCacheTTL = 15 * time.Minute

// defaultKeyPrefix namespaces match results in a shared Redis
const defaultKeyPrefix = "job-match:result:"

// Cache stores computed match results keyed by the content of the scored inputs.
type Cache interface {
	Get(ctx context.Context, key string) (*types.MatchResult, bool, error)
	Set(ctx context.Context, key string, result *types.MatchResult) error
}

// cacheInput is the exact set of fields that determine a match result.
type cacheInput struct {
	Candidate types.Candidate    `json:"candidate"`
	Job       types.Job          `json:"job"`
	Weights   types.WeightConfig `json:"weights"`
}

// CacheKey derives a stable key from everything that influences the result.
// The engine is referentially transparent, so equal keys always mean equal results.
func CacheKey(candidate types.Candidate, job types.Job, weights types.WeightConfig) (string, error) {
	data, err := json.Marshal(cacheInput{Candidate: candidate, Job: job, Weights: weights})
	if err != nil {
		return "", fmt.Errorf("marshal cache input: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// RedisCache implements Cache on top of Redis
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache. A non-positive ttl uses DefaultCacheTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{
		client: client,
		prefix: defaultKeyPrefix,
		ttl:    ttl,
	}
}

// Get returns the cached result for key, if present
func (c *RedisCache) Get(ctx context.Context, key string) (*types.MatchResult, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get cached match %s: %w", key, err)
	}

	var result types.MatchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, fmt.Errorf("decode cached match %s: %w", key, err)
	}
	return &result, true, nil
}

// Set stores result under key with the configured TTL
func (c *RedisCache) Set(ctx context.Context, key string, result *types.MatchResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode match for cache %s: %w", key, err)
	}

	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache match %s: %w", key, err)
	}
	return nil
}

// Ping checks if Redis connection is alive
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
