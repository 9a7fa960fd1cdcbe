package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
)

const latestKeyPrefix = "vessel:latest:"

// ResultCache mirrors the latest classification per vessel into redis so
// map consumers can read it without touching sqlite. A nil cache is valid
// and turns every operation into a no-op; the service works identically
// with caching disabled.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a result cache, or nil when addr is empty
func New(addr, password string, ttl time.Duration) *ResultCache {
	if addr == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ResultCache{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password}),
		ttl:    ttl,
	}
}

// StoreResults writes the latest classification per vessel
func (c *ResultCache) StoreResults(ctx context.Context, results []models.ClassificationResult) error {
	if c == nil {
		return nil
	}

	pipe := c.client.Pipeline()
	for _, result := range results {
		payload, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to marshal result for %s: %w", result.Sample.RegistryID, err)
		}
		pipe.Set(ctx, latestKeyPrefix+result.Sample.RegistryID, payload, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write result cache: %w", err)
	}
	return nil
}

// GetResult reads the cached latest classification for one vessel.
// Returns nil without error on a miss.
func (c *ResultCache) GetResult(ctx context.Context, registryID string) (*models.ClassificationResult, error) {
	if c == nil {
		return nil, nil
	}

	payload, err := c.client.Get(ctx, latestKeyPrefix+registryID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read result cache: %w", err)
	}

	var result models.ClassificationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to decode cached result: %w", err)
	}
	return &result, nil
}

// Close releases the redis connection
func (c *ResultCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
