package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// UsageData is a cached provider usage/status query result for one
// user-product endpoint. The payload is kept opaque: whatever the
// provider returned is replayed to the portal UI as-is.
type UsageData struct {
	EndpointID  int             `json:"endpointId"`
	ProviderRef string          `json:"providerRef"`
	Payload     json.RawMessage `json:"payload"`
	CachedAt    time.Time       `json:"cachedAt"`
}

// UsageCache caches provider usage query results so repeated dashboard
// refreshes do not hammer the provisioning API.
type UsageCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewUsageCache creates a new UsageCache with the configured TTL.
func NewUsageCache(redis *RedisClient, ttl time.Duration) *UsageCache {
	return &UsageCache{redis: redis, ttl: ttl}
}

func (c *UsageCache) key(endpointID int) string {
	return fmt.Sprintf("usage:endpoint:%d", endpointID)
}

// Set stores a usage result under the endpoint key.
func (c *UsageCache) Set(ctx context.Context, data *UsageData) error {
	data.CachedAt = time.Now()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal usage data: %w", err)
	}
	if err := c.redis.Set(ctx, c.key(data.EndpointID), string(jsonData), c.ttl); err != nil {
		return fmt.Errorf("failed to set usage key: %w", err)
	}
	return nil
}

// Get retrieves a cached usage result for an endpoint. Returns redis.Nil
// (via the underlying client) on a cache miss.
func (c *UsageCache) Get(ctx context.Context, endpointID int) (*UsageData, error) {
	jsonData, err := c.redis.Get(ctx, c.key(endpointID))
	if err != nil {
		return nil, err
	}

	var data UsageData
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal usage data: %w", err)
	}
	return &data, nil
}

// Invalidate drops the cached result for an endpoint.
func (c *UsageCache) Invalidate(ctx context.Context, endpointID int) error {
	return c.redis.Delete(ctx, c.key(endpointID))
}
