package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys for the catalog reference lists
const (
	KeyMaterialTypes  = "gestaomv:ref:material_types"
	KeyUnitsOfMeasure = "gestaomv:ref:units_of_measure"
)

// ReferenceTTL bounds staleness of cached reference data
const ReferenceTTL = 5 * time.Minute

// ReferenceCache is a small JSON cache over redis for rarely-changing
// reference lists. A nil receiver is a disabled cache: every lookup misses.
type ReferenceCache struct {
	client *redis.Client
}

// New wraps a redis client; pass the result of NewClient or nil to disable
func New(client *redis.Client) *ReferenceCache {
	if client == nil {
		return nil
	}
	return &ReferenceCache{client: client}
}

// NewClient connects to redis and verifies the connection
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

// GetJSON loads and unmarshals a cached value; the bool reports a hit
func (c *ReferenceCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c == nil {
		return false, nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals and stores a value with the reference TTL
func (c *ReferenceCache) SetJSON(ctx context.Context, key string, value interface{}) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ReferenceTTL).Err()
}

// Invalidate drops a cached key
func (c *ReferenceCache) Invalidate(ctx context.Context, key string) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, key).Err()
}
