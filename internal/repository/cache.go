package repository

import (
	"context"
	"encoding/json"
	"time"
)

// Cache abstracts short-lived key-value state shared by the HTTP handlers
// and the realtime hub. Implementations: Redis (multi-instance) or in-memory.
// Get returns (nil, nil) for a missing or expired key.
type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// SetJSON stores v encoded as JSON.
func SetJSON(ctx context.Context, c Cache, key string, v interface{}, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, b, ttl)
}

// GetJSON decodes the cached value into v and reports whether the key was present.
func GetJSON(ctx context.Context, c Cache, key string, v interface{}) (bool, error) {
	b, err := c.Get(ctx, key)
	if err != nil || b == nil {
		return false, err
	}
	return true, json.Unmarshal(b, v)
}
