// Package cache stores serialized projection results keyed by a hash of the
// request that produced them.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
)

// ErrMiss is returned by Get when a key is absent or expired
var ErrMiss = errors.New("cache: miss")

// Cache is a byte-oriented key/value store with per-entry expiry
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key derives a cache key from a request payload and the UTC calendar day it is
// evaluated on. The same plan projected on another day gets another key.
func Key(prefix string, payload []byte, asOf time.Time) string {
	d := xxhash.New()
	_, _ = d.Write(payload)
	_, _ = d.WriteString(asOf.UTC().Format("2006-01-02"))
	return fmt.Sprintf("%s:%016x", prefix, d.Sum64())
}

// GetJSON loads a JSON value stored under key into v
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return nil
}

// SetJSON stores v as JSON under key
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}
