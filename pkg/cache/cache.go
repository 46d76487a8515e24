package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/tair/foodgram/pkg/logger"
)

// Cache is a byte-oriented key/value store with per-key expiry
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Remember returns the cached value for key or loads, stores and returns it.
// Cache failures are logged and fall through to load.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}

	raw, ok, err := c.Get(ctx, key)
	if err != nil {
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Cache read failed")
	}
	if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			logger.Debug(ctx).Str("cache_key", key).Msg("Cache hit")
			return cached, nil
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return value, fmt.Errorf("failed to encode cache value: %w", err)
	}
	if err := c.Set(ctx, key, encoded, ttl); err != nil {
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Cache write failed")
	}
	return value, nil
}

// Generation returns the version stored at key, starting a new one when it is
// missing. Callers append it to their cache keys, so NewGeneration orphans
// every entry written under the previous version, including writes from loads
// that were still running when the version moved.
func Generation(ctx context.Context, c Cache, key string) string {
	raw, ok, err := c.Get(ctx, key)
	if err != nil {
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Cache read failed")
	}
	if ok && len(raw) > 0 {
		return string(raw)
	}
	return NewGeneration(ctx, c, key)
}

var generationSeq atomic.Uint64

// NewGeneration stores a fresh version at key and returns it
func NewGeneration(ctx context.Context, c Cache, key string) string {
	gen := strconv.FormatInt(time.Now().UnixNano(), 36) + "." + strconv.FormatUint(generationSeq.Add(1), 36)
	if err := c.Set(ctx, key, []byte(gen), 0); err != nil {
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Cache write failed")
	}
	return gen
}
