// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

// response.go provides a Valkey-backed cache for serialized public API
// responses (content lists and detail payloads). A hit skips the database
// queries and JSON marshalling entirely. All operations are best-effort:
// errors are logged and treated as misses.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a cached response stays valid when no
// invalidation arrives first.
const DefaultTTL = 5 * time.Minute

// ResponseCache stores rendered API payloads in Valkey.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache backed by the given client.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Get retrieves a cached payload. Returns (nil, false) on miss or error.
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := rc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("response cache hit", "key", key)
	return val, true
}

// Set stores a payload under the configured TTL.
func (rc *ResponseCache) Set(ctx context.Context, key string, payload []byte) {
	if err := rc.client.Set(ctx, key, payload, rc.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// Delete removes a single key.
func (rc *ResponseCache) Delete(ctx context.Context, key string) {
	if err := rc.client.Del(ctx, key).Err(); err != nil {
		slog.Warn("response cache delete error", "key", key, "error", err)
	}
}

// DeletePattern removes every key matching the glob pattern, scanning in
// batches. Returns the number of keys removed (best effort).
func (rc *ResponseCache) DeletePattern(ctx context.Context, pattern string) int {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := rc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "pattern", pattern, "error", err)
			return deleted
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "pattern", pattern, "error", err)
			} else {
				deleted += len(keys)
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return deleted
}
