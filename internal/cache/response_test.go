// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

// Response cache tests run against a real Valkey on DB 15 and are
// skipped when it is unreachable.
package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"manassa/internal/models"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "detail:*").Result()
		more, _ := client.Keys(ctx, "list:*").Result()
		keys = append(keys, more...)
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return client
}

func TestResponseCacheRoundTrip(t *testing.T) {
	rc := NewResponseCache(testClient(t), time.Minute)
	ctx := context.Background()

	key := DetailKey(models.KindArticle, "cache-test-roundtrip")

	if _, ok := rc.Get(ctx, key); ok {
		t.Fatal("cold cache returned a hit")
	}

	rc.Set(ctx, key, []byte(`{"cached":true}`))

	got, ok := rc.Get(ctx, key)
	if !ok {
		t.Fatal("warm cache missed")
	}
	if string(got) != `{"cached":true}` {
		t.Errorf("payload: got %q", got)
	}

	rc.Delete(ctx, key)
	if _, ok := rc.Get(ctx, key); ok {
		t.Error("deleted key still hits")
	}
}

func TestResponseCacheDeletePattern(t *testing.T) {
	rc := NewResponseCache(testClient(t), time.Minute)
	ctx := context.Background()

	for page := 1; page <= 3; page++ {
		rc.Set(ctx, ListKey(models.KindArticle, page), []byte("x"))
	}
	rc.Set(ctx, ListKey(models.KindBook, 1), []byte("x"))

	n := rc.DeletePattern(ctx, "list:article:page:*")
	if n != 3 {
		t.Errorf("purged: got %d, want 3", n)
	}

	// Other kinds are untouched.
	if _, ok := rc.Get(ctx, ListKey(models.KindBook, 1)); !ok {
		t.Error("purge leaked into another kind")
	}
}
