// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides the Valkey-backed page cache (L2). Rendered viewer HTML
// is stored per catalog version and selection, so a catalog reload makes
// every old key unreachable even before InvalidateAll runs.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "solidview:page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// Store is a cache of rendered pages. Implementations are safe for
// concurrent use; a failed lookup is reported as a miss.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, html []byte)
	InvalidateAll(ctx context.Context)
}

// PageKey returns the cache key for one rendering of the viewer: the
// catalog version, the active principle id, and whether only the HTMX
// fragment was rendered.
func PageKey(version uint64, activeID string, partial bool) string {
	variant := "full"
	if partial {
		variant = "partial"
	}
	return fmt.Sprintf("v%d:%s:%s", version, activeID, variant)
}

// ValkeyCache manages full-page HTML caching in Valkey.
type ValkeyCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewValkeyCache creates a new page cache backed by the given Valkey client.
func NewValkeyCache(client *redis.Client, ttl time.Duration) *ValkeyCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &ValkeyCache{client: client, ttl: ttl}
}

// Get retrieves cached HTML for a page key.
func (pc *ValkeyCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return val, true
}

// Set stores rendered HTML for a page key with the configured TTL.
func (pc *ValkeyCache) Set(ctx context.Context, key string, html []byte) {
	if err := pc.client.Set(ctx, pageKeyPrefix+key, html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes all cached pages by scanning for the prefix.
// Used when the catalog is reloaded.
func (pc *ValkeyCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pageKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("page cache fully cleared", "deleted", deleted)
	}
}
