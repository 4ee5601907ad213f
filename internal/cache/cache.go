// Package cache implements the content-addressed result cache that guards
// cost-sensitive provider calls. Backends must degrade gracefully: a cache
// outage is logged and treated as a miss, never surfaced to callers.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long decisions stay cached. Brand identity is stable,
// so the default is deliberately long.
const DefaultTTL = 30 * 24 * time.Hour

// Cache is the result-cache contract. Get returns (value, true) on a hit
// and (nil, false) on a miss or backend failure. Set errors are advisory;
// callers log them and continue.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Purge drops all entries.
	Purge(ctx context.Context) error
	// Entries returns a best-effort count of cached entries.
	Entries(ctx context.Context) int
	Close() error
}
