package domain

import (
	"context"
	"time"
)

// DedupCache remembers dedup keys that are known to be stored.
// Implementations must treat a lookup error as "unknown", never as "present".
type DedupCache interface {
	// Contains reports whether key was recorded for month.
	Contains(ctx context.Context, month int, key string) (bool, error)

	// Add records keys for month. expiration applies to the whole month set.
	Add(ctx context.Context, month int, expiration time.Duration, keys ...string) error

	// Ping checks the health of the cache service.
	Ping(ctx context.Context) error
}
