// Package cache stores finalized envelopes and derived artifacts by content
// key, so identical building configs are massed once.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory, for the CLI.
//   - [RedisCache]: a shared Redis instance, for `massform serve`.
//   - [MongoCache]: a MongoDB collection with a TTL index, for deployments
//     that keep build history next to other documents.
//   - [NullCache]: stores nothing; used with --no-cache and in tests.
//
// # Keys
//
// A [Keyer] turns the hash of a normalized build config into a key. Keys
// from [DefaultKeyer] look like "envelope:<sha256>" and
// "artifact:<sha256>"; a [ScopedKeyer] prefixes them for isolation.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Entry lifetimes. Envelopes are a pure function of their config, so they
// only expire to bound disk use.
const (
	TTLEnvelope = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
