// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides caching infrastructure for the panel: a
// byte-oriented Cacher interface with in-memory and Redis backends,
// and a typed wrapper used by the menu read path.
package cache

import (
	"context"
	"time"
)

// Cacher is the interface cache backends implement. All
// implementations must be safe for concurrent use. Values are []byte
// so the same interface serves both in-memory and Redis caches.
type Cacher interface {
	// Get retrieves a value. Returns ErrCacheMiss when absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL. A zero TTL uses the
	// backend's default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Stats holds cache hit/miss counters.
type Stats struct {
	Hits   int64
	Misses int64
	Sets   int64
}

// StatsProvider is an optional interface for backends with counters.
type StatsProvider interface {
	Stats() Stats
}

// Error is the error type for cache operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrCacheMiss indicates the key was not found or has expired.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed indicates the cache has been closed.
	ErrCacheClosed Error = "cache closed"
)
