// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Typed wraps a byte-oriented Cacher with JSON encoding for a single
// value type, namespaced under a key prefix.
type Typed[T any] struct {
	cache  Cacher
	prefix string
	ttl    time.Duration
}

// NewTyped creates a typed view over a cache backend.
func NewTyped[T any](cache Cacher, prefix string, ttl time.Duration) *Typed[T] {
	return &Typed[T]{cache: cache, prefix: prefix, ttl: ttl}
}

func (t *Typed[T]) key(key string) string {
	return t.prefix + ":" + key
}

// Get retrieves and decodes a value. Returns (nil, nil) on cache miss
// so callers fall through to the database without branching on errors.
func (t *Typed[T]) Get(ctx context.Context, key string) (*T, error) {
	data, err := t.cache.Get(ctx, t.key(key))
	if errors.Is(err, ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var val T
	if err := json.Unmarshal(data, &val); err != nil {
		// Corrupt entry; drop it and report a miss.
		_ = t.cache.Delete(ctx, t.key(key))
		return nil, nil
	}
	return &val, nil
}

// Set encodes and stores a value.
func (t *Typed[T]) Set(ctx context.Context, key string, val T) error {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("encoding cache value: %w", err)
	}
	return t.cache.Set(ctx, t.key(key), data, t.ttl)
}

// Delete removes one key.
func (t *Typed[T]) Delete(ctx context.Context, key string) error {
	return t.cache.Delete(ctx, t.key(key))
}
