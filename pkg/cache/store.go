// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

// Package cache provides the short-lived store behind the media catalog.
// Entries live for a fixed TTL; any mutation of the underlying collection
// drops the whole listing namespace, since filtered views may overlap.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long a catalog entry may serve reads.
const DefaultTTL = 5 * time.Minute

// Store is the client-injected cache. Implementations must replace entries
// atomically: a reader never observes a partially written entry.
type Store interface {
	// Get returns the entry for key when present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores val under key for ttl.
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)

	// DeletePrefix removes every entry whose key starts with prefix.
	DeletePrefix(ctx context.Context, prefix string)
}
