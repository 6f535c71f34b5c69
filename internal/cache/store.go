// Package cache persists product snapshots in a key/value store and serves
// reads back from it. One fixed key per site per crawl variant; writes are
// whole-object overwrites with last-writer-wins semantics.
package cache

import (
	"context"
	"errors"

	"SpecialsRadar/internal/models"
)

// ErrNotFound reports that no snapshot exists yet under a key. Callers treat
// it as "no data available", not as a failure; every other store error is
// fatal for the current operation.
var ErrNotFound = errors.New("snapshot not found")

// Store is the snapshot persistence contract.
type Store interface {
	// Save serializes the snapshot and overwrites the object under key.
	Save(ctx context.Context, key string, snap *models.Snapshot) error
	// Load returns the last saved snapshot, or ErrNotFound.
	Load(ctx context.Context, key string) (*models.Snapshot, error)
}
