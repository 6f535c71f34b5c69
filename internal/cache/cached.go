package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"SpecialsRadar/internal/models"
)

// CachedStore puts a small in-process LRU in front of another Store, so the
// fetch path does not hit the backend on every request. Snapshots are
// immutable once created, which is what makes handing out the cached pointer
// safe. Saves write through and refresh the entry; misses are not cached.
type CachedStore struct {
	inner Store
	lru   *lru.Cache[string, *models.Snapshot]
}

func NewCachedStore(inner Store, size int) (*CachedStore, error) {
	c, err := lru.New[string, *models.Snapshot](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &CachedStore{inner: inner, lru: c}, nil
}

func (s *CachedStore) Save(ctx context.Context, key string, snap *models.Snapshot) error {
	if err := s.inner.Save(ctx, key, snap); err != nil {
		return err
	}
	s.lru.Add(key, snap)
	return nil
}

func (s *CachedStore) Load(ctx context.Context, key string) (*models.Snapshot, error) {
	if snap, ok := s.lru.Get(key); ok {
		return snap, nil
	}

	snap, err := s.inner.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	s.lru.Add(key, snap)
	return snap, nil
}
