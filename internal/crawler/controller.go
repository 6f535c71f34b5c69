package crawler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"SpecialsRadar/internal/cache"
	"SpecialsRadar/internal/history"
	"SpecialsRadar/internal/models"
)

// ErrNoResults reports that a crawl completed but produced nothing usable.
// The previously cached snapshot, if any, stays untouched.
var ErrNoResults = errors.New("sync produced no results")

// Controller drives the force-sync and fetch operations for all sites.
// Fetch only ever reads the store; ForceSync is the single writer path.
type Controller struct {
	store   cache.Store
	history *history.Repository
	metrics *Metrics
}

// NewController wires the snapshot store, the optional run-history repo and
// the optional metrics.
func NewController(store cache.Store, hist *history.Repository, metrics *Metrics) *Controller {
	return &Controller{store: store, history: hist, metrics: metrics}
}

// Fetch returns the last persisted snapshot for the crawler's site. It never
// triggers a crawl; cache.ErrNotFound means no sync has succeeded yet.
func (c *Controller) Fetch(ctx context.Context, cr Crawler) (*models.Snapshot, error) {
	return c.store.Load(ctx, cr.StorageKey())
}

// ForceSync runs the full pipeline: crawl, transform, persist. On any
// failure the cached snapshot is left exactly as it was; there is no partial
// overwrite.
func (c *Controller) ForceSync(ctx context.Context, cr Crawler) (*models.Snapshot, error) {
	site := cr.Site()
	start := time.Now()
	log.Printf("[%s] force sync started", site)

	result, err := cr.Crawl(ctx)
	if err != nil {
		c.metrics.IncSyncError(site, "crawl")
		c.recordRun(site, start, 0, 0, err)
		return nil, fmt.Errorf("%s: crawl failed: %w", site, err)
	}

	snap := Transform(result.Items, cr.Retailer(), result.Total)
	if snap == nil {
		c.metrics.IncSyncError(site, "empty")
		c.recordRun(site, start, 0, len(result.Stats), ErrNoResults)
		return nil, fmt.Errorf("%s: %w", site, ErrNoResults)
	}

	if err := c.store.Save(ctx, cr.StorageKey(), snap); err != nil {
		c.metrics.IncSyncError(site, "persist")
		c.recordRun(site, start, len(snap.Data), len(result.Stats), err)
		return nil, fmt.Errorf("%s: persist snapshot: %w", site, err)
	}

	elapsed := time.Since(start)
	c.metrics.ObserveSync(site, elapsed)
	c.recordRun(site, start, len(snap.Data), len(result.Stats), nil)
	log.Printf("[%s] force sync finished: %d products (%d pages) in %s",
		site, len(snap.Data), len(result.Stats), elapsed.Round(time.Millisecond))
	return snap, nil
}

// recordRun writes the audit row. History problems are logged and swallowed:
// the sync outcome must not depend on the audit trail.
func (c *Controller) recordRun(site string, start time.Time, products, pages int, runErr error) {
	if c.history == nil {
		return
	}
	run := history.Run{
		Site:      site,
		Status:    "success",
		Products:  products,
		Pages:     pages,
		Duration:  time.Since(start),
		StartedAt: start.UTC(),
	}
	if runErr != nil {
		run.Status = "failed"
		run.Error = runErr.Error()
	}
	if err := c.history.RecordRun(run); err != nil {
		log.Printf("[%s] failed to record sync run: %v", site, err)
	}
}
