// Package crawler holds the pieces every retailer crawl shares: the
// sequential pagination driver, the raw-to-canonical transformer, the sync
// controller in front of the snapshot store, and the crawl metrics.
package crawler

import (
	"context"

	"SpecialsRadar/internal/models"
)

// Crawler is implemented once per retailer (and per crawl variant). Site is
// the stable identifier used in routes, job names and logs; StorageKey is the
// fixed object key the site's snapshot persists under. The two are separate
// because both Coles variants share the retailer but must never share a key.
type Crawler interface {
	Site() string
	StorageKey() string
	Retailer() models.Retailer
	Crawl(ctx context.Context) (*CrawlResult, error)
}

// CrawlResult aggregates one crawl run. Items are deduplicated raw records in
// page order; Stats holds one entry per fetched page. Total carries the
// source's own total-record count when the site reports one, zero otherwise.
type CrawlResult struct {
	Items []models.RawItem
	Stats []models.PageStat
	Total int
}
