package crawler

import (
	"context"
	"fmt"
	"log"
	"time"

	"SpecialsRadar/internal/models"
)

// Page is what a site's fetch function produces for one listing page.
// TotalRecords is the source's own total when the payload carries one.
type Page struct {
	Items        []models.RawItem
	TotalRecords int
}

// PageFunc fetches and extracts one listing page. Page numbers start at 1.
type PageFunc func(ctx context.Context, page int) (Page, error)

// Driver walks listing pages sequentially and aggregates the results. All
// per-run state lives inside Run, so one Driver value can be reused across
// runs without anything leaking between them.
type Driver struct {
	Site     string
	MaxPages int
	Delay    time.Duration
	Fetch    PageFunc
	Metrics  *Metrics
}

// Run iterates pages 1..MaxPages. An error on the very first page means the
// site could not be reached at all and fails the run; an error on a later
// page just ends it early with whatever was aggregated. A page with zero
// items is recorded in the stats and the run moves on, since the sources
// paginate sparsely near the tail. Duplicate names keep their first
// occurrence; later ones are dropped silently.
func (d *Driver) Run(ctx context.Context) (*CrawlResult, error) {
	var (
		items []models.RawItem
		stats []models.PageStat
		total int
		seen  = make(map[string]struct{})
	)

	for page := 1; page <= d.MaxPages; page++ {
		if page > 1 && d.Delay > 0 {
			select {
			case <-time.After(d.Delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := d.Fetch(ctx, page)
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("%s: first page failed: %w", d.Site, err)
			}
			log.Printf("[%s] page %d failed, stopping run: %v", d.Site, page, err)
			break
		}
		d.Metrics.IncPage(d.Site)

		if result.TotalRecords > 0 {
			total = result.TotalRecords
		}
		stats = append(stats, models.PageStat{
			Page:          page,
			ProductsFound: len(result.Items),
			TotalRecords:  result.TotalRecords,
		})

		if len(result.Items) == 0 {
			log.Printf("[%s] page %d returned no products, continuing", d.Site, page)
			continue
		}

		kept := 0
		for _, item := range result.Items {
			name := item.Name()
			if name == "" {
				continue
			}
			if _, dup := seen[name]; dup {
				d.Metrics.IncDedupDropped(d.Site)
				continue
			}
			seen[name] = struct{}{}
			items = append(items, item)
			kept++
		}
		d.Metrics.AddItems(d.Site, kept)
		log.Printf("[%s] page %d: %d found, %d kept, %d total so far",
			d.Site, page, len(result.Items), kept, len(items))
	}

	return &CrawlResult{Items: items, Stats: stats, Total: total}, nil
}
