package crawler

import (
	"time"

	"SpecialsRadar/internal/models"
)

// Transform maps deduplicated raw items onto the canonical Product schema and
// stamps the snapshot. Field lookup is by name with per-field defaults, so a
// site that never produced e.g. a unit price just yields empty strings there.
//
// Count is the length of the transformed data, except when upstreamTotal is
// positive: the Coles interception variant reports the catalogue's own
// noOfResults, which is authoritative for how many specials exist upstream
// (the collected subset only covers items that carried a name).
//
// Returns nil when there is nothing to persist, so the controller never
// overwrites a good cached snapshot with an empty one.
func Transform(items []models.RawItem, retailer models.Retailer, upstreamTotal int) *models.Snapshot {
	if len(items) == 0 {
		return nil
	}

	data := make([]models.Product, 0, len(items))
	for _, item := range items {
		name := item.Name()
		if name == "" {
			continue
		}
		data = append(data, models.Product{
			Name:         name,
			Price:        item.Num("price"),
			PriceWas:     item.Num("price_was"),
			PricePerUnit: item.Str("price_per_unit"),
			ProductLink:  item.Str("product_link"),
			Image:        item.Str("image"),
			Discount:     item.Str("discount"),
			Retailer:     retailer,
		})
	}
	if len(data) == 0 {
		return nil
	}

	count := len(data)
	if upstreamTotal > 0 {
		count = upstreamTotal
	}
	return &models.Snapshot{
		SyncedAt: time.Now().UTC(),
		Count:    count,
		Data:     data,
	}
}
