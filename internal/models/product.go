// Package models defines the canonical data shapes shared by the crawlers,
// the snapshot store and the HTTP layer.
package models

import "time"

// Retailer identifies the source site of a product.
type Retailer string

const (
	RetailerOzBargain  Retailer = "OzBargain"
	RetailerColes      Retailer = "Coles"
	RetailerWoolworths Retailer = "Woolworths"
)

// Product is one normalized discounted item. Name is the only mandatory
// field; everything else defaults to empty/zero when the source page did not
// expose it.
type Product struct {
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	PriceWas     float64  `json:"price_was"`
	PricePerUnit string   `json:"price_per_unit"`
	ProductLink  string   `json:"product_link"`
	Image        string   `json:"image"`
	Discount     string   `json:"discount"`
	Retailer     Retailer `json:"retailer"`
}

// Snapshot is one complete, timestamped set of products for a site. A new
// sync always produces a whole new Snapshot; there is no merging.
type Snapshot struct {
	SyncedAt time.Time `json:"synced_at"`
	Count    int       `json:"count"`
	Data     []Product `json:"data"`
}

// PageStat records pagination bookkeeping for a single fetched page.
type PageStat struct {
	Page          int `json:"page"`
	ProductsFound int `json:"products_found"`
	TotalRecords  int `json:"total_records"`
}
