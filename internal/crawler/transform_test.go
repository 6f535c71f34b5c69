package crawler

import (
	"testing"
	"time"

	"SpecialsRadar/internal/models"
)

func TestTransformMapsFieldsWithDefaults(t *testing.T) {
	items := []models.RawItem{
		{
			"name":           "Choc Bar 250g",
			"price":          4.50,
			"price_was":      9.00,
			"price_per_unit": "$1.80 per 100g",
			"product_link":   "https://www.coles.com.au/product/choc-bar-123",
			"image":          "https://example.com/choc.png",
			"discount":       "Save $4.50",
		},
		{"name": "Mystery Item"}, // all optional fields absent
	}

	snap := Transform(items, models.RetailerColes, 0)
	if snap == nil {
		t.Fatal("snapshot is nil")
	}
	if snap.Count != 2 || len(snap.Data) != 2 {
		t.Fatalf("count = %d, len = %d, want 2/2", snap.Count, len(snap.Data))
	}

	first := snap.Data[0]
	if first.Name != "Choc Bar 250g" || first.Price != 4.50 || first.PriceWas != 9.00 {
		t.Errorf("first product mapped wrong: %+v", first)
	}
	if first.Retailer != models.RetailerColes {
		t.Errorf("retailer = %q, want Coles", first.Retailer)
	}

	second := snap.Data[1]
	if second.Price != 0 || second.PriceWas != 0 || second.PricePerUnit != "" ||
		second.ProductLink != "" || second.Image != "" || second.Discount != "" {
		t.Errorf("absent fields must default to zero values: %+v", second)
	}
}

func TestTransformEmptyInputReturnsNil(t *testing.T) {
	if snap := Transform(nil, models.RetailerColes, 0); snap != nil {
		t.Fatalf("Transform(nil) = %+v, want nil", snap)
	}
	if snap := Transform([]models.RawItem{}, models.RetailerColes, 100); snap != nil {
		t.Fatalf("Transform(empty) = %+v, want nil even with an upstream total", snap)
	}
	// Items that all lack names count as empty too.
	if snap := Transform([]models.RawItem{{"price": 1.0}}, models.RetailerColes, 0); snap != nil {
		t.Fatalf("Transform(nameless) = %+v, want nil", snap)
	}
}

func TestTransformUpstreamTotalOverridesCount(t *testing.T) {
	items := []models.RawItem{{"name": "A"}, {"name": "B"}}

	snap := Transform(items, models.RetailerColes, 480)
	if snap == nil {
		t.Fatal("snapshot is nil")
	}
	if snap.Count != 480 {
		t.Fatalf("count = %d, want the authoritative upstream 480", snap.Count)
	}
	if len(snap.Data) != 2 {
		t.Fatalf("len(data) = %d, want 2", len(snap.Data))
	}
}

func TestTransformStampsUTCNow(t *testing.T) {
	before := time.Now().UTC()
	snap := Transform([]models.RawItem{{"name": "A"}}, models.RetailerWoolworths, 0)
	after := time.Now().UTC()

	if snap.SyncedAt.Location() != time.UTC {
		t.Fatalf("synced_at location = %v, want UTC", snap.SyncedAt.Location())
	}
	if snap.SyncedAt.Before(before) || snap.SyncedAt.After(after) {
		t.Fatalf("synced_at %v outside [%v, %v]", snap.SyncedAt, before, after)
	}
}
