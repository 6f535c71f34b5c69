package cache

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"SpecialsRadar/internal/models"
)

func sampleSnapshot() *models.Snapshot {
	return &models.Snapshot{
		SyncedAt: time.Date(2025, 7, 2, 14, 0, 0, 0, time.UTC),
		Count:    2,
		Data: []models.Product{
			{
				Name:         "Choc Bar 250g",
				Price:        4.50,
				PriceWas:     9.00,
				PricePerUnit: "$1.80 per 100g",
				ProductLink:  "https://www.coles.com.au/product/choc-bar-250g-123",
				Image:        "https://www.coles.com.au/_next/image?url=a&w=256",
				Discount:     "Save $4.50",
				Retailer:     models.RetailerColes,
			},
			{Name: "Dish Tablets 30 Pack", Price: 12, Retailer: models.RetailerColes},
		},
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	snap := sampleSnapshot()

	if err := store.Save(ctx, "crawlers/coles_specials_v2.json", snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx, "crawlers/coles_specials_v2.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, snap) {
		t.Fatalf("round-trip mismatch:\n got  %+v\n want %+v", got, snap)
	}
}

func TestMemoryStoreLoadMissingKey(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Load(context.Background(), "crawlers/unknown.json")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreOverwrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := sampleSnapshot()
	if err := store.Save(ctx, "k", first); err != nil {
		t.Fatalf("save first: %v", err)
	}

	second := &models.Snapshot{
		SyncedAt: time.Date(2025, 7, 9, 14, 0, 0, 0, time.UTC),
		Count:    1,
		Data:     []models.Product{{Name: "Soap", Retailer: models.RetailerColes}},
	}
	if err := store.Save(ctx, "k", second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	got, err := store.Load(ctx, "k")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Count != 1 || len(got.Data) != 1 || got.Data[0].Name != "Soap" {
		t.Fatalf("overwrite not visible, got %+v", got)
	}
}
