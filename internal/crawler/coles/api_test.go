package coles

import "testing"

const productsPayload = `{
  "noOfResults": 1742,
  "results": [
    {
      "_type": "PRODUCT",
      "id": 2351888,
      "description": "Arnott's Tim Tam Original 200g",
      "pricing": {
        "now": 2.50,
        "was": 5.00,
        "comparable": "$1.25 per 100g",
        "priceDescription": "Was $5.00"
      },
      "imageUris": [{"uri": "/2351888.jpg"}]
    },
    {
      "_type": "SINGLE_TILE",
      "adId": "abc123"
    },
    {
      "_type": "PRODUCT",
      "id": 99,
      "description": "  ",
      "pricing": {"now": 1.00}
    },
    {
      "_type": "PRODUCT",
      "id": 4418291,
      "description": "Palmolive Dishwashing Liquid 750ml",
      "pricing": {
        "now": 3.25,
        "was": 6.50,
        "comparable": "$0.43 per 100ml",
        "priceDescription": "Was $6.50"
      },
      "imageUris": []
    }
  ]
}`

func TestProjectResults(t *testing.T) {
	items, total := projectResults([]byte(productsPayload), "https://www.coles.com.au")

	if total != 1742 {
		t.Errorf("expected upstream total 1742, got %d", total)
	}
	// The ad tile and the blank description are skipped.
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	timtam := items[0]
	if got := timtam.Name(); got != "Arnott's Tim Tam Original 200g" {
		t.Errorf("unexpected name %q", got)
	}
	if got := timtam.Num("price"); got != 2.50 {
		t.Errorf("expected price 2.50, got %v", got)
	}
	if got := timtam.Num("price_was"); got != 5.00 {
		t.Errorf("expected was price 5.00, got %v", got)
	}
	if got := timtam.Str("price_per_unit"); got != "$1.25 per 100g" {
		t.Errorf("unexpected unit price %q", got)
	}
	if got := timtam.Str("discount"); got != "Was $5.00" {
		t.Errorf("unexpected discount %q", got)
	}
	if got := timtam.Str("product_link"); got != "https://www.coles.com.au/product/2351888" {
		t.Errorf("unexpected link %q", got)
	}
	want := "https://www.coles.com.au/_next/image?url=https://productimages.coles.com.au/productimages/2351888.jpg&w=256&q=90"
	if got := timtam.Str("image"); got != want {
		t.Errorf("unexpected image %q", got)
	}

	if got := items[1].Str("image"); got != "" {
		t.Errorf("expected empty image when imageUris is empty, got %q", got)
	}
}

func TestProjectResultsEmptyBody(t *testing.T) {
	items, total := projectResults([]byte(`{}`), "https://www.coles.com.au")
	if len(items) != 0 || total != 0 {
		t.Errorf("expected nothing from empty payload, got %d items, total %d", len(items), total)
	}
}
