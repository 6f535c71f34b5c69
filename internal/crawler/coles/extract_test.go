package coles

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const specialsPage = `<!DOCTYPE html>
<html><body>
<div data-testid="specials-product-tiles">
  <section data-testid="product-tile">
    <a class="product__link product__image" href="/product/cadbury-dairy-milk-chocolate-block-180g-123" aria-label="Cadbury Dairy Milk Chocolate Block 180g | Price $2.75">
      <img srcset="/_next/image?url=cadbury&w=256&q=90 1x, /_next/image?url=cadbury&w=512&q=90 2x" src="/placeholder.svg">
    </a>
    <span class="price" aria-label="Price $2.75"><span class="price__value">$2.75</span></span>
    <span class="price__calculation_method">$1.53 per 100g | Was $5.50</span>
    <span class="badge-label">Save $2.75</span>
  </section>
  <section data-testid="product-tile">
    <a class="product__link product__image" href="/product/finish-dishwasher-tablets-456" aria-label="Finish Ultimate Dishwasher Tablets 46 Pack | Price $29.00">
      <img src="/finish.jpg">
    </a>
    <span class="price" aria-label="Price $29.00"><span class="price__value">$29.00</span></span>
    <span class="price__calculation_method">$0.63 per tablet | Was $58.00</span>
  </section>
  <section data-testid="product-tile">
    <a class="product__link product__image" href="/product/nameless-789" aria-label="">
      <img src="/nameless.jpg">
    </a>
    <span class="price__value">$1.00</span>
  </section>
</div>
<section data-testid="product-tile">
  <a class="product__link product__image" href="/product/outside-grid" aria-label="Outside The Grid | Price $1.00"></a>
</section>
</body></html>`

func parseFixture(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

func TestExtractTiles(t *testing.T) {
	doc := parseFixture(t, specialsPage)
	items := extractTiles(doc, "https://www.coles.com.au")

	// Nameless tile and the tile outside the specials grid are dropped.
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	cadbury := items[0]
	if got := cadbury.Name(); got != "Cadbury Dairy Milk Chocolate Block 180g" {
		t.Errorf("unexpected name %q", got)
	}
	if got := cadbury.Num("price"); got != 2.75 {
		t.Errorf("expected price 2.75, got %v", got)
	}
	if got := cadbury.Num("price_was"); got != 5.50 {
		t.Errorf("expected was price 5.50, got %v", got)
	}
	if got := cadbury.Str("price_per_unit"); got != "$1.53 per 100g" {
		t.Errorf("unexpected unit price %q", got)
	}
	if got := cadbury.Str("product_link"); got != "https://www.coles.com.au/product/cadbury-dairy-milk-chocolate-block-180g-123" {
		t.Errorf("unexpected link %q", got)
	}
	if got := cadbury.Str("image"); got != "https://www.coles.com.au/_next/image?url=cadbury&w=256&q=90" {
		t.Errorf("expected first srcset candidate, got %q", got)
	}
	if got := cadbury.Str("discount"); got != "Save $2.75" {
		t.Errorf("unexpected discount %q", got)
	}

	finish := items[1]
	if got := finish.Str("image"); got != "https://www.coles.com.au/finish.jpg" {
		t.Errorf("expected src fallback, got %q", got)
	}
	// No save badge on the tile, but was > price marks it half price.
	if got := finish.Str("discount"); got != "Half Price" {
		t.Errorf("unexpected discount %q", got)
	}
}

func TestSplitCalculation(t *testing.T) {
	tests := []struct {
		in      string
		perUnit string
		was     float64
	}{
		{"$1.53 per 100g | Was $5.50", "$1.53 per 100g", 5.50},
		{"$0.63 per tablet", "$0.63 per tablet", 0},
		{"Was $9.00", "", 9.00},
		{"", "", 0},
		{"  $2.00   per   1L  |  Was $4.00 ", "$2.00 per 1L", 4.00},
	}
	for _, tt := range tests {
		perUnit, was := splitCalculation(tt.in)
		if perUnit != tt.perUnit || was != tt.was {
			t.Errorf("splitCalculation(%q) = (%q, %v), want (%q, %v)",
				tt.in, perUnit, was, tt.perUnit, tt.was)
		}
	}
}

func TestPagedURL(t *testing.T) {
	base := "https://www.coles.com.au/on-special?filter_Special=halfprice"
	if got := pagedURL(base, 1); got != base {
		t.Errorf("page 1 URL = %q", got)
	}
	if got := pagedURL(base, 2); got != base+"&page=2" {
		t.Errorf("page 2 URL = %q", got)
	}
	if got := pagedURL("https://www.coles.com.au/on-special", 3); got != "https://www.coles.com.au/on-special?page=3" {
		t.Errorf("plain base page 3 URL = %q", got)
	}
}

func TestBlocked(t *testing.T) {
	if !blocked("<html><title>Pardon Our Interruption</title></html>") {
		t.Error("interstitial title not detected")
	}
	if !blocked(`<div id="interstitial-inprogress"></div>`) {
		t.Error("interstitial marker not detected")
	}
	if blocked(specialsPage) {
		t.Error("normal page flagged as blocked")
	}
}
