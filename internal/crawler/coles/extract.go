package coles

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"SpecialsRadar/internal/models"
	"SpecialsRadar/utils"
)

// extractTiles pulls every product tile out of the specials grid. Tiles with
// no readable name are dropped here rather than surfacing half-empty records.
func extractTiles(doc *goquery.Document, baseURL string) []models.RawItem {
	var items []models.RawItem
	doc.Find(`div[data-testid="specials-product-tiles"] section[data-testid="product-tile"]`).
		Each(func(_ int, tile *goquery.Selection) {
			if item := extractTile(tile, baseURL); item != nil {
				items = append(items, item)
			}
		})
	return items
}

func extractTile(tile *goquery.Selection, baseURL string) models.RawItem {
	link := tile.Find("a.product__link.product__image").First()

	// The anchor's aria-label carries "<name> | <price context>".
	label := link.AttrOr("aria-label", "")
	name, _, _ := strings.Cut(label, " | ")
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	price := utils.ParseLabelledPrice(tile.Find(".price").AttrOr("aria-label", ""), "Price $")
	if price == 0 {
		price = utils.ParsePrice(tile.Find(".price__value").Text())
	}
	perUnit, was := splitCalculation(tile.Find(".price__calculation_method").Text())

	productLink := ""
	if href := link.AttrOr("href", ""); href != "" {
		productLink = utils.AbsoluteURL(baseURL, href)
	}

	return models.RawItem{
		"name":           name,
		"price":          price,
		"price_was":      was,
		"price_per_unit": perUnit,
		"product_link":   productLink,
		"image":          tileImage(tile, baseURL),
		"discount":       tileDiscount(tile, price, was),
	}
}

// splitCalculation separates "$2.50 per 100g | Was $10.00" into the unit
// price and the previous shelf price. Either side may be absent.
func splitCalculation(text string) (string, float64) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", 0
	}
	perUnit, wasPart, found := strings.Cut(text, " | Was ")
	perUnit = strings.TrimSpace(perUnit)
	if strings.HasPrefix(perUnit, "Was ") {
		return "", utils.ParsePrice(perUnit)
	}
	if !found {
		return perUnit, 0
	}
	return perUnit, utils.ParsePrice(wasPart)
}

// tileImage prefers the first srcset candidate since src is often a lazy-load
// placeholder.
func tileImage(tile *goquery.Selection, baseURL string) string {
	img := tile.Find("img").First()
	if srcset := img.AttrOr("srcset", ""); srcset != "" {
		if fields := strings.Fields(srcset); len(fields) > 0 {
			return utils.AbsoluteURL(baseURL, strings.TrimSuffix(fields[0], ","))
		}
	}
	if src := img.AttrOr("src", ""); src != "" {
		return utils.AbsoluteURL(baseURL, src)
	}
	return ""
}

// tileDiscount reads the tile's own save badge when present and otherwise
// falls back to the campaign label, since everything in this listing is
// half price by construction.
func tileDiscount(tile *goquery.Selection, price, was float64) string {
	discount := ""
	tile.Find(".badge-label").EachWithBreak(func(_ int, badge *goquery.Selection) bool {
		text := strings.TrimSpace(badge.Text())
		if strings.Contains(text, "Save") {
			discount = text
			return false
		}
		return true
	})
	if discount == "" && was > price && price > 0 {
		discount = "Half Price"
	}
	return discount
}
