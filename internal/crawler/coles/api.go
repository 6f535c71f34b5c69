package coles

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"SpecialsRadar/internal/crawler"
	"SpecialsRadar/internal/fetch"
	"SpecialsRadar/internal/models"
	"SpecialsRadar/pkg/config"
)

// apiWait bounds how long a navigation waits for the product API to fire
// after the page has loaded.
const apiWait = 10 * time.Second

// APICrawler loads the specials page but reads the product API response the
// page fires during hydration instead of the markup. The payload carries the
// catalogue's own result count, which the markup never exposes.
type APICrawler struct {
	cfg     config.SiteConfig
	browser *fetch.Browser
	driver  crawler.Driver
}

func NewAPI(cfg config.SiteConfig, browser *fetch.Browser, metrics *crawler.Metrics) *APICrawler {
	c := &APICrawler{cfg: cfg, browser: browser}
	c.driver = crawler.Driver{
		Site:     c.Site(),
		MaxPages: cfg.MaxPages,
		Delay:    time.Duration(cfg.PageDelay) * time.Second,
		Fetch:    c.fetchPage,
		Metrics:  metrics,
	}
	return c
}

func (c *APICrawler) Site() string              { return "coles_api" }
func (c *APICrawler) StorageKey() string        { return c.cfg.StorageKey }
func (c *APICrawler) Retailer() models.Retailer { return models.RetailerColes }

func (c *APICrawler) Crawl(ctx context.Context) (*crawler.CrawlResult, error) {
	return c.driver.Run(ctx)
}

func (c *APICrawler) pageURL(page int) string {
	return pagedURL(c.cfg.BaseURL+c.cfg.SpecialsPath, page)
}

func (c *APICrawler) fetchPage(ctx context.Context, page int) (crawler.Page, error) {
	bodies := make(chan []byte, 1)
	session, err := c.browser.NewHijackSession("*/api/bff/products*", func(body []byte) {
		select {
		case bodies <- body:
		default:
		}
	})
	if err != nil {
		return crawler.Page{}, err
	}
	defer session.Close()

	if err := session.Navigate(ctx, c.pageURL(page)); err != nil {
		return crawler.Page{}, err
	}

	select {
	case body := <-bodies:
		items, total := projectResults(body, c.cfg.BaseURL)
		return crawler.Page{Items: items, TotalRecords: total}, nil
	case <-time.After(apiWait):
		log.Printf("[coles_api] page %d: product API never fired", page)
		return crawler.Page{}, nil
	case <-ctx.Done():
		return crawler.Page{}, ctx.Err()
	}
}

// projectResults maps the product API payload to raw items and reports the
// upstream noOfResults. Sponsored tiles and nameless entries are skipped.
func projectResults(body []byte, baseURL string) ([]models.RawItem, int) {
	doc := gjson.ParseBytes(body)
	total := int(doc.Get("noOfResults").Int())

	var items []models.RawItem
	doc.Get("results").ForEach(func(_, r gjson.Result) bool {
		if t := r.Get("_type").String(); t != "" && t != "PRODUCT" {
			return true
		}
		name := strings.TrimSpace(r.Get("description").String())
		if name == "" {
			return true
		}
		items = append(items, models.RawItem{
			"name":           name,
			"price":          r.Get("pricing.now").Float(),
			"price_was":      r.Get("pricing.was").Float(),
			"price_per_unit": r.Get("pricing.comparable").String(),
			"discount":       r.Get("pricing.priceDescription").String(),
			"product_link":   fmt.Sprintf("%s/product/%d", baseURL, r.Get("id").Int()),
			"image":          productImage(baseURL, r.Get("imageUris.0.uri").String()),
		})
		return true
	})
	return items, total
}

// productImage rebuilds the resized CDN URL the site itself renders.
func productImage(baseURL, uri string) string {
	if uri == "" {
		return ""
	}
	return fmt.Sprintf("%s/_next/image?url=https://productimages.coles.com.au/productimages%s&w=256&q=90",
		baseURL, uri)
}
