// Package woolies crawls the Woolworths half-price specials by intercepting
// the browse API call the category page makes while rendering.
package woolies

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"SpecialsRadar/internal/crawler"
	"SpecialsRadar/internal/fetch"
	"SpecialsRadar/internal/models"
	"SpecialsRadar/pkg/config"
)

const apiWait = 10 * time.Second

// browseResponse is the slice of the browse payload this crawler reads. The
// real response is far larger; everything else is ignored on decode.
type browseResponse struct {
	Success bool `json:"Success"`
	Bundles []struct {
		Products []browseProduct `json:"Products"`
	} `json:"Bundles"`
	TotalRecordCount int `json:"TotalRecordCount"`
}

type browseProduct struct {
	DisplayName    string  `json:"DisplayName"`
	Price          float64 `json:"Price"`
	WasPrice       float64 `json:"WasPrice"`
	CupString      string  `json:"CupString"`
	LargeImageFile string  `json:"LargeImageFile"`
	Stockcode      int     `json:"Stockcode"`
	IsHalfPrice    bool    `json:"IsHalfPrice"`
}

// Crawler walks the half-price category pages and keeps only products the
// payload itself flags as half price.
type Crawler struct {
	cfg     config.SiteConfig
	browser *fetch.Browser
	driver  crawler.Driver
}

func New(cfg config.SiteConfig, browser *fetch.Browser, metrics *crawler.Metrics) *Crawler {
	c := &Crawler{cfg: cfg, browser: browser}
	c.driver = crawler.Driver{
		Site:     c.Site(),
		MaxPages: cfg.MaxPages,
		Delay:    time.Duration(cfg.PageDelay) * time.Second,
		Fetch:    c.fetchPage,
		Metrics:  metrics,
	}
	return c
}

func (c *Crawler) Site() string              { return "woolworths" }
func (c *Crawler) StorageKey() string        { return c.cfg.StorageKey }
func (c *Crawler) Retailer() models.Retailer { return models.RetailerWoolworths }

func (c *Crawler) Crawl(ctx context.Context) (*crawler.CrawlResult, error) {
	return c.driver.Run(ctx)
}

func (c *Crawler) pageURL(page int) string {
	base := c.cfg.BaseURL + c.cfg.SpecialsPath
	if page <= 1 {
		return base
	}
	return fmt.Sprintf("%s?pageNumber=%d", base, page)
}

func (c *Crawler) fetchPage(ctx context.Context, page int) (crawler.Page, error) {
	bodies := make(chan []byte, 1)
	session, err := c.browser.NewHijackSession("*apis/ui/browse/category*", func(body []byte) {
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
		return decodeBrowse(body, c.cfg.BaseURL, page)
	case <-time.After(apiWait):
		log.Printf("[woolworths] page %d: browse API never fired", page)
		return crawler.Page{}, nil
	case <-ctx.Done():
		return crawler.Page{}, ctx.Err()
	}
}

// decodeBrowse projects the browse payload onto raw items. The category can
// drift to include near-half-price promotions, so the IsHalfPrice flag is
// honoured strictly.
func decodeBrowse(body []byte, baseURL string, page int) (crawler.Page, error) {
	var resp browseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return crawler.Page{}, fmt.Errorf("decode browse payload page %d: %w", page, err)
	}
	if !resp.Success {
		return crawler.Page{}, fmt.Errorf("browse API reported failure on page %d", page)
	}

	var items []models.RawItem
	for _, bundle := range resp.Bundles {
		for _, p := range bundle.Products {
			if !p.IsHalfPrice {
				continue
			}
			name := strings.TrimSpace(p.DisplayName)
			if name == "" {
				continue
			}
			items = append(items, models.RawItem{
				"name":           name,
				"price":          p.Price,
				"price_was":      p.WasPrice,
				"price_per_unit": p.CupString,
				"product_link":   fmt.Sprintf("%s/shop/productdetails/%d", baseURL, p.Stockcode),
				"image":          p.LargeImageFile,
				"discount":       "50% off",
			})
		}
	}
	return crawler.Page{Items: items, TotalRecords: resp.TotalRecordCount}, nil
}
