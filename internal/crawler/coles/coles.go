// Package coles crawls the Coles half-price specials in two ways: a markup
// crawler over the rendered listing pages, and an interception crawler that
// captures the product API response the page itself fires.
package coles

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"SpecialsRadar/internal/crawler"
	"SpecialsRadar/internal/fetch"
	"SpecialsRadar/internal/models"
	"SpecialsRadar/pkg/config"
)

// Crawler extracts product tiles from the rendered specials pages.
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

func (c *Crawler) Site() string              { return "coles" }
func (c *Crawler) StorageKey() string        { return c.cfg.StorageKey }
func (c *Crawler) Retailer() models.Retailer { return models.RetailerColes }

func (c *Crawler) Crawl(ctx context.Context) (*crawler.CrawlResult, error) {
	return c.driver.Run(ctx)
}

// pageURL appends the pager parameter; the specials path already carries the
// half-price filter query.
func (c *Crawler) pageURL(page int) string {
	return pagedURL(c.cfg.BaseURL+c.cfg.SpecialsPath, page)
}

func pagedURL(base string, page int) string {
	if page <= 1 {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%spage=%d", base, sep, page)
}

func (c *Crawler) fetchPage(ctx context.Context, page int) (crawler.Page, error) {
	html, err := c.browser.RenderedHTML(ctx, c.pageURL(page))
	if err != nil {
		return crawler.Page{}, err
	}
	if blocked(html) {
		log.Printf("[coles] page %d served a bot interstitial, treating as empty", page)
		return crawler.Page{}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return crawler.Page{}, fmt.Errorf("parse page %d: %w", page, err)
	}
	return crawler.Page{Items: extractTiles(doc, c.cfg.BaseURL)}, nil
}

// blocked detects the Imperva challenge page Coles serves when it suspects
// automation. Retrying the next page usually works, so it is not an error.
func blocked(html string) bool {
	return strings.Contains(html, "Pardon Our Interruption") ||
		strings.Contains(html, "interstitial-inprogress")
}
