// Package ozbargain crawls the OzBargain deals feed. The listing is plain
// server-rendered markup, so it uses a colly collector instead of a browser.
package ozbargain

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"SpecialsRadar/internal/crawler"
	"SpecialsRadar/internal/models"
	"SpecialsRadar/pkg/config"
	"SpecialsRadar/utils"
)

// Crawler walks the deals feed page by page and keeps deals matching the
// configured wishlist keywords. An empty wishlist keeps everything.
type Crawler struct {
	cfg    config.SiteConfig
	driver crawler.Driver

	// Transport overrides the collector's transport. Tests install an
	// httpmock transport here; in production it stays nil.
	Transport http.RoundTripper
}

func New(cfg config.SiteConfig, metrics *crawler.Metrics) *Crawler {
	c := &Crawler{cfg: cfg}
	c.driver = crawler.Driver{
		Site:     c.Site(),
		MaxPages: cfg.MaxPages,
		Delay:    time.Duration(cfg.PageDelay) * time.Second,
		Fetch:    c.fetchPage,
		Metrics:  metrics,
	}
	return c
}

func (c *Crawler) Site() string              { return "ozbargain" }
func (c *Crawler) StorageKey() string        { return c.cfg.StorageKey }
func (c *Crawler) Retailer() models.Retailer { return models.RetailerOzBargain }

func (c *Crawler) Crawl(ctx context.Context) (*crawler.CrawlResult, error) {
	return c.driver.Run(ctx)
}

// pageURL builds the feed URL; OzBargain's pager is zero-indexed from the
// second page onward.
func (c *Crawler) pageURL(page int) string {
	base := c.cfg.BaseURL + c.cfg.SpecialsPath
	if page <= 1 {
		return base
	}
	return fmt.Sprintf("%s?page=%d", base, page-1)
}

func (c *Crawler) fetchPage(ctx context.Context, page int) (crawler.Page, error) {
	if err := ctx.Err(); err != nil {
		return crawler.Page{}, err
	}

	collector := colly.NewCollector(colly.UserAgent(utils.RandomUserAgent()))
	if c.Transport != nil {
		collector.WithTransport(c.Transport)
	}

	var items []models.RawItem
	collector.OnHTML(".node-ozbdeal", func(e *colly.HTMLElement) {
		item := c.extractDeal(e)
		if item != nil {
			items = append(items, item)
		}
	})

	if err := collector.Visit(c.pageURL(page)); err != nil {
		return crawler.Page{}, fmt.Errorf("visit page %d: %w", page, err)
	}
	return crawler.Page{Items: items}, nil
}

// extractDeal maps one deal node to a raw item. Expired deals and deals
// outside the wishlist return nil.
func (c *Crawler) extractDeal(e *colly.HTMLElement) models.RawItem {
	if e.DOM.Find(".tagger.expired").Length() > 0 {
		return nil
	}

	name := strings.TrimSpace(e.ChildAttr("h2", "data-title"))
	if name == "" {
		name = strings.TrimSpace(e.ChildText("h2 a"))
	}
	if !c.wanted(name) {
		return nil
	}

	link := e.ChildAttr("h2 a", "href")
	if link != "" {
		// Redirect-tracker links point at the merchant; the node page is
		// the stable one.
		link = strings.Replace(link, "/goto/", "/node/", 1)
		link = utils.AbsoluteURL(c.cfg.BaseURL, link)
	}
	image := e.ChildAttr(".foxshot-container a img", "src")
	if image != "" {
		image = utils.AbsoluteURL(c.cfg.BaseURL, image)
	}

	return models.RawItem{
		"name":         name,
		"price":        utils.ParsePrice(e.ChildText("em")),
		"product_link": link,
		"image":        image,
		"discount":     dealTag(e),
	}
}

// dealTag reports the feed's own state badge for the deal, if any.
func dealTag(e *colly.HTMLElement) string {
	for _, tag := range []string{"upcoming", "targeted", "longrunning"} {
		if e.DOM.Find(".tagger."+tag).Length() > 0 {
			return tag
		}
	}
	return ""
}

// wanted reports whether the deal title matches any wishlist keyword.
func (c *Crawler) wanted(name string) bool {
	if len(c.cfg.Wishlist) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, keyword := range c.cfg.Wishlist {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
