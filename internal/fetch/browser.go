// Package fetch wraps go-rod behind the two primitives the crawlers need: a
// rendered-page fetch, and a navigation session that captures matching
// network responses while letting them through so the page still renders.
package fetch

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"SpecialsRadar/pkg/config"
	"SpecialsRadar/utils"
)

// Browser owns one shared rod browser. The underlying browser process is
// launched lazily on first use, so constructing a Browser is free and the
// server can start without Chrome present until a sync actually runs.
type Browser struct {
	headless   bool
	navTimeout time.Duration
	settle     time.Duration

	mu      sync.Mutex
	browser *rod.Browser
}

func NewBrowser(cfg config.ScraperConfig) *Browser {
	navTimeout := time.Duration(cfg.NavigationTimeout) * time.Second
	if navTimeout <= 0 {
		navTimeout = 30 * time.Second
	}
	settle := time.Duration(cfg.PageSettle) * time.Second
	if settle <= 0 {
		settle = 2 * time.Second
	}
	return &Browser{
		headless:   cfg.Headless,
		navTimeout: navTimeout,
		settle:     settle,
	}
}

func (b *Browser) connect() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser != nil {
		return b.browser, nil
	}

	u, err := launcher.New().Headless(b.headless).Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to browser: %w", err)
	}
	b.browser = browser
	return browser, nil
}

// Close shuts the shared browser down if it was ever launched.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			log.Printf("closing browser: %v", err)
		}
		b.browser = nil
	}
}

// newPage opens a stealth page with a rotated desktop user agent.
func (b *Browser) newPage() (*rod.Page, error) {
	browser, err := b.connect()
	if err != nil {
		return nil, err
	}
	page, err := stealth.Page(browser)
	if err != nil {
		return nil, fmt.Errorf("create stealth page: %w", err)
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent: utils.RandomUserAgent(),
	}); err != nil {
		page.Close()
		return nil, fmt.Errorf("set user agent: %w", err)
	}
	return page, nil
}

// RenderedHTML navigates to url, waits for the page to load and settle, and
// returns the rendered document.
func (b *Browser) RenderedHTML(ctx context.Context, url string) (string, error) {
	page, err := b.newPage()
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := page.Timeout(b.navTimeout).Navigate(url); err != nil {
		return "", fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.Timeout(b.navTimeout).WaitLoad(); err != nil {
		return "", fmt.Errorf("wait load %s: %w", url, err)
	}
	// Best effort; hydration may keep mutating past the settle window.
	page.Timeout(b.settle).WaitStable(500 * time.Millisecond)

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("read html %s: %w", url, err)
	}
	return html, nil
}

// HijackSession is a single page whose network traffic is being intercepted.
// Navigate as many times as needed; every response whose URL matches the
// session's pattern is handed to the callback after being forwarded, so the
// host page keeps rendering normally.
type HijackSession struct {
	page       *rod.Page
	router     *rod.HijackRouter
	navTimeout time.Duration
	settle     time.Duration
}

// NewHijackSession opens a page that captures response bodies matching
// pattern (rod glob syntax, e.g. "*apis/ui/browse/category*").
func (b *Browser) NewHijackSession(pattern string, onBody func([]byte)) (*HijackSession, error) {
	page, err := b.newPage()
	if err != nil {
		return nil, err
	}

	router := page.HijackRequests()
	err = router.Add(pattern, "", func(h *rod.Hijack) {
		// Fetch the real response ourselves, hand the body to the caller,
		// and let rod reply to the page with what we fetched.
		if err := h.LoadResponse(http.DefaultClient, true); err != nil {
			log.Printf("hijack: load response %s: %v", h.Request.URL(), err)
			return
		}
		onBody([]byte(h.Response.Body()))
	})
	if err != nil {
		page.Close()
		return nil, fmt.Errorf("add hijack route %s: %w", pattern, err)
	}
	go router.Run()

	return &HijackSession{
		page:       page,
		router:     router,
		navTimeout: b.navTimeout,
		settle:     b.settle,
	}, nil
}

// Navigate loads url on the session page and waits for it to settle, giving
// the intercepted API call time to fire.
func (s *HijackSession) Navigate(ctx context.Context, url string) error {
	page := s.page.Context(ctx)
	if err := page.Timeout(s.navTimeout).Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.Timeout(s.navTimeout).WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	page.Timeout(s.settle).WaitStable(500 * time.Millisecond)
	return nil
}

// Close stops interception and closes the page.
func (s *HijackSession) Close() {
	if err := s.router.Stop(); err != nil {
		log.Printf("stopping hijack router: %v", err)
	}
	s.page.Close()
}
