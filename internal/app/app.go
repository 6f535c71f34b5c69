// Package app wires the configuration, stores, crawlers and controller into
// one runnable application.
package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"SpecialsRadar/internal/cache"
	"SpecialsRadar/internal/crawler"
	"SpecialsRadar/internal/crawler/coles"
	"SpecialsRadar/internal/crawler/ozbargain"
	"SpecialsRadar/internal/crawler/woolies"
	"SpecialsRadar/internal/fetch"
	"SpecialsRadar/internal/history"
	"SpecialsRadar/internal/scheduler"
	"SpecialsRadar/internal/server"
	"SpecialsRadar/pkg/config"
)

// snapshotLRUSize covers all four site snapshots with room to spare.
const snapshotLRUSize = 16

type App struct {
	Config     *config.Config
	Store      cache.Store
	History    *history.Repository
	Browser    *fetch.Browser
	Metrics    *crawler.Metrics
	Controller *crawler.Controller
	Crawlers   map[string]crawler.Crawler

	redis *cache.RedisStore
}

// New loads the config and builds every component. Initialization failures
// are fatal; a half-wired app is useless.
func New(configPath string) *App {
	cfg := config.LoadConfig(configPath)

	var backend cache.Store
	var redisStore *cache.RedisStore
	if cfg.Redis.Addr == "" {
		log.Println("No redis address configured, using in-memory snapshot store")
		backend = cache.NewMemoryStore()
	} else {
		rs, err := cache.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Error connecting to redis: %v", err)
		}
		redisStore = rs
		backend = rs
	}
	store, err := cache.NewCachedStore(backend, snapshotLRUSize)
	if err != nil {
		log.Fatalf("Error building snapshot cache: %v", err)
	}

	var hist *history.Repository
	if cfg.History.Path != "" {
		hist = history.InitDB(cfg.History.Path)
	}

	metrics := crawler.NewMetrics()
	browser := fetch.NewBrowser(cfg.Scraper)
	controller := crawler.NewController(store, hist, metrics)

	crawlers := make(map[string]crawler.Crawler)
	for _, cr := range []crawler.Crawler{
		ozbargain.New(cfg.Sites.OzBargain, metrics),
		coles.New(cfg.Sites.Coles, browser, metrics),
		coles.NewAPI(cfg.Sites.ColesAPI, browser, metrics),
		woolies.New(cfg.Sites.Woolworths, browser, metrics),
	} {
		crawlers[cr.Site()] = cr
	}

	return &App{
		Config:     cfg,
		Store:      store,
		History:    hist,
		Browser:    browser,
		Metrics:    metrics,
		Controller: controller,
		Crawlers:   crawlers,
		redis:      redisStore,
	}
}

// Close releases the browser and the backing stores.
func (a *App) Close() {
	a.Browser.Close()
	if a.History != nil {
		a.History.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Printf("closing redis: %v", err)
		}
	}
}

// Sync force-syncs one site by name.
func (a *App) Sync(ctx context.Context, site string) error {
	cr, ok := a.Crawlers[site]
	if !ok {
		return errors.New("unknown site: " + site)
	}
	_, err := a.Controller.ForceSync(ctx, cr)
	return err
}

// SyncAll force-syncs every site in turn. One site failing does not stop the
// others; failures are logged and the rest proceed.
func (a *App) SyncAll(ctx context.Context) {
	sites := make([]string, 0, len(a.Crawlers))
	for site := range a.Crawlers {
		sites = append(sites, site)
	}
	sort.Strings(sites)

	for _, site := range sites {
		if err := a.Sync(ctx, site); err != nil {
			log.Printf("[%s] sync failed: %v", site, err)
		}
	}
}

// RunServer starts the weekly scheduler and the HTTP API, and blocks until
// an interrupt or termination signal arrives.
func (a *App) RunServer() {
	jobs := make(map[string]func(ctx context.Context), len(a.Crawlers))
	for site := range a.Crawlers {
		site := site
		jobs[site] = func(ctx context.Context) {
			if err := a.Sync(ctx, site); err != nil {
				log.Printf("[%s] scheduled sync failed: %v", site, err)
			}
		}
	}
	sched, err := scheduler.New(a.Config.Schedule, jobs)
	if err != nil {
		log.Fatalf("Error building scheduler: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(a.Controller, a.Crawlers, a.History, a.Metrics, a.Config.Server.SyncSecret)
	httpServer := &http.Server{
		Addr:    a.Config.Server.Addr,
		Handler: srv.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("API server listening on %s", a.Config.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error running HTTP server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown: %v", err)
	}
}
