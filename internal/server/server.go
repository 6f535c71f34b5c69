// Package server exposes the read API, the protected sync trigger and the
// Prometheus metrics endpoint.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"SpecialsRadar/internal/cache"
	"SpecialsRadar/internal/crawler"
	"SpecialsRadar/internal/history"
)

// Server routes API requests to the sync controller. Crawlers are looked up
// by their site name, which doubles as the URL path segment.
type Server struct {
	controller *crawler.Controller
	crawlers   map[string]crawler.Crawler
	history    *history.Repository
	metrics    *crawler.Metrics
	syncSecret string
}

func New(controller *crawler.Controller, crawlers map[string]crawler.Crawler,
	hist *history.Repository, metrics *crawler.Metrics, syncSecret string) *Server {
	return &Server{
		controller: controller,
		crawlers:   crawlers,
		history:    hist,
		metrics:    metrics,
		syncSecret: syncSecret,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/specials/{site}", s.handleSpecials)
	mux.HandleFunc("POST /api/specials/{site}/sync", s.handleSync)
	mux.HandleFunc("GET /api/history/{site}", s.handleHistory)
	if s.metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSpecials(w http.ResponseWriter, r *http.Request) {
	cr, ok := s.crawlers[r.PathValue("site")]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown site")
		return
	}

	snap, err := s.controller.Fetch(r.Context(), cr)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no data available")
			return
		}
		log.Printf("fetch %s: %v", cr.Site(), err)
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if s.syncSecret != "" && r.Header.Get("X-Sync-Secret") != s.syncSecret {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	cr, ok := s.crawlers[r.PathValue("site")]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown site")
		return
	}

	snap, err := s.controller.ForceSync(r.Context(), cr)
	if err != nil {
		log.Printf("sync %s: %v", cr.Site(), err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// runView is the wire shape of one audit row.
type runView struct {
	ID        int64     `json:"id"`
	Site      string    `json:"site"`
	Status    string    `json:"status"`
	Products  int       `json:"products"`
	Pages     int       `json:"pages"`
	DurationS float64   `json:"duration_seconds"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	site := r.PathValue("site")
	if _, ok := s.crawlers[site]; !ok {
		writeError(w, http.StatusNotFound, "unknown site")
		return
	}
	if s.history == nil {
		writeError(w, http.StatusNotFound, "history not enabled")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	runs, err := s.history.RecentRuns(site, limit)
	if err != nil {
		log.Printf("history %s: %v", site, err)
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	views := make([]runView, 0, len(runs))
	for _, run := range runs {
		views = append(views, runView{
			ID:        run.ID,
			Site:      run.Site,
			Status:    run.Status,
			Products:  run.Products,
			Pages:     run.Pages,
			DurationS: run.Duration.Seconds(),
			Error:     run.Error,
			StartedAt: run.StartedAt,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
