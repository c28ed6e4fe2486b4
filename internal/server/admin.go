package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/solweather/swxgate/internal/app"
)

func (s *server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	stats := s.deps.Cache.Stats()
	writeJSON(w, http.StatusOK, struct {
		Success    bool    `json:"success"`
		Size       int     `json:"size"`
		MaxEntries int     `json:"max_entries"`
		TTLSeconds float64 `json:"ttl_seconds"`
	}{
		Success:    true,
		Size:       stats.Size,
		MaxEntries: stats.MaxEntries,
		TTLSeconds: stats.TTL.Seconds(),
	})
}

func (s *server) handleCacheInvalidate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	removed := s.deps.Cache.Invalidate(app.CacheKey(id))
	writeJSON(w, http.StatusOK, struct {
		Success   bool   `json:"success"`
		ProductID string `json:"product_id"`
		Removed   bool   `json:"removed"`
	}{Success: true, ProductID: id, Removed: removed})
}

func (s *server) handleCachePurge(w http.ResponseWriter, _ *http.Request) {
	s.deps.Cache.InvalidateAll()
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
	}{Success: true})
}
