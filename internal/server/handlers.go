package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bondradar/bondmon/pkg/health"
)

const maxBatchKeys = 100

// handleHealth returns the full system snapshot. ?force=true ignores
// per-check interval caching. An overall error answers 503 so load
// balancers can act on it.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var system health.SystemHealth
	if r.URL.Query().Get("force") == "true" {
		system = s.registry.ForceRunAll(r.Context())
	} else {
		system = s.registry.RunAll(r.Context())
	}

	status := http.StatusOK
	if system.OverallStatus == health.StatusError {
		status = http.StatusServiceUnavailable
	}
	respond(w, status, system)
}

func (s *Server) handleHealthSummary(w http.ResponseWriter, r *http.Request) {
	system := s.registry.RunAll(r.Context())

	components := make(map[string]health.Status, len(system.Components))
	for _, c := range system.Components {
		components[c.Name] = c.Status
	}

	respond(w, http.StatusOK, map[string]any{
		"status":         system.OverallStatus,
		"components":     components,
		"uptime_seconds": system.UptimeSeconds,
		"version":        system.Version,
		"generated_at":   system.GeneratedAt,
	})
}

func (s *Server) handleHealthComponent(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	force := r.URL.Query().Get("force") == "true"

	result, err := s.registry.RunCheck(r.Context(), name, force)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respond(w, http.StatusOK, result)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	stats := s.cache.Stats()

	respond(w, http.StatusOK, map[string]any{
		"size":             stats.Size,
		"capacity":         stats.Capacity,
		"hits":             stats.Hits,
		"misses":           stats.Misses,
		"evictions":        stats.Evictions,
		"hit_rate_percent": stats.HitRate() * 100,
		"usage_percent":    stats.Usage() * 100,
	})
}

func (s *Server) handleCacheCleanup(w http.ResponseWriter, r *http.Request) {
	removed := s.cache.CleanupExpired()
	s.logger.Info().Int("removed", removed).Msg("Manual cache cleanup")
	respond(w, http.StatusOK, map[string]any{"removed": removed})
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	s.cache.Clear()
	s.logger.Info().Msg("Cache cleared")
	respond(w, http.StatusOK, map[string]any{"cleared": true})
}

func (s *Server) handleErrorStats(w http.ResponseWriter, r *http.Request) {
	severities := make(map[string]int)
	for severity, count := range s.ledger.SeverityBreakdown() {
		severities[severity.String()] = count
	}

	respond(w, http.StatusOK, map[string]any{
		"total":          s.ledger.Total(),
		"critical_count": s.ledger.CriticalCount(s.criticalWindow),
		"window_seconds": s.criticalWindow.Seconds(),
		"by_category":    s.ledger.CategoryBreakdown(),
		"by_severity":    severities,
		"recent":         s.ledger.Recent(10),
	})
}

func (s *Server) handleErrorReset(w http.ResponseWriter, r *http.Request) {
	s.ledger.Reset()
	s.logger.Info().Msg("Error ledger reset")
	respond(w, http.StatusOK, map[string]any{"reset": true})
}

func (s *Server) handleBond(w http.ResponseWriter, r *http.Request) {
	isin := chi.URLParam(r, "isin")

	body, err := s.gateway.FetchOne(r.Context(), isin)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respond(w, http.StatusOK, rawOrString(body))
}

type batchRequest struct {
	ISINs []string `json:"isins"`
}

func (s *Server) handleBondBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.ISINs) == 0 {
		respondError(w, http.StatusBadRequest, "isins is required")
		return
	}
	if len(req.ISINs) > maxBatchKeys {
		respondError(w, http.StatusBadRequest, "too many isins in one batch")
		return
	}

	result := s.gateway.FetchMany(r.Context(), req.ISINs)

	bonds := make(map[string]any)
	failed := make(map[string]string)
	for key, outcome := range result {
		if outcome.Err != nil {
			failed[key] = outcome.Err.Error()
			continue
		}
		bonds[key] = rawOrString(outcome.Value)
	}

	respond(w, http.StatusOK, map[string]any{
		"bonds":  bonds,
		"failed": failed,
	})
}
