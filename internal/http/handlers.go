package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/DeadLyze/deadlyze-app/internal/enrichment"
	"github.com/charmbracelet/log"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// SearchHandler streams enrichment status updates as newline-delimited JSON.
// Closing the connection cancels the run, which is how "navigating away"
// reaches the orchestrator.
func (s *Server) SearchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID == "" {
			http.Error(w, "missing matchID parameter", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		flusher, _ := w.(http.Flusher)
		enc := json.NewEncoder(w)

		for update := range s.Orchestrator.Search(r.Context(), matchID) {
			if err := enc.Encode(update); err != nil {
				log.Error("Failed to write search update", "matchID", matchID, "error", err)
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

// CachedMatchHandler is a side-effect-free read of the current cache entry.
func (s *Server) CachedMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID == "" {
			http.Error(w, "missing matchID parameter", http.StatusBadRequest)
			return
		}

		entry, ok := s.Orchestrator.Cached(matchID)
		if !ok {
			http.Error(w, "match not cached", http.StatusNotFound)
			return
		}
		writeJSON(w, entry)
	}
}

// MatchDetailsHandler expands one past match into its match card: the final
// item build and end-of-match stats for a single account.
func (s *Server) MatchDetailsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := strconv.ParseInt(r.URL.Query().Get("matchID"), 10, 64)
		if err != nil {
			http.Error(w, "invalid matchID parameter", http.StatusBadRequest)
			return
		}
		accountID, err := strconv.ParseInt(r.URL.Query().Get("accountID"), 10, 64)
		if err != nil {
			http.Error(w, "invalid accountID parameter", http.StatusBadRequest)
			return
		}

		card, err := s.Orchestrator.MatchDetails(r.Context(), matchID, accountID)
		if err != nil {
			if errors.Is(err, enrichment.ErrMetadataUnavailable) {
				http.Error(w, "match metadata unavailable, try again later", http.StatusServiceUnavailable)
				return
			}
			log.Error("Match details lookup failed", "matchID", matchID, "accountID", accountID, "error", err)
			http.Error(w, "failed to load match details", http.StatusInternalServerError)
			return
		}
		writeJSON(w, card)
	}
}

// BudgetHandler reports the remaining lookup quota. With a matchID query
// parameter it also answers whether searching that match would consume a
// lookup or get one for free (already paid for this session, or cached).
func (s *Server) BudgetHandler() http.HandlerFunc {
	type budgetResponse struct {
		Available       int   `json:"available"`
		NextRestoreMs   int64 `json:"next_restore_ms"`
		MaxRequests     int   `json:"max_requests"`
		RestoreInterval int64 `json:"restore_interval_ms"`
		CanSearch       *bool `json:"can_search,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		available := s.Budget.Available()
		s.Metrics.SetBudgetAvailable(available)
		resp := budgetResponse{
			Available:       available,
			NextRestoreMs:   s.Budget.RemainingTime().Milliseconds(),
			MaxRequests:     s.Cfg.Budget.MaxRequests,
			RestoreInterval: s.Cfg.Budget.RestoreInterval.Milliseconds(),
		}
		if matchID := r.URL.Query().Get("matchID"); matchID != "" {
			canSearch := s.Budget.CanConsume(matchID)
			if _, ok := s.Orchestrator.Cached(matchID); ok {
				canSearch = true
			}
			resp.CanSearch = &canSearch
		}
		writeJSON(w, resp)
	}
}

func (s *Server) HistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("clear") == "true" {
			if err := s.History.Clear(); err != nil {
				log.Error("Failed to clear search history", "error", err)
				http.Error(w, "Failed to clear history", http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "History cleared!")
			return
		}
		writeJSON(w, s.History.List())
	}
}

func (s *Server) RetryQueueHandler() http.HandlerFunc {
	type queueResponse struct {
		Size int `json:"size"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		size := s.Metadata.QueueLen()
		s.Metrics.SetRetryQueueSize(size)
		writeJSON(w, queueResponse{Size: size})
	}
}

// IdentityHandler returns the current user, or sets it when a steamID64
// query parameter is provided by the GUI shell.
func (s *Server) IdentityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if raw := r.URL.Query().Get("steamID64"); raw != "" {
			steamID64, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				http.Error(w, "invalid steamID64 parameter", http.StatusBadRequest)
				return
			}
			id, err := s.Identity.Set(steamID64, r.URL.Query().Get("name"))
			if err != nil {
				log.Error("Failed to store identity", "error", err)
				http.Error(w, "Failed to store identity", http.StatusInternalServerError)
				return
			}
			writeJSON(w, id)
			return
		}

		id, ok := s.Identity.Current()
		if !ok {
			http.Error(w, "no identity known", http.StatusNotFound)
			return
		}
		writeJSON(w, id)
	}
}

func (s *Server) ClearCacheHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID != "" {
			log.Info("Received request to clear a specific match", "matchID", matchID)
			id, err := strconv.ParseInt(matchID, 10, 64)
			if err != nil {
				http.Error(w, "invalid matchID parameter", http.StatusBadRequest)
				return
			}
			s.Cache.ClearMatch(id)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Cleared match %s from cache!", matchID)
			log.Info("Successfully cleared match from cache", "matchID", matchID)
		} else {
			log.Info("Received request to clear all caches")
			s.Cache.Clear()
			s.Metadata.Clear()
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Caches cleared!")
			log.Info("Caches cleared successfully")
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}
