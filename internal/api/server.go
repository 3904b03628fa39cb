// Package api provides the read-only HTTP API for observing a running season.
// All endpoints are GET; mutation stays on the engine's phase loop.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/housesim/internal/engine"
	"github.com/talgya/housesim/internal/house"
	"github.com/talgya/housesim/internal/social"
)

// Server serves season state over HTTP.
type Server struct {
	Sim  *engine.Simulation
	Port int
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()

	// Trust reports rebuild the aggregator per request; cap per-client volume.
	profileLimiter := NewRateLimiter(60, time.Minute)

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/houseguests", s.handleHouseguests)
	mux.HandleFunc("/api/v1/houseguest/", limited(profileLimiter, s.handleHouseguest))
	mux.HandleFunc("/api/v1/relationships", s.handleRelationships)
	mux.HandleFunc("/api/v1/deals", s.handleDeals)
	mux.HandleFunc("/api/v1/alliances", s.handleAlliances)
	mux.HandleFunc("/api/v1/events", s.handleEvents)

	addr := fmt.Sprintf(":%d", s.Port)
	go func() {
		slog.Info("API server listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("API server failed", "error", err)
		}
	}()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.Sim.RLock()
	defer s.Sim.RUnlock()

	writeJSON(w, map[string]any{
		"week":   s.Sim.Week,
		"phase":  house.PhaseName(s.Sim.Phase),
		"stats":  s.Sim.Stats,
		"winner": s.Sim.WinnerID,
		"over":   s.Sim.SeasonOver(),
	})
}

func (s *Server) handleHouseguests(w http.ResponseWriter, r *http.Request) {
	s.Sim.RLock()
	defer s.Sim.RUnlock()
	writeJSON(w, s.Sim.Houseguests)
}

// handleHouseguest serves /api/v1/houseguest/{id} with the full profile
// including the on-demand trust report.
func (s *Server) handleHouseguest(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/v1/houseguest/")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		http.Error(w, "invalid houseguest id", http.StatusBadRequest)
		return
	}

	s.Sim.RLock()
	defer s.Sim.RUnlock()

	hg, ok := s.Sim.Index[house.HouseguestID(id)]
	if !ok {
		http.Error(w, "houseguest not found", http.StatusNotFound)
		return
	}

	var relations []social.Pair
	for _, p := range s.Sim.Relationships.Pairs() {
		if p.A == hg.ID || p.B == hg.ID {
			relations = append(relations, p)
		}
	}

	writeJSON(w, map[string]any{
		"houseguest":    hg,
		"trust":         s.Sim.TrustReport(hg.ID, 0),
		"relationships": relations,
	})
}

func (s *Server) handleRelationships(w http.ResponseWriter, r *http.Request) {
	s.Sim.RLock()
	defer s.Sim.RUnlock()
	writeJSON(w, s.Sim.Relationships.Pairs())
}

func (s *Server) handleDeals(w http.ResponseWriter, r *http.Request) {
	s.Sim.RLock()
	defer s.Sim.RUnlock()
	writeJSON(w, s.Sim.Ledger)
}

func (s *Server) handleAlliances(w http.ResponseWriter, r *http.Request) {
	s.Sim.RLock()
	defer s.Sim.RUnlock()
	writeJSON(w, s.Sim.Alliances)
}

// handleEvents serves the event feed, optionally filtered with ?week=N.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.Sim.RLock()
	defer s.Sim.RUnlock()

	events := s.Sim.Events
	if weekStr := r.URL.Query().Get("week"); weekStr != "" {
		week, err := strconv.Atoi(weekStr)
		if err != nil {
			http.Error(w, "invalid week", http.StatusBadRequest)
			return
		}
		var filtered []engine.Event
		for _, e := range events {
			if e.Week == week {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}
	writeJSON(w, events)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("write response failed", "error", err)
	}
}
