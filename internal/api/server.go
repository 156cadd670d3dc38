// Package api provides the HTTP API over the world and market generators.
// GET endpoints are read-only queries against deterministic content; the
// only mutating endpoints are docking (advances a station's visit serial)
// and trading (records quantity deltas in the session store).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"starlanes/internal/market"
	"starlanes/internal/session"
	"starlanes/internal/worldgen"
)

// Server serves world and market queries over HTTP.
type Server struct {
	World   *worldgen.Generator
	Markets *market.Generator
	Store   *session.Store
	Port    int
}

// Handler builds the route mux. Split from Start so tests can drive it
// with httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/view", s.handleView)
	mux.HandleFunc("/api/v1/despawn", s.handleDespawn)
	mux.HandleFunc("/api/v1/station/", s.handleStationRoutes)

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, s.Handler()); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins. Set
// CORS_ORIGINS to a comma-separated list; localhost dev servers are
// always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	cfg := s.World.Config()
	writeJSON(w, map[string]any{
		"name":         "starlanes",
		"cells_cached": s.World.CachedCells(),
		"cell_size":    cfg.CellSize,
		"commodities":  len(s.Markets.Catalog()),
	})
}

// handleView returns the objects visible in a camera rectangle:
// GET /api/v1/view?x=-900&y=400&w=1280&h=720
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	x, errX := parseFloatParam(r, "x")
	y, errY := parseFloatParam(r, "y")
	vw, errW := parseFloatParam(r, "w")
	vh, errH := parseFloatParam(r, "h")
	if errX != nil || errY != nil || errW != nil || errH != nil {
		http.Error(w, "x, y, w, h must be numbers", http.StatusBadRequest)
		return
	}
	if vw <= 0 || vh <= 0 {
		http.Error(w, "w and h must be positive", http.StatusBadRequest)
		return
	}

	objs, err := s.World.ObjectsInView(x, y, vw, vh)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	type entry struct {
		Kind   worldgen.Kind   `json:"kind"`
		Object worldgen.Object `json:"object"`
	}
	out := make([]entry, 0, len(objs))
	for _, o := range objs {
		out = append(out, entry{Kind: o.ObjectKind(), Object: o})
	}
	writeJSON(w, map[string]any{"objects": out, "count": len(out)})
}

// handleDespawn filters entities beyond a despawn radius:
// POST /api/v1/despawn {"x": 0, "y": 0, "radius": 5000, "entities": [...]}
func (s *Server) handleDespawn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		X        float64           `json:"x"`
		Y        float64           `json:"y"`
		Radius   float64           `json:"radius"`
		Entities []worldgen.Entity `json:"entities"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Radius < 0 {
		http.Error(w, "radius must be non-negative", http.StatusBadRequest)
		return
	}

	ids := worldgen.EnemiesToDespawn(req.Entities, req.X, req.Y, req.Radius)
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, map[string]any{"despawn": ids})
}

// handleStationRoutes dispatches:
//
//	GET  /api/v1/station/{id}          station record
//	GET  /api/v1/station/{id}/market   merged market at the current visit
//	POST /api/v1/station/{id}/dock     new visit serial + fresh market
//	POST /api/v1/station/{id}/trade    record a quantity delta
func (s *Server) handleStationRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/station/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		http.Error(w, "missing station id", http.StatusBadRequest)
		return
	}

	st, ok := s.World.StationByID(id)
	if !ok {
		http.Error(w, "station not found", http.StatusNotFound)
		return
	}

	switch action {
	case "":
		writeJSON(w, st)
	case "market":
		s.handleMarket(w, r, st)
	case "dock":
		s.handleDock(w, r, st)
	case "trade":
		s.handleTrade(w, r, st)
	default:
		http.Error(w, "unknown station action", http.StatusNotFound)
	}
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request, st worldgen.Station) {
	visit, err := s.Store.CurrentVisit(st.ID)
	if err != nil {
		slog.Error("visit lookup failed", "station", st.ID, "error", err)
		http.Error(w, "session store error", http.StatusInternalServerError)
		return
	}
	if v := r.URL.Query().Get("visit"); v != "" {
		visit, err = strconv.ParseInt(v, 10, 64)
		if err != nil || visit < 0 {
			http.Error(w, "visit must be a non-negative integer", http.StatusBadRequest)
			return
		}
	}

	baseline := s.Markets.Generate(st, s.World.Config().WorldSeed, visit)
	merged, err := s.Store.Overlay(baseline)
	if err != nil {
		slog.Error("overlay failed", "station", st.ID, "error", err)
		http.Error(w, "session store error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, merged)
}

func (s *Server) handleDock(w http.ResponseWriter, r *http.Request, st worldgen.Station) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	visit, err := s.Store.BeginVisit(st.ID)
	if err != nil {
		slog.Error("dock failed", "station", st.ID, "error", err)
		http.Error(w, "session store error", http.StatusInternalServerError)
		return
	}

	baseline := s.Markets.Generate(st, s.World.Config().WorldSeed, visit)
	merged, err := s.Store.Overlay(baseline)
	if err != nil {
		slog.Error("overlay failed", "station", st.ID, "error", err)
		http.Error(w, "session store error", http.StatusInternalServerError)
		return
	}

	slog.Info("docked", "station", st.ID, "name", st.Name, "visit", visit)
	writeJSON(w, merged)
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request, st worldgen.Station) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Commodity string `json:"commodity"`
		QtyDelta  int    `json:"qty_delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Commodity == "" || req.QtyDelta == 0 {
		http.Error(w, "commodity and a non-zero qty_delta are required", http.StatusBadRequest)
		return
	}

	known := false
	for _, c := range s.Markets.Catalog() {
		if c.Key == req.Commodity {
			known = true
			break
		}
	}
	if !known {
		http.Error(w, "unknown commodity", http.StatusBadRequest)
		return
	}

	if err := s.Store.RecordTrade(st.ID, req.Commodity, req.QtyDelta); err != nil {
		slog.Error("trade record failed", "station", st.ID, "error", err)
		http.Error(w, "session store error", http.StatusInternalServerError)
		return
	}

	slog.Info("trade recorded", "station", st.ID, "commodity", req.Commodity, "qty_delta", req.QtyDelta)
	w.WriteHeader(http.StatusNoContent)
}

func parseFloatParam(r *http.Request, key string) (float64, error) {
	return strconv.ParseFloat(r.URL.Query().Get(key), 64)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
