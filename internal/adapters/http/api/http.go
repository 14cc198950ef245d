// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"net/url"

	json "github.com/goccy/go-json"
	"github.com/okian/rarepour/internal/domain/model"
	"github.com/okian/rarepour/internal/domain/types"
	"github.com/okian/rarepour/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	OpeningsDependencies
	ReferenceDependencies
}

// Openings mirrors the result of a next-openings evaluation.
type Openings = types.Openings

// MasterClass is the read shape of a master class session.
type MasterClass = model.MasterClass

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	openingsHandler  *OpeningsHandler
	referenceHandler *ReferenceHandler
	log              logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		openingsHandler:  NewOpeningsHandler(deps, log),
		referenceHandler: NewReferenceHandler(deps, log),
		log:              log,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/next-opening", s.business(s.openingsHandler.HandleNextOpening, "next_opening"))
	mux.HandleFunc("/api/houses", s.business(s.referenceHandler.HandleHouses, "houses"))
	mux.HandleFunc("/api/master-classes", s.business(s.referenceHandler.HandleMasterClasses, "master_classes"))
}

func (s *Server) business(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return RequestIDMiddleware(MetricsMiddleware(next, endpoint), s.log)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError reports the cause of client errors. Server-side failures only
// carry the status text so file paths and internals stay in the logs.
func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil && status < http.StatusInternalServerError {
		msg = message(err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// query parses the raw query string strictly.
func query(r *http.Request) (url.Values, error) {
	return url.ParseQuery(r.URL.RawQuery)
}
