package api

import (
	"context"
	"net/http"

	"github.com/okian/rarepour/pkg/logger"
)

// ReferenceDependencies exposes the lookup lists clients build forms from.
type ReferenceDependencies interface {
	Houses(ctx context.Context) ([]string, error)
	MasterClasses(ctx context.Context) ([]MasterClass, error)
}

// ReferenceHandler handles house and master class listings.
type ReferenceHandler struct {
	deps ReferenceDependencies
	log  logger.Logger
}

// NewReferenceHandler creates a new reference handler.
func NewReferenceHandler(deps ReferenceDependencies, log logger.Logger) *ReferenceHandler {
	return &ReferenceHandler{deps: deps, log: log}
}

// HandleHouses handles GET /api/houses.
func (h *ReferenceHandler) HandleHouses(w http.ResponseWriter, r *http.Request) {
	const op = "api.houses"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	houses, err := h.deps.Houses(r.Context())
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	if houses == nil {
		houses = []string{}
	}
	writeJSON(w, http.StatusOK, houses)
}

// HandleMasterClasses handles GET /api/master-classes.
func (h *ReferenceHandler) HandleMasterClasses(w http.ResponseWriter, r *http.Request) {
	const op = "api.master_classes"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	classes, err := h.deps.MasterClasses(r.Context())
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	if classes == nil {
		classes = []MasterClass{}
	}
	writeJSON(w, http.StatusOK, classes)
}

func (h *ReferenceHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code, apiErr := classify(op, err)
	if status >= http.StatusInternalServerError {
		h.log.Error(r.Context(), "reference lookup failed",
			logger.String("op", op),
			logger.String("request_id", RequestID(r.Context())),
			logger.Error(err))
	}
	writeError(w, status, code, apiErr)
}
