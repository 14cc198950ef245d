package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/okian/rarepour/internal/adapters/repository"
	"github.com/okian/rarepour/internal/domain/preferences"
	"github.com/okian/rarepour/pkg/logger"
)

// OpeningsDependencies defines the interface for recommendation requests.
type OpeningsDependencies interface {
	NextOpenings(ctx context.Context, query url.Values) (Openings, error)
}

// OpeningsHandler handles next-opening requests.
type OpeningsHandler struct {
	deps OpeningsDependencies
	log  logger.Logger
}

// NewOpeningsHandler creates a new openings handler.
func NewOpeningsHandler(deps OpeningsDependencies, log logger.Logger) *OpeningsHandler {
	return &OpeningsHandler{deps: deps, log: log}
}

// HandleNextOpening handles GET /api/next-opening. It answers with the
// ranked openings, or a message when none qualify.
func (h *OpeningsHandler) HandleNextOpening(w http.ResponseWriter, r *http.Request) {
	const op = "api.next_opening"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	values, err := query(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.NextOpenings(r.Context(), values)
	if err != nil {
		status, code, apiErr := classify(op, err)
		if status >= http.StatusInternalServerError {
			h.log.Error(r.Context(), "next opening failed",
				logger.String("request_id", RequestID(r.Context())),
				logger.Error(err))
		}
		writeError(w, status, code, apiErr)
		return
	}

	if res.Empty() {
		writeJSON(w, http.StatusOK, messageResponse{Message: res.Message()})
		return
	}
	writeJSON(w, http.StatusOK, res.Recommendations)
}

// classify maps service errors onto HTTP statuses.
func classify(op string, err error) (int, string, error) {
	switch {
	case errors.Is(err, preferences.ErrInvalidPreference):
		return http.StatusBadRequest, "invalid_preference", WrapKind(op, ErrBadRequest, err)
	case errors.Is(err, repository.ErrDataUnavailable):
		return http.StatusServiceUnavailable, "data_unavailable", WrapKind(op, ErrDataUnavailable, err)
	default:
		return http.StatusInternalServerError, "internal_error", Wrap(op, err)
	}
}
