// Package health implements the liveness endpoint used by deployment probes.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/lecturelink/lecture-match/internal/http/response"
	"github.com/lecturelink/lecture-match/internal/lib/sl"
)

// Handler handles health probes.
type Handler struct {
	log     *slog.Logger
	checker Checker
}

// Checker reports whether the storage is reachable and migrated.
type Checker interface {
	CheckDatabaseReady(ctx context.Context) error
}

// New creates a Handler.
func New(log *slog.Logger, checker Checker) *Handler {
	return &Handler{
		log:     log,
		checker: checker,
	}
}

// ServeHTTP godoc
// @Summary Health check
// @Description Reports whether the service and its database are ready.
// @Tags Service
// @Produce  json
// @Success 200 {object} response.Response "Service healthy"
// @Failure 503 {object} response.ErrorResponse "Database unavailable"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.checker.CheckDatabaseReady(r.Context()); err != nil {
		h.log.Error("database not ready", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("database unavailable"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData("healthy"))
}
