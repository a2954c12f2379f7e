// Package check implements the signup duplicate checks. One handler serves
// the three lookups; the field to check comes from the route pattern.
package check

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lecturelink/lecture-match/internal/apperr"
	"github.com/lecturelink/lecture-match/internal/http/response"
	"github.com/lecturelink/lecture-match/internal/lib/sl"
)

// Handler handles duplicate-check requests for a single identity field.
type Handler struct {
	log     *slog.Logger
	service Service
	field   string
}

// Service is the identity operation used by this endpoint.
type Service interface {
	CheckAvailable(ctx context.Context, field, value string) (bool, error)
}

// New creates a Handler for one of the fields "id", "email" or "phone".
func New(log *slog.Logger, service Service, field string) *Handler {
	return &Handler{
		log:     log,
		service: service,
		field:   field,
	}
}

// ServeHTTP godoc
// @Summary Check whether an identity field value is free
// @Description Reports whether the id, email or phone value in the path is still available for signup.
// @Tags Auth
// @Produce  json
// @Param value path string true "Value to check"
// @Success 200 {object} response.Response "Availability flag"
// @Failure 422 {object} response.ErrorResponse "Unknown field"
// @Router /check-id/{value} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.check"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	value := chi.URLParam(r, "value")
	if value == "" {
		log.Error("missing value in path")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing value"))
		return
	}

	available, err := h.service.CheckAvailable(r.Context(), h.field, value)
	if err != nil {
		log.Error("availability check failed", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(err))
		render.JSON(w, r, response.Error("could not check availability"))
		return
	}

	log.Info("availability checked", slog.String("field", h.field), slog.Bool("available", available))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"available": available,
	}))
}
