// Package myapplies lists the authenticated user's application history for
// a kind, each row joined with the current posting fields. Zero applications
// answer 404.
package myapplies

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lecturelink/lecture-match/internal/apperr"
	"github.com/lecturelink/lecture-match/internal/http/middlewarectx"
	"github.com/lecturelink/lecture-match/internal/http/response"
	"github.com/lecturelink/lecture-match/internal/lib/sl"
	"github.com/lecturelink/lecture-match/internal/models"
)

// Handler handles own-application listing requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the engine operation used by this endpoint.
type Service interface {
	ListForApplicant(ctx context.Context, actor *models.User, kind models.Kind) ([]*models.ApplicantEntry, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary List own applications
// @Description Returns the caller's applications of the kind with the current posting data and matching-status labels.
// @Tags Applications
// @Produce  json
// @Security BearerAuth
// @Param kind path string true "Posting kind" Enums(requests, programs)
// @Success 200 {object} response.Response "Application history"
// @Failure 400 {object} response.ErrorResponse "Unknown kind"
// @Failure 403 {object} response.ErrorResponse "Wrong role for this kind"
// @Failure 404 {object} response.ErrorResponse "No applications"
// @Router /my/applies/{kind} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.application.myapplies"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	kind, err := models.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		log.Error("unknown posting kind", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown posting kind"))
		return
	}

	actor, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	entries, err := h.service.ListForApplicant(r.Context(), actor, kind)
	if err != nil {
		log.Error("failed to list own applications", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(err))
		render.JSON(w, r, response.Error("no applications found"))
		return
	}

	log.Info("own applications listed", slog.Int("count", len(entries)))
	render.JSON(w, r, response.StatusOKWithData(entries))
}
