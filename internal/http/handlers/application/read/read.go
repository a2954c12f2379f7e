// Package read returns a single application with its Korean status label.
// Only the applicant and the posting owner may see it.
package read

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lecturelink/lecture-match/internal/apperr"
	"github.com/lecturelink/lecture-match/internal/http/middlewarectx"
	"github.com/lecturelink/lecture-match/internal/http/response"
	"github.com/lecturelink/lecture-match/internal/lib/sl"
	"github.com/lecturelink/lecture-match/internal/models"
)

// Handler handles application read requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the engine operation used by this endpoint.
type Service interface {
	Read(ctx context.Context, actor *models.User, kind models.Kind, id int) (*models.Application, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Get an application
// @Description Returns the application. Restricted to its applicant and the posting owner.
// @Tags Applications
// @Produce  json
// @Security BearerAuth
// @Param kind path string true "Posting kind" Enums(requests, programs)
// @Param id path int true "Application id"
// @Success 200 {object} response.Response "Application data"
// @Failure 400 {object} response.ErrorResponse "Unknown kind or invalid id"
// @Failure 403 {object} response.ErrorResponse "Neither applicant nor owner"
// @Failure 404 {object} response.ErrorResponse "Application not found"
// @Router /applies/{kind}/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.application.read"
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
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid application id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid application id"))
		return
	}

	actor, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	app, err := h.service.Read(r.Context(), actor, kind, id)
	if err != nil {
		log.Error("failed to load application", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(err))
		render.JSON(w, r, response.Error("application not found"))
		return
	}

	log.Info("application served", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"application":  app,
		"status_label": app.Status.Label(),
	}))
}
