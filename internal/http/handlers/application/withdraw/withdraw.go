// Package withdraw implements application withdrawal. The applicant may
// withdraw in any status, accepted included.
package withdraw

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

// Handler handles application withdrawal requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the engine operation used by this endpoint.
type Service interface {
	Withdraw(ctx context.Context, actor *models.User, kind models.Kind, id int) error
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Withdraw an application
// @Description Deletes the caller's own application regardless of its status.
// @Tags Applications
// @Produce  json
// @Security BearerAuth
// @Param kind path string true "Posting kind" Enums(requests, programs)
// @Param id path int true "Application id"
// @Success 200 {object} response.Response "Application withdrawn"
// @Failure 400 {object} response.ErrorResponse "Unknown kind or invalid id"
// @Failure 403 {object} response.ErrorResponse "Not the applicant"
// @Failure 404 {object} response.ErrorResponse "Application not found"
// @Router /applies/{kind}/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.application.withdraw"
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

	if err := h.service.Withdraw(r.Context(), actor, kind, id); err != nil {
		log.Error("failed to withdraw application", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(err))
		render.JSON(w, r, response.Error("could not withdraw application"))
		return
	}

	log.Info("application withdrawn", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"application_id": id,
	}))
}
