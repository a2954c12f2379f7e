// Package listforposting lists all applications to one posting for its
// owner, each annotated with the matching-status label. An empty list is a
// valid answer here, unlike on the public boards.
package listforposting

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

// Handler handles per-posting application listing requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the engine operation used by this endpoint.
type Service interface {
	ListForPosting(ctx context.Context, actor *models.User, kind models.Kind, postingID int) ([]*models.ApplicationWithStatus, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary List applications to a posting
// @Description Returns every application to the posting with its matching-status label. Restricted to the posting owner.
// @Tags Applications
// @Produce  json
// @Security BearerAuth
// @Param kind path string true "Posting kind" Enums(requests, programs)
// @Param id path int true "Posting id"
// @Success 200 {object} response.Response "Applications"
// @Failure 400 {object} response.ErrorResponse "Unknown kind or invalid id"
// @Failure 403 {object} response.ErrorResponse "Not the posting owner"
// @Failure 404 {object} response.ErrorResponse "Posting not found"
// @Router /postings/{kind}/{id}/applies [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.application.listforposting"
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
	postingID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid posting id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid posting id"))
		return
	}

	actor, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	apps, err := h.service.ListForPosting(r.Context(), actor, kind, postingID)
	if err != nil {
		log.Error("failed to list applications", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(err))
		render.JSON(w, r, response.Error("could not list applications"))
		return
	}

	log.Info("applications listed", slog.Int("posting_id", postingID), slog.Int("count", len(apps)))
	render.JSON(w, r, response.StatusOKWithData(apps))
}
