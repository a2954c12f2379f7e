// Package detail implements the full posting view. The response includes
// viewer-derived flags: whether the viewer owns the posting and whether the
// viewer has already applied to it.
package detail

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

// Handler handles posting detail requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the engine operation used by this endpoint.
type Service interface {
	Detail(ctx context.Context, viewer *models.User, kind models.Kind, id int) (*models.PostingDetail, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Get a posting
// @Description Returns the full posting plus whether the viewer owns it or has applied to it.
// @Tags Postings
// @Produce  json
// @Security BearerAuth
// @Param kind path string true "Posting kind" Enums(requests, programs)
// @Param id path int true "Posting id"
// @Success 200 {object} response.Response "Posting detail"
// @Failure 400 {object} response.ErrorResponse "Unknown kind or invalid id"
// @Failure 404 {object} response.ErrorResponse "Posting not found"
// @Router /postings/{kind}/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.posting.detail"
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
		log.Error("invalid posting id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid posting id"))
		return
	}

	viewer, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	detail, err := h.service.Detail(r.Context(), viewer, kind, id)
	if err != nil {
		log.Error("failed to load posting", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(err))
		render.JSON(w, r, response.Error("posting not found"))
		return
	}

	log.Info("posting detail served", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"posting":        detail.Posting,
		"is_owner":       detail.IsOwner,
		"is_applied":     detail.IsApplied,
		"application_id": detail.ApplicationID,
	}))
}
