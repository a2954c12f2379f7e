// Package mypostings lists the authenticated user's own postings of a kind
// with full fields, for the management view.
package mypostings

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

// Handler handles own-posting listing requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the engine operation used by this endpoint.
type Service interface {
	ListByOwner(ctx context.Context, actor *models.User, kind models.Kind) ([]*models.Posting, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary List own postings
// @Description Returns the authenticated user's postings of the kind with full fields.
// @Tags Postings
// @Produce  json
// @Security BearerAuth
// @Param kind path string true "Posting kind" Enums(requests, programs)
// @Success 200 {object} response.Response "Own postings"
// @Failure 400 {object} response.ErrorResponse "Unknown kind"
// @Failure 403 {object} response.ErrorResponse "Wrong role for this kind"
// @Failure 404 {object} response.ErrorResponse "No postings"
// @Router /my/postings/{kind} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.posting.mypostings"
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

	postings, err := h.service.ListByOwner(r.Context(), actor, kind)
	if err != nil {
		log.Error("failed to list own postings", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(err))
		render.JSON(w, r, response.Error("no postings found"))
		return
	}

	log.Info("own postings listed", slog.Int("count", len(postings)))
	render.JSON(w, r, response.StatusOKWithData(postings))
}
