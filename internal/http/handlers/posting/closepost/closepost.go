// Package closepost implements the posting lifecycle close: "complete" for
// lecture requests, "interrupt" for programs. Closing twice is a no-op.
package closepost

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

// Handler handles posting close requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the engine operation used by this endpoint.
type Service interface {
	Close(ctx context.Context, actor *models.User, kind models.Kind, id int) error
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Close a posting
// @Description Marks an owned posting as closed. There is no reopen; closing an already closed posting succeeds.
// @Tags Postings
// @Produce  json
// @Security BearerAuth
// @Param kind path string true "Posting kind" Enums(requests, programs)
// @Param id path int true "Posting id"
// @Success 200 {object} response.Response "Posting closed"
// @Failure 400 {object} response.ErrorResponse "Unknown kind or invalid id"
// @Failure 403 {object} response.ErrorResponse "Not the posting owner"
// @Failure 404 {object} response.ErrorResponse "Posting not found"
// @Router /postings/{kind}/{id}/close [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.posting.closepost"
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

	actor, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Close(r.Context(), actor, kind, id); err != nil {
		log.Error("failed to close posting", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(err))
		render.JSON(w, r, response.Error("could not close posting"))
		return
	}

	log.Info("posting closed", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"posting_id": id,
	}))
}
