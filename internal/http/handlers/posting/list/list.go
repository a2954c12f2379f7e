// Package list implements the public posting board. Descriptions and
// audience fields come back shortened for display and the date carries its
// Korean weekday label. An empty board answers 404.
package list

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
	"github.com/lecturelink/lecture-match/internal/models"
)

// Handler handles posting board requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the engine operation used by this endpoint.
type Service interface {
	List(ctx context.Context, kind models.Kind) ([]*models.PostingSummary, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary List postings
// @Description Returns the display projection of every posting of the kind. An empty board is reported as not found.
// @Tags Postings
// @Produce  json
// @Param kind path string true "Posting kind" Enums(requests, programs)
// @Success 200 {object} response.Response "Posting summaries"
// @Failure 400 {object} response.ErrorResponse "Unknown kind"
// @Failure 404 {object} response.ErrorResponse "No postings"
// @Router /postings/{kind}/list [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.posting.list"
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

	summaries, err := h.service.List(r.Context(), kind)
	if err != nil {
		log.Error("failed to list postings", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(err))
		render.JSON(w, r, response.Error("no postings found"))
		return
	}

	log.Info("postings listed", slog.Int("count", len(summaries)))
	render.JSON(w, r, response.StatusOKWithData(summaries))
}
