// Package search implements the posting board search. The query matches
// title and description as a case-sensitive substring; zero matches answer
// 404, the same contract as the board listing.
package search

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

// Handler handles posting search requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the engine operation used by this endpoint.
type Service interface {
	Search(ctx context.Context, kind models.Kind, query string) ([]*models.PostingSummary, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Search postings
// @Description Returns the postings of the kind whose title or description contains the query substring.
// @Tags Postings
// @Produce  json
// @Param kind path string true "Posting kind" Enums(requests, programs)
// @Param query query string true "Search substring"
// @Success 200 {object} response.Response "Matching posting summaries"
// @Failure 400 {object} response.ErrorResponse "Unknown kind or missing query"
// @Failure 404 {object} response.ErrorResponse "No matches"
// @Router /postings/{kind}/search [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.posting.search"
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

	query := r.URL.Query().Get("query")
	if query == "" {
		log.Error("missing search query")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing search query"))
		return
	}

	summaries, err := h.service.Search(r.Context(), kind, query)
	if err != nil {
		log.Error("search failed", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(err))
		render.JSON(w, r, response.Error("no postings found"))
		return
	}

	log.Info("postings searched", slog.String("query", query), slog.Int("count", len(summaries)))
	render.JSON(w, r, response.StatusOKWithData(summaries))
}
