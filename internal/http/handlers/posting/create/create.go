// Package create implements posting creation for both kinds. The kind comes
// from the URL ("requests" or "programs") and the service checks that the
// caller holds the matching owner role.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/lecturelink/lecture-match/internal/apperr"
	"github.com/lecturelink/lecture-match/internal/http/middlewarectx"
	"github.com/lecturelink/lecture-match/internal/http/response"
	"github.com/lecturelink/lecture-match/internal/lib/sl"
	"github.com/lecturelink/lecture-match/internal/models"
)

// Handler handles posting creation requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the engine operation used by this endpoint.
type Service interface {
	Create(ctx context.Context, actor *models.User, kind models.Kind, req models.PostingCreateRequest) (int, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Create a posting
// @Description Creates a lecture request or a program, depending on the kind path segment. Requires the kind's owner role.
// @Tags Postings
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param kind path string true "Posting kind" Enums(requests, programs)
// @Param request body models.PostingCreateRequest true "Posting form"
// @Success 200 {object} response.Response "Created posting id"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON or unknown kind"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Wrong role for this kind"
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Router /postings/{kind} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.posting.create"
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

	var req models.PostingCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("title", req.Title))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.service.Create(r.Context(), actor, kind, req)
	if err != nil {
		log.Error("failed to create posting", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(err))
		render.JSON(w, r, response.Error("could not create posting"))
		return
	}

	log.Info("posting created", slog.Int("id", id), slog.String("kind", string(kind)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"posting_id": id,
	}))
}
