// Package create implements applying to a posting. The caller must hold the
// kind's applicant role; a second application to the same posting answers
// with a conflict.
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

// Handler handles application creation requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the engine operation used by this endpoint.
type Service interface {
	Create(ctx context.Context, actor *models.User, kind models.Kind, req models.ApplicationCreateRequest) (int, error)
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
// @Summary Apply to a posting
// @Description Creates a pending application with the caller's contact data snapshotted in. A posting can be applied to once per user.
// @Tags Applications
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param kind path string true "Posting kind" Enums(requests, programs)
// @Param request body models.ApplicationCreateRequest true "Application form"
// @Success 200 {object} response.Response "Created application id"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON or unknown kind"
// @Failure 403 {object} response.ErrorResponse "Wrong role for this kind"
// @Failure 404 {object} response.ErrorResponse "Posting not found"
// @Failure 409 {object} response.ErrorResponse "Already applied"
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Router /applies/{kind} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.application.create"
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

	var req models.ApplicationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Int("posting_id", req.PostingID))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.service.Create(r.Context(), actor, kind, req)
	if err != nil {
		log.Error("failed to create application", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(err))
		render.JSON(w, r, response.Error("could not create application"))
		return
	}

	log.Info("application created", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"application_id": id,
	}))
}
