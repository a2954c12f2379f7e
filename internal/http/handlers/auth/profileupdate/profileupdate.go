// Package profileupdate implements the self-service profile edit. Only the
// supplied fields change; a supplied password is re-hashed.
package profileupdate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/lecturelink/lecture-match/internal/apperr"
	"github.com/lecturelink/lecture-match/internal/http/middlewarectx"
	"github.com/lecturelink/lecture-match/internal/http/response"
	"github.com/lecturelink/lecture-match/internal/lib/sl"
	"github.com/lecturelink/lecture-match/internal/models"
)

// Handler handles profile updates.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the identity operation used by this endpoint.
type Service interface {
	UpdateUser(ctx context.Context, id string, req models.UserUpdateRequest) error
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
// @Summary Update own profile
// @Description Applies the supplied profile fields to the authenticated account.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.UserUpdateRequest true "Fields to change"
// @Success 200 {object} response.Response "Profile updated"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 409 {object} response.ErrorResponse "Email or phone already taken"
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Router /me [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profileupdate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var req models.UserUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.UpdateUser(r.Context(), actor.ID, req); err != nil {
		log.Error("failed to update profile", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(err))
		render.JSON(w, r, response.Error("could not update profile"))
		return
	}

	log.Info("profile updated", slog.String("user_id", actor.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_id": actor.ID,
	}))
}
