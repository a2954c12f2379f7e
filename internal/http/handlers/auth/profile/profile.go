// Package profile returns the authenticated user's own account data.
package profile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lecturelink/lecture-match/internal/apperr"
	"github.com/lecturelink/lecture-match/internal/http/middlewarectx"
	"github.com/lecturelink/lecture-match/internal/http/response"
	"github.com/lecturelink/lecture-match/internal/lib/sl"
	"github.com/lecturelink/lecture-match/internal/models"
)

// Handler handles profile reads.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the identity operation used by this endpoint.
type Service interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Get own profile
// @Description Returns the authenticated account without the password hash.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Account data"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Router /me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profile"
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

	user, err := h.service.GetUser(r.Context(), actor.ID)
	if err != nil {
		log.Error("failed to load profile", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(err))
		render.JSON(w, r, response.Error("could not load profile"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_id":       user.ID,
		"user_name":     user.Name,
		"user_phone":    user.Phone,
		"user_email":    user.Email,
		"user_role":     user.Role,
		"registered_at": user.RegisteredAt,
		"updated_at":    user.UpdatedAt,
	}))
}
