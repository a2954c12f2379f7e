// Package refresh exchanges a valid refresh token for a new access token.
package refresh

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/lecturelink/lecture-match/internal/apperr"
	"github.com/lecturelink/lecture-match/internal/http/response"
	"github.com/lecturelink/lecture-match/internal/lib/sl"
)

// Request carries the refresh token.
type Request struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Handler handles token refresh requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the identity operation used by this endpoint.
type Service interface {
	Refresh(ctx context.Context, refreshToken string) (string, error)
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
// @Summary Refresh the access token
// @Description Issues a new access token from a valid refresh token.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Refresh token"
// @Success 200 {object} response.Response "New access token"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON"
// @Failure 401 {object} response.ErrorResponse "Invalid or expired refresh token"
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Router /refresh [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.refresh"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	access, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		log.Error("refresh failed", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(err))
		render.JSON(w, r, response.Error("invalid or expired refresh token"))
		return
	}

	log.Info("access token refreshed")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"access_token": access,
	}))
}
