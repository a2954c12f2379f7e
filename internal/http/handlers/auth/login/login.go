// Package login implements the authentication endpoint.
//
// On success the response carries an access token, a refresh token and the
// account role; the tokens themselves embed only the user id.
package login

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
	"github.com/lecturelink/lecture-match/internal/models"
	"github.com/lecturelink/lecture-match/internal/services/auth"
)

// Request carries the login credentials.
type Request struct {
	ID       string `json:"user_id" validate:"required,min=6,max=20"`
	Password string `json:"user_password" validate:"required,min=6,max=20"`
}

// Handler handles login requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the identity operation used by this endpoint.
type Service interface {
	Login(ctx context.Context, id, rawPassword string) (*auth.TokenPair, *models.User, error)
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
// @Summary Log in
// @Description Verifies the id and password and returns an access and a refresh token.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Login credentials"
// @Success 200 {object} response.Response "Tokens issued"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON"
// @Failure 401 {object} response.ErrorResponse "Invalid credentials or disabled account"
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
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
	log.Info("request body decoded", slog.String("user_id", req.ID))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	tokens, user, err := h.service.Login(r.Context(), req.ID, req.Password)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(err))
		render.JSON(w, r, response.Error("invalid credentials"))
		return
	}

	log.Info("login success", slog.String("user_id", user.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"user_id":       user.ID,
		"user_role":     user.Role,
	}))
}
