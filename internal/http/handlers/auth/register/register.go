// Package register implements the signup endpoint.
//
// The handler decodes the signup form, validates it and delegates to the
// auth service, which rejects ids, emails and phone numbers that are
// already taken.
package register

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
)

// Handler handles signup requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the identity operation used by this endpoint.
type Service interface {
	Register(ctx context.Context, req models.SignupRequest) error
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
// @Summary Register a new account
// @Description Creates an account with the chosen id, role and contact data. Fails when the id, email or phone is already registered.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.SignupRequest true "Signup form"
// @Success 200 {object} response.Response "Account created"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON"
// @Failure 409 {object} response.ErrorResponse "Identity field already registered"
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /signup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.SignupRequest
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

	if err := h.service.Register(r.Context(), req); err != nil {
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(err))
		render.JSON(w, r, response.Error("already registered"))
		return
	}

	log.Info("user registered", slog.String("user_id", req.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_id": req.ID,
	}))
}
