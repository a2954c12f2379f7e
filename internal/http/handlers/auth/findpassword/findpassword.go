// Package findpassword implements password recovery: a temporary password
// replaces the stored one and is returned to the caller.
package findpassword

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

// Request carries the recovery form.
type Request struct {
	ID    string `json:"user_id" validate:"required,min=6,max=20"`
	Email string `json:"user_email" validate:"required,email"`
}

// Handler handles password recovery requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the identity operation used by this endpoint.
type Service interface {
	FindPassword(ctx context.Context, id, email string) (string, error)
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
// @Summary Recover a forgotten password
// @Description Verifies id and email, overwrites the stored password with a temporary one and returns it.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Recovery form"
// @Success 200 {object} response.Response "Temporary password"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON"
// @Failure 404 {object} response.ErrorResponse "No matching account"
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Router /find-password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.findpassword"
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

	temp, err := h.service.FindPassword(r.Context(), req.ID, req.Email)
	if err != nil {
		log.Error("password recovery failed", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(err))
		render.JSON(w, r, response.Error("no matching account"))
		return
	}

	log.Info("temporary password issued", slog.String("user_id", req.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"temporary_password": temp,
	}))
}
