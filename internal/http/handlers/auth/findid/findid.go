// Package findid implements id recovery: the account is looked up by name
// and email and the id comes back with its last three characters masked.
package findid

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
	Name  string `json:"user_name" validate:"required,max=18"`
	Email string `json:"user_email" validate:"required,email"`
}

// Handler handles id recovery requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the identity operation used by this endpoint.
type Service interface {
	FindID(ctx context.Context, name, email string) (string, error)
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
// @Summary Recover a forgotten id
// @Description Looks up the account by name and email and returns the id with its last three characters masked.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Recovery form"
// @Success 200 {object} response.Response "Masked id"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON"
// @Failure 404 {object} response.ErrorResponse "No matching account"
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Router /find-id [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.findid"
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

	maskedID, err := h.service.FindID(r.Context(), req.Name, req.Email)
	if err != nil {
		log.Error("id recovery failed", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(err))
		render.JSON(w, r, response.Error("no matching account"))
		return
	}

	log.Info("id recovered")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_id": maskedID,
	}))
}
