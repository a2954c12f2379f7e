// Package decide implements the owner's accept and reject actions. One
// handler serves both routes; the decision it applies is fixed at wiring
// time. Only a pending application can be decided, and only once.
package decide

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lecturelink/lecture-match/internal/apperr"
	"github.com/lecturelink/lecture-match/internal/http/middlewarectx"
	"github.com/lecturelink/lecture-match/internal/http/response"
	"github.com/lecturelink/lecture-match/internal/lib/sl"
	"github.com/lecturelink/lecture-match/internal/models"
)

// Handler handles accept or reject requests, depending on its status.
type Handler struct {
	log     *slog.Logger
	service Service
	status  models.Status
}

// Service is the engine operation used by this endpoint.
type Service interface {
	Accept(ctx context.Context, actor *models.User, kind models.Kind, id int) error
	Reject(ctx context.Context, actor *models.User, kind models.Kind, id int) error
}

// New creates a Handler applying the given decision, StatusAccepted or
// StatusRejected.
func New(log *slog.Logger, service Service, status models.Status) *Handler {
	return &Handler{
		log:     log,
		service: service,
		status:  status,
	}
}

// ServeHTTP godoc
// @Summary Decide an application
// @Description Accepts or rejects a pending application. Restricted to the posting owner; a decided application cannot be decided again.
// @Tags Applications
// @Produce  json
// @Security BearerAuth
// @Param kind path string true "Posting kind" Enums(requests, programs)
// @Param id path int true "Application id"
// @Success 200 {object} response.Response "Decision applied"
// @Failure 400 {object} response.ErrorResponse "Unknown kind or invalid id"
// @Failure 403 {object} response.ErrorResponse "Not the posting owner"
// @Failure 404 {object} response.ErrorResponse "Application not found"
// @Failure 409 {object} response.ErrorResponse "Application already decided"
// @Router /applies/{kind}/{id}/accept [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.application.decide"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("decision", string(h.status)),
	)

	kind, err := models.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		log.Error("unknown posting kind", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown posting kind"))
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid application id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid application id"))
		return
	}

	actor, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if h.status == models.StatusAccepted {
		err = h.service.Accept(r.Context(), actor, kind, id)
	} else {
		err = h.service.Reject(r.Context(), actor, kind, id)
	}
	if err != nil {
		log.Error("failed to decide application", sl.Err(err))
		w.WriteHeader(apperr.HTTPStatus(err))
		render.JSON(w, r, response.Error("could not decide application"))
		return
	}

	log.Info("application decided", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"application_id": id,
		"status":         h.status,
		"status_label":   h.status.Label(),
	}))
}
