package handler

import (
	"net/http"

	"bouncely/internal/notifications/repository"
	"bouncely/pkg/auth"
	apperrors "bouncely/pkg/errors"
	httputil "bouncely/pkg/http"
	"bouncely/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// NotificationHandler serves the caller's in-app inbox.
type NotificationHandler struct {
	repo repository.NotificationRepository
	log  *logger.Logger
}

func NewNotificationHandler(repo repository.NotificationRepository, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{repo: repo, log: log}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := auth.RequireActor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	notifications, err := h.repo.FindByUser(r.Context(), actor.UserID, limit, offset)
	if err != nil {
		h.log.Error("Failed to list notifications", "user_id", actor.UserID, "error", err)
		h.writeError(w, apperrors.Internal("Failed to retrieve notifications", err))
		return
	}

	if err := httputil.WriteSuccess(w, notifications); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *NotificationHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
	}
}

func (h *NotificationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/notifications", h.List)
}
