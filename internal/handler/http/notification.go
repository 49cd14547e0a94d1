package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jschof1/val-des-roses/internal/cart"
	"github.com/jschof1/val-des-roses/pkg/httputil"
	"github.com/jschof1/val-des-roses/pkg/middleware"
)

// NotificationHandler exposes the session's notification queue.
type NotificationHandler struct {
	manager *cart.Manager
	logger  *slog.Logger
}

// NewNotificationHandler creates a new notification HTTP handler.
func NewNotificationHandler(manager *cart.Manager, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		manager: manager,
		logger:  logger,
	}
}

// List handles GET /api/v1/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	hub := h.manager.Notifications(r.Context(), sessionID)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: hub.List()})
}

// Dismiss handles DELETE /api/v1/notifications/{id}. Dismissing an
// unknown or already-expired notification succeeds.
func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	hub := h.manager.Notifications(r.Context(), sessionID)

	hub.Remove(chi.URLParam(r, "id"))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "dismissed"}})
}

// Clear handles DELETE /api/v1/notifications
func (h *NotificationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	hub := h.manager.Notifications(r.Context(), sessionID)

	hub.Clear()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}
