package notifier

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jschof1/val-des-roses/internal/domain"
)

// timer is the subset of *time.Timer the hub needs, kept behind an
// interface so tests can fire timers deterministically.
type timer interface {
	Stop() bool
}

// Hub holds the transient queue of user-facing notifications.
//
// Notifications are kept in insertion order. Each non-persistent
// notification with a positive duration is removed automatically when
// its timer fires; persistent notifications stay until dismissed.
type Hub struct {
	logger *slog.Logger

	mu            sync.Mutex
	notifications []*domain.Notification
	timers        map[string]timer

	after func(d time.Duration, fn func()) timer
}

// NewHub creates an empty notification hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger,
		timers: make(map[string]timer),
		after: func(d time.Duration, fn func()) timer {
			return time.AfterFunc(d, fn)
		},
	}
}

// Add enqueues a notification. A missing ID is generated, a zero
// duration falls back to the default, and an auto-removal timer is
// scheduled unless the notification is persistent or its duration is
// negative.
func (h *Hub) Add(n domain.Notification) *domain.Notification {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Duration == 0 {
		n.Duration = domain.DefaultNotificationDuration
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	stored := &n
	h.notifications = append(h.notifications, stored)

	if !n.Persistent && n.Duration > 0 {
		id := n.ID
		h.timers[id] = h.after(n.Duration, func() {
			h.Remove(id)
		})
	}

	h.logger.Debug("notification added",
		slog.String("notification_id", n.ID),
		slog.String("type", n.Type),
	)

	return stored
}

// Success enqueues a success notification.
func (h *Hub) Success(title, message string) *domain.Notification {
	return h.Add(domain.Notification{
		Type:    domain.NotificationSuccess,
		Title:   title,
		Message: message,
	})
}

// SuccessWithAction enqueues a success notification carrying an action
// the UI renders as a button or link.
func (h *Hub) SuccessWithAction(title, message string, action *domain.NotificationAction) *domain.Notification {
	return h.Add(domain.Notification{
		Type:    domain.NotificationSuccess,
		Title:   title,
		Message: message,
		Action:  action,
	})
}

// Error enqueues an error notification.
func (h *Hub) Error(title, message string) *domain.Notification {
	return h.Add(domain.Notification{
		Type:    domain.NotificationError,
		Title:   title,
		Message: message,
	})
}

// Warning enqueues a warning notification.
func (h *Hub) Warning(title, message string) *domain.Notification {
	return h.Add(domain.Notification{
		Type:    domain.NotificationWarning,
		Title:   title,
		Message: message,
	})
}

// Info enqueues an info notification.
func (h *Hub) Info(title, message string) *domain.Notification {
	return h.Add(domain.Notification{
		Type:    domain.NotificationInfo,
		Title:   title,
		Message: message,
	})
}

// Remove dismisses a notification by ID and cancels its pending timer.
// Removing an unknown ID is a no-op, so a timer that fires after Clear
// or a manual dismissal does nothing.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if t, ok := h.timers[id]; ok {
		t.Stop()
		delete(h.timers, id)
	}

	for i, n := range h.notifications {
		if n.ID == id {
			h.notifications = append(h.notifications[:i], h.notifications[i+1:]...)
			return
		}
	}
}

// Clear dismisses every notification and cancels all pending timers.
func (h *Hub) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, t := range h.timers {
		t.Stop()
		delete(h.timers, id)
	}
	h.notifications = nil
}

// List returns the current notifications in insertion order.
func (h *Hub) List() []*domain.Notification {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]*domain.Notification, len(h.notifications))
	copy(out, h.notifications)
	return out
}
