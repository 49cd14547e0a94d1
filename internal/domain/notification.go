package domain

import "time"

// Notification level constants.
const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

// DefaultNotificationDuration is how long a non-persistent notification stays
// visible before it is dismissed automatically.
const DefaultNotificationDuration = 5 * time.Second

// Notification represents a transient message shown to the customer, such as
// "Added to cart" or a checkout failure.
type Notification struct {
	ID         string              `json:"id"`
	Type       string              `json:"type"`
	Title      string              `json:"title"`
	Message    string              `json:"message,omitempty"`
	Duration   time.Duration       `json:"duration"`
	Persistent bool                `json:"persistent"`
	Action     *NotificationAction `json:"action,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// NotificationAction is an optional call-to-action attached to a notification.
type NotificationAction struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// ValidNotificationTypes returns the set of valid notification levels.
func ValidNotificationTypes() []string {
	return []string{NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError}
}

// IsValidNotificationType checks whether the given level string is valid.
func IsValidNotificationType(t string) bool {
	for _, v := range ValidNotificationTypes() {
		if v == t {
			return true
		}
	}
	return false
}
