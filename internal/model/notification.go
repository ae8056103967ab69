package model

import "time"

// NotificationKind enumerates the finite set of notification shapes the
// app produces.  The kind determines which Payload fields are
// populated; there is deliberately no free-form data blob.
type NotificationKind string

const (
	NotificationEventReminder NotificationKind = "event_reminder"
	NotificationNewEvent      NotificationKind = "new_event"
	NotificationSocial        NotificationKind = "social"
	NotificationSecurityAlert NotificationKind = "security_alert"
	NotificationNewsletter    NotificationKind = "newsletter"
)

// ValidNotificationKind reports whether k is one of the declared kinds.
func ValidNotificationKind(k NotificationKind) bool {
	switch k {
	case NotificationEventReminder, NotificationNewEvent,
		NotificationSocial, NotificationSecurityAlert, NotificationNewsletter:
		return true
	}
	return false
}

// NotificationPayload carries the kind-specific references.  Exactly
// the fields relevant to the Kind are set:
//
//	event_reminder, new_event – EventID
//	social                    – PostID
//	security_alert            – AdvisoryURL
//	newsletter                – (none)
type NotificationPayload struct {
	EventID     *string `json:"event_id,omitempty"`
	PostID      *string `json:"post_id,omitempty"`
	AdvisoryURL *string `json:"advisory_url,omitempty"`
}

// Notification is a per-user notification row in `notifications`.
// Payload is stored as a JSON column.
type Notification struct {
	ID        string              `json:"id"`
	UserID    uint64              `json:"user_id"`
	Kind      NotificationKind    `json:"kind"`
	Title     string              `json:"title"`
	Message   string              `json:"message"`
	Payload   NotificationPayload `json:"payload"`
	IsRead    bool                `json:"is_read"`
	ActionURL *string             `json:"action_url,omitempty"`
	ExpiresAt *time.Time          `json:"expires_at,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}
