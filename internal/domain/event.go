package domain

import "context"

// Notification event types.
const (
	EventScoutCreated             = "scout.created"
	EventApplicationCreated       = "application.created"
	EventApplicationStatusChanged = "application.status_changed"
	EventMessageCreated           = "message.created"
)

// Event is delivered to the notification group of UserID.
type Event struct {
	Type    string `json:"type"`
	UserID  string `json:"-"`
	Payload any    `json:"payload"`
}

// EmailJob is a fire-and-forget message for the email sink.
type EmailJob struct {
	To       string
	Subject  string
	Template string
	Data     map[string]string
}

// Notifier accepts events and email jobs. Implementations never block the
// caller on delivery and never report delivery failures.
type Notifier interface {
	Publish(ctx context.Context, event Event)
	SendEmail(ctx context.Context, job EmailJob)
}
