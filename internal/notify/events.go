package notify

import "time"

const (
	EventTypeOpsMessage = "notification.ops.message"
	EventTypeEmail      = "notification.email"

	eventSource = "arenabook"
)

// OpsMessageEvent is a plain-text alert for the operations channel.
type OpsMessageEvent struct {
	Text       string    `json:"text"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EmailEvent is an email pending delivery through the message gateway.
type EmailEvent struct {
	Recipient  string    `json:"recipient"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	OccurredAt time.Time `json:"occurred_at"`
}
