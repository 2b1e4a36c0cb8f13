package email

import (
	"context"
	"time"
)

// SendRequest is one outbound mail handed to a provider.
type SendRequest struct {
	To      []string
	From    string // e.g. "ID Card Admin <noreply@diocese.org>"
	Subject string
	HTML    string
	ReplyTo string // optional
}

// SendResult reports what the provider accepted.
type SendResult struct {
	MessageID string    // provider's ID for tracking
	SentAt    time.Time // when the send was accepted
}

// Sender delivers mail through an external provider. The server runs with
// a NoopSender when no provider key is configured.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
