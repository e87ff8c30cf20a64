// Package sending defines the contracts the campaign dispatcher depends on
// for delivering a phishing-simulation email.
//
// Transports (SMTP, SES, log-only) implement Sender. The template package
// implements EmailRenderer. Neither side imports the other.
package sending

import (
	"context"

	"github.com/Adeela565/ClickSafe/internal/domain"
)

// Sender delivers a single message. Implementations must be safe for
// concurrent use. A returned error means the message was not accepted.
type Sender interface {
	Send(ctx context.Context, msg *domain.EmailMessage) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, msg *domain.EmailMessage) error

// Send calls f(ctx, msg).
func (f SenderFunc) Send(ctx context.Context, msg *domain.EmailMessage) error { return f(ctx, msg) }

// EmailData is everything a phishing template may reference.
type EmailData struct {
	RecipientName  string
	RecipientEmail string
	CampaignID     int64
	CampaignName   string
	Subject        string
	ClickURL       string
	ReportURL      string

	// Decorative values shown in the email body only; never persisted.
	SenderIP string
	Country  string
	Platform string
	Browser  string
	Date     string
}

// EmailRenderer turns a template key and its data into an HTML body.
type EmailRenderer interface {
	RenderEmail(key domain.TemplateKey, data EmailData) (string, error)
}
