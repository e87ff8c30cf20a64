package domain

// TransportType identifies the mail transport used for sending.
type TransportType string

const (
	TransportSMTP TransportType = "smtp"
	TransportSES  TransportType = "ses"
	TransportLog  TransportType = "log"
)

// DefaultTextBody is the plain-text part sent when a message has no text
// alternative of its own.
const DefaultTextBody = "This is an HTML email. Please open it in an HTML-capable mail client."

// EmailMessage is the fully-resolved message handed to a transport. By the
// time a message reaches this struct all template rendering is complete.
type EmailMessage struct {
	CampaignID  int64  `json:"campaign_id"`
	RecipientID int64  `json:"recipient_id"`
	To          string `json:"to"`
	Subject     string `json:"subject"`
	HTMLBody    string `json:"html_body"`
	TextBody    string `json:"text_body,omitempty"`
}

// Text returns the plain-text alternative, falling back to DefaultTextBody.
func (m *EmailMessage) Text() string {
	if m.TextBody != "" {
		return m.TextBody
	}
	return DefaultTextBody
}
