package mailer

import (
	"context"

	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/pkg/logger"
)

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	from From
}

// NewLogSender creates a log-only transport.
func NewLogSender(from From) *LogSender { return &LogSender{from: from} }

// Send logs the message envelope. It never fails.
func (s *LogSender) Send(_ context.Context, msg *domain.EmailMessage) error {
	logger.Info("email not sent (log transport)",
		"from", s.from.Addr,
		"to", msg.To,
		"subject", msg.Subject,
		"campaign_id", msg.CampaignID,
		"html_bytes", len(msg.HTMLBody))
	return nil
}
