package mailer

import (
	"context"
	"fmt"

	"github.com/Adeela565/ClickSafe/internal/config"
	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/service/sending"
)

// New builds the transport selected by cfg.Mail.Transport.
func New(ctx context.Context, cfg *config.Config) (sending.Sender, error) {
	from := From{Name: cfg.Mail.FromName, Addr: cfg.Mail.FromAddr}

	switch domain.TransportType(cfg.Mail.Transport) {
	case domain.TransportSMTP:
		return NewSMTPSender(SMTPOptions{
			Host:        cfg.SMTP.Host,
			Port:        cfg.SMTP.Port,
			Username:    cfg.SMTP.Username,
			Password:    cfg.SMTP.Password,
			UseTLS:      cfg.SMTP.UseTLS,
			DialTimeout: cfg.SMTP.DialTimeout(),
		}, from), nil
	case domain.TransportSES:
		client, err := NewSESClient(ctx, cfg.SES.Region, cfg.SES.AccessKey, cfg.SES.SecretKey)
		if err != nil {
			return nil, err
		}
		return NewSESSender(client, from), nil
	case domain.TransportLog, "":
		return NewLogSender(from), nil
	}
	return nil, fmt.Errorf("unknown mail transport %q", cfg.Mail.Transport)
}
