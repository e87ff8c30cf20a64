package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/pkg/logger"
)

const defaultDialTimeout = 20 * time.Second

// SMTPOptions configures an SMTPSender.
type SMTPOptions struct {
	Host        string
	Port        int
	Username    string
	Password    string
	UseTLS      bool // require STARTTLS
	DialTimeout time.Duration
	// TLSConfig overrides the STARTTLS configuration. Nil uses ServerName=Host.
	TLSConfig *tls.Config
}

// SMTPSender delivers mail through an SMTP relay, one connection per message.
type SMTPSender struct {
	opts SMTPOptions
	from From
	now  func() time.Time
}

// NewSMTPSender creates an SMTP sender.
func NewSMTPSender(opts SMTPOptions, from From) *SMTPSender {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if opts.Port == 0 {
		opts.Port = 587
	}
	return &SMTPSender{opts: opts, from: from, now: time.Now}
}

// Send delivers a single message.
func (s *SMTPSender) Send(ctx context.Context, msg *domain.EmailMessage) error {
	if s.opts.Host == "" {
		return errors.New("smtp host not configured")
	}
	raw, err := buildMessage(s.from, msg, s.now())
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}
	addr := net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port))
	if err := s.sendSMTP(ctx, addr, msg.To, raw); err != nil {
		return fmt.Errorf("smtp send to %s: %w", addr, err)
	}
	logger.Debug("smtp message sent", "campaign_id", msg.CampaignID, "recipient", msg.To)
	return nil
}

func (s *SMTPSender) sendSMTP(ctx context.Context, addr, to string, raw []byte) error {
	dialer := &net.Dialer{Timeout: s.opts.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.opts.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("client: %w", err)
	}
	defer c.Close()

	if s.opts.UseTLS {
		if ok, _ := c.Extension("STARTTLS"); !ok {
			return errors.New("server does not support STARTTLS")
		}
		cfg := s.opts.TLSConfig
		if cfg == nil {
			cfg = &tls.Config{ServerName: s.opts.Host}
		}
		if err := c.StartTLS(cfg); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if s.opts.Username != "" {
		if err := c.Auth(&plainAuth{user: s.opts.Username, pass: s.opts.Password}); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := c.Mail(s.from.Addr); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("RCPT TO: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("DATA close: %w", err)
	}
	return c.Quit()
}

// plainAuth implements AUTH PLAIN without the stdlib's TLS-or-localhost
// restriction. Relays on private networks often accept it in the clear.
type plainAuth struct {
	user, pass string
}

func (a *plainAuth) Start(_ *smtp.ServerInfo) (string, []byte, error) {
	return "PLAIN", []byte("\x00" + a.user + "\x00" + a.pass), nil
}

func (a *plainAuth) Next(_ []byte, more bool) ([]byte, error) {
	if more {
		return nil, errors.New("unexpected server challenge")
	}
	return nil, nil
}
