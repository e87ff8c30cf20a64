package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adeela565/ClickSafe/internal/config"
)

func TestNew_SelectsTransport(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	cfg.Mail.Transport = "log"
	s, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, s)
	assert.NoError(t, s.Send(context.Background(), testMessage()))

	cfg.Mail.Transport = "smtp"
	cfg.SMTP.Host = "mail.corp.test"
	s, err = New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, s)

	cfg.Mail.Transport = "carrier-pigeon"
	_, err = New(context.Background(), cfg)
	assert.Error(t, err)
}
