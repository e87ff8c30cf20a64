package mailer

import (
	"bufio"
	"context"
	"encoding/base64"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adeela565/ClickSafe/internal/domain"
)

// fakeSMTP is a single-connection SMTP server that records one transaction.
type fakeSMTP struct {
	ln         net.Listener
	mu         sync.Mutex
	auth       string
	mailFrom   string
	rcpt       string
	data       string
	rejectRcpt bool
	done       chan struct{}
}

func startFakeSMTP(t *testing.T) *fakeSMTP {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	f := &fakeSMTP{ln: ln, done: make(chan struct{})}
	t.Cleanup(func() { ln.Close() })
	go f.serve()
	return f
}

func (f *fakeSMTP) port() int { return f.ln.Addr().(*net.TCPAddr).Port }

func (f *fakeSMTP) serve() {
	defer close(f.done)
	conn, err := f.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	r := bufio.NewReader(conn)
	reply := func(s string) { _, _ = conn.Write([]byte(s + "\r\n")) }
	reply("220 fake ESMTP")

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		cmd := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(cmd, "EHLO"):
			reply("250-fake")
			reply("250 AUTH PLAIN")
		case strings.HasPrefix(cmd, "AUTH PLAIN"):
			f.mu.Lock()
			f.auth = strings.TrimSpace(line[len("AUTH PLAIN"):])
			f.mu.Unlock()
			reply("235 ok")
		case strings.HasPrefix(cmd, "MAIL FROM:"):
			f.mu.Lock()
			f.mailFrom = line[len("MAIL FROM:"):]
			f.mu.Unlock()
			reply("250 ok")
		case strings.HasPrefix(cmd, "RCPT TO:"):
			f.mu.Lock()
			f.rcpt = line[len("RCPT TO:"):]
			reject := f.rejectRcpt
			f.mu.Unlock()
			if reject {
				reply("550 no such user")
			} else {
				reply("250 ok")
			}
		case cmd == "DATA":
			reply("354 go ahead")
			var sb strings.Builder
			for {
				l, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if l == ".\r\n" {
					break
				}
				sb.WriteString(l)
			}
			f.mu.Lock()
			f.data = sb.String()
			f.mu.Unlock()
			reply("250 queued")
		case cmd == "QUIT":
			reply("221 bye")
			return
		default:
			reply("250 ok")
		}
	}
}

func testMessage() *domain.EmailMessage {
	return &domain.EmailMessage{
		CampaignID:  12,
		RecipientID: 3,
		To:          "victim@corp.test",
		Subject:     "Your password expires today",
		HTMLBody:    `<p>Click <a href="http://x/l/12/3">here</a></p>`,
	}
}

func TestSMTPSender_Send(t *testing.T) {
	srv := startFakeSMTP(t)
	s := NewSMTPSender(SMTPOptions{
		Host:     "127.0.0.1",
		Port:     srv.port(),
		Username: "relay",
		Password: "secret",
	}, From{Name: "IT Support", Addr: "it@corp.test"})

	require.NoError(t, s.Send(context.Background(), testMessage()))
	<-srv.done

	srv.mu.Lock()
	defer srv.mu.Unlock()
	creds, err := base64.StdEncoding.DecodeString(srv.auth)
	require.NoError(t, err)
	assert.Equal(t, "\x00relay\x00secret", string(creds))
	assert.Contains(t, srv.mailFrom, "<it@corp.test>")
	assert.Contains(t, srv.rcpt, "<victim@corp.test>")
	assert.Contains(t, srv.data, "To: victim@corp.test\r\n")
	assert.Contains(t, srv.data, "X-Campaign-ID: 12\r\n")
	assert.Contains(t, srv.data, "multipart/alternative")
	assert.Contains(t, srv.data, "text/plain")
	assert.Contains(t, srv.data, "text/html")
}

func TestSMTPSender_RecipientRejected(t *testing.T) {
	srv := startFakeSMTP(t)
	srv.mu.Lock()
	srv.rejectRcpt = true
	srv.mu.Unlock()
	s := NewSMTPSender(SMTPOptions{Host: "127.0.0.1", Port: srv.port()}, From{Addr: "it@corp.test"})

	err := s.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RCPT TO")
}

func TestSMTPSender_RequireTLSWithoutSupport(t *testing.T) {
	srv := startFakeSMTP(t)
	s := NewSMTPSender(SMTPOptions{Host: "127.0.0.1", Port: srv.port(), UseTLS: true}, From{Addr: "it@corp.test"})

	err := s.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STARTTLS")
}

func TestSMTPSender_NoHost(t *testing.T) {
	s := NewSMTPSender(SMTPOptions{}, From{Addr: "it@corp.test"})
	assert.Error(t, s.Send(context.Background(), testMessage()))
}

func TestSMTPSender_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	s := NewSMTPSender(SMTPOptions{Host: "127.0.0.1", Port: port, DialTimeout: time.Second}, From{Addr: "it@corp.test"})
	err = s.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "127.0.0.1:"+strconv.Itoa(port))
}

func TestBuildMessage_DefaultText(t *testing.T) {
	raw, err := buildMessage(From{Name: "IT Support", Addr: "it@corp.test"}, testMessage(),
		time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	s := string(raw)
	assert.Contains(t, s, "From: IT Support <it@corp.test>\r\n")
	assert.Contains(t, s, "Date: Wed, 01 May 2024 09:00:00 +0000\r\n")
	assert.Contains(t, s, "Please open it in an HTML-capable mail client.")
	assert.Contains(t, s, "Message-ID: <")
}
