package mailer

import (
	"bytes"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"time"

	"github.com/google/uuid"

	"github.com/Adeela565/ClickSafe/internal/domain"
)

// From is the envelope and header sender for every outbound message.
type From struct {
	Name string
	Addr string
}

func (f From) header() string {
	if f.Name == "" {
		return f.Addr
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", f.Name), f.Addr)
}

// buildMessage renders msg as a multipart/alternative RFC 5322 message with
// a plain-text part followed by the HTML part.
func buildMessage(from From, msg *domain.EmailMessage, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	boundary := fmt.Sprintf("=_%s", uuid.New().String()[:16])

	fmt.Fprintf(&buf, "From: %s\r\n", from.header())
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", now.Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "Message-ID: <%s@clicksafe>\r\n", uuid.New().String())
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "X-Campaign-ID: %d\r\n", msg.CampaignID)
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary)

	parts := []struct{ contentType, body string }{
		{"text/plain", msg.Text()},
		{"text/html", msg.HTMLBody},
	}
	for _, p := range parts {
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		fmt.Fprintf(&buf, "Content-Type: %s; charset=UTF-8\r\n", p.contentType)
		buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")
		qp := quotedprintable.NewWriter(&buf)
		if _, err := qp.Write([]byte(p.body)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
		buf.WriteString("\r\n")
	}
	fmt.Fprintf(&buf, "--%s--\r\n", boundary)
	return buf.Bytes(), nil
}
