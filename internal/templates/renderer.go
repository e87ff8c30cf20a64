// Package templates renders phishing emails and recipient-facing pages
// with the Liquid template language. Templates are embedded in the binary
// and parsed once at startup.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/osteele/liquid"

	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/service/sending"
)

//go:embed email/*.liquid pages/*.liquid
var files embed.FS

// Renderer holds the parsed templates. Safe for concurrent use.
type Renderer struct {
	engine *liquid.Engine
	cache  sync.Map // map[string]*liquid.Template
}

// New parses every embedded template and fails if any email template for
// the catalog is missing.
func New() (*Renderer, error) {
	r := &Renderer{engine: liquid.NewEngine()}
	r.registerFilters()

	err := fs.WalkDir(files, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".liquid") {
			return err
		}
		src, err := fs.ReadFile(files, path)
		if err != nil {
			return err
		}
		tpl, perr := r.engine.ParseTemplate(src)
		if perr != nil {
			return fmt.Errorf("parse %s: %w", path, perr)
		}
		r.cache.Store(strings.TrimSuffix(path, ".liquid"), tpl)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, info := range domain.Templates() {
		if _, ok := r.cache.Load("email/" + string(info.Key)); !ok {
			return nil, fmt.Errorf("missing email template for %s", info.Key)
		}
	}
	return r, nil
}

func (r *Renderer) registerFilters() {
	// {{ name | default_to: "colleague" }}
	r.engine.RegisterFilter("default_to", func(value any, fallback string) any {
		if s, ok := value.(string); ok && s == "" {
			return fallback
		}
		if value == nil {
			return fallback
		}
		return value
	})
}

func (r *Renderer) render(name string, bindings map[string]any) (string, error) {
	cached, ok := r.cache.Load(name)
	if !ok {
		return "", fmt.Errorf("unknown template %q", name)
	}
	out, err := cached.(*liquid.Template).RenderString(bindings)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return out, nil
}

// RenderEmail renders the body of a phishing email.
func (r *Renderer) RenderEmail(key domain.TemplateKey, d sending.EmailData) (string, error) {
	return r.render("email/"+string(key), map[string]any{
		"recipient_name":  d.RecipientName,
		"recipient_email": d.RecipientEmail,
		"campaign_id":     d.CampaignID,
		"campaign_name":   d.CampaignName,
		"subject":         d.Subject,
		"click_url":       d.ClickURL,
		"report_url":      d.ReportURL,
		"sender_ip":       d.SenderIP,
		"country":         d.Country,
		"platform":        d.Platform,
		"browser":         d.Browser,
		"date":            d.Date,
	})
}

// PreviewEmail renders a template with sample data and inert links.
func (r *Renderer) PreviewEmail(key domain.TemplateKey) (string, error) {
	if !key.Valid() {
		return "", &domain.ValidationError{Field: "template", Message: fmt.Sprintf("unknown template %q", key)}
	}
	return r.RenderEmail(key, sending.EmailData{
		RecipientName:  "Jordan Example",
		RecipientEmail: "jordan@example.com",
		CampaignName:   "Preview",
		Subject:        key.Info().Subject,
		ClickURL:       "#",
		ReportURL:      "#",
		SenderIP:       "185.220.101.34",
		Country:        "Russia",
		Platform:       "Windows 10",
		Browser:        "Chrome",
		Date:           "Mon, 02 Jan 2006 15:04:05 +0000",
	})
}

func (r *Renderer) page(name, title string, bindings map[string]any) (string, error) {
	content, err := r.render("pages/"+name, bindings)
	if err != nil {
		return "", err
	}
	return r.render("pages/layout", map[string]any{"title": title, "content": content})
}

// FeedbackData describes the education page shown after a click.
type FeedbackData struct {
	Page          string
	CampaignID    int64
	RecipientID   int64
	RecipientName string
	Reported      bool
}

// RenderFeedback renders the education page for a feedback page key.
// Unknown keys get the generic lessons.
func (r *Renderer) RenderFeedback(d FeedbackData) (string, error) {
	lesson, ok := lessons[d.Page]
	if !ok {
		lesson = lessons[domain.GenericFeedbackPage]
	}
	b := map[string]any{
		"headline":       lesson.Headline,
		"tips":           lesson.Tips,
		"reported":       d.Reported,
		"recipient_name": d.RecipientName,
		"cid":            "",
		"rid":            "",
	}
	if d.CampaignID > 0 && d.RecipientID > 0 {
		b["cid"] = fmt.Sprint(d.CampaignID)
		b["rid"] = fmt.Sprint(d.RecipientID)
	}
	return r.page("feedback", "Phishing Safety", b)
}

// RenderReportAck renders the page returned by a report link. It alerts
// the recipient and closes the window.
func (r *Renderer) RenderReportAck(recipientName string) (string, error) {
	return r.page("report_ack", "Reported", map[string]any{"recipient_name": recipientName})
}

// LandingData describes the page confirming a recorded click.
type LandingData struct {
	RecipientName string
	CampaignName  string
	Timestamp     string
	IP            string
	FeedbackURL   string
}

// RenderLanding renders the click confirmation page.
func (r *Renderer) RenderLanding(d LandingData) (string, error) {
	return r.page("landing", "Click Recorded", map[string]any{
		"recipient_name": d.RecipientName,
		"campaign_name":  d.CampaignName,
		"ts":             d.Timestamp,
		"ip":             d.IP,
		"feedback_url":   d.FeedbackURL,
	})
}

// RenderThankYou renders the page thanking a recipient for reporting.
func (r *Renderer) RenderThankYou(recipientName, campaignName string) (string, error) {
	return r.page("thankyou", "Reported", map[string]any{
		"recipient_name": recipientName,
		"campaign_name":  campaignName,
	})
}
