package tracking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/pkg/httputil"
	"github.com/Adeela565/ClickSafe/internal/pkg/logger"
	"github.com/Adeela565/ClickSafe/internal/templates"
)

const timestampLayout = "2006-01-02 15:04:05"

// Pages renders the recipient-facing HTML. Implemented by templates.Renderer.
type Pages interface {
	RenderFeedback(d templates.FeedbackData) (string, error)
	RenderReportAck(recipientName string) (string, error)
	RenderLanding(d templates.LandingData) (string, error)
	RenderThankYou(recipientName, campaignName string) (string, error)
}

// Handler exposes the tracking service over HTTP.
type Handler struct {
	svc   *Service
	pages Pages
}

// NewHandler creates a tracking handler.
func NewHandler(svc *Service, pages Pages) *Handler {
	return &Handler{svc: svc, pages: pages}
}

// Register mounts the public tracking routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/l/{cid}/{rid}", h.HandleClick)
	r.Get("/r/{cid}/{rid}", h.HandleReport)
	r.Get("/feedback", h.HandleFeedback)
	r.Get("/feedback/{page}", h.HandleFeedback)
	r.Post("/feedback/report", h.HandleFeedbackReport)
	r.Get("/landing/{cid}/{rid}", h.HandleLanding)
	r.Get("/thankyou/{cid}/{rid}", h.HandleThankYou)
}

// Routes returns a standalone router with the tracking routes and /health.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	h.Register(r)
	r.Get("/health", h.HandleHealth)
	return r
}

func pairParams(r *http.Request) (int64, int64, bool) {
	cid, err1 := strconv.ParseInt(chi.URLParam(r, "cid"), 10, 64)
	rid, err2 := strconv.ParseInt(chi.URLParam(r, "rid"), 10, 64)
	return cid, rid, err1 == nil && err2 == nil
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	logger.Error("tracking request failed", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (h *Handler) page(w http.ResponseWriter, body string, err error) {
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	httputil.HTML(w, http.StatusOK, body)
}

// HandleClick records a click and redirects to the education page.
func (h *Handler) HandleClick(w http.ResponseWriter, r *http.Request) {
	cid, rid, ok := pairParams(r)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	target, err := h.svc.HandleClick(r.Context(), cid, rid, ClientIP(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// HandleReport records a report and returns the acknowledgement page.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	cid, rid, ok := pairParams(r)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	t, err := h.svc.HandleReport(r.Context(), cid, rid, ClientIP(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	body, err := h.pages.RenderReportAck(t.Recipient.DisplayName())
	h.page(w, body, err)
}

func (h *Handler) feedback(w http.ResponseWriter, page string, t *Target, reported bool) {
	d := templates.FeedbackData{Page: page, Reported: reported}
	if t != nil {
		d.CampaignID = t.Campaign.ID
		d.RecipientID = t.Recipient.ID
		d.RecipientName = t.Recipient.DisplayName()
		if page == "" {
			d.Page = domain.FeedbackPageForSubject(t.Campaign.Subject)
		}
	}
	if d.Page == "" {
		d.Page = domain.GenericFeedbackPage
	}
	body, err := h.pages.RenderFeedback(d)
	h.page(w, body, err)
}

// HandleFeedback renders the education page. cid and rid are optional.
func (h *Handler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	t, err := h.svc.Lookup(r.Context(), q.Get("cid"), q.Get("rid"))
	if err != nil {
		h.fail(w, err)
		return
	}
	page := chi.URLParam(r, "page")
	if page == "" {
		page = domain.GenericFeedbackPage
	}
	h.feedback(w, page, t, false)
}

// HandleFeedbackReport records a report from the feedback form and
// re-renders the page with a success banner.
func (h *Handler) HandleFeedbackReport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	t, err := h.svc.ReportFromFeedback(r.Context(), r.PostForm.Get("cid"), r.PostForm.Get("rid"), ClientIP(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.feedback(w, "", t, true)
}

// HandleLanding shows when and from where the click was recorded.
func (h *Handler) HandleLanding(w http.ResponseWriter, r *http.Request) {
	cid, rid, ok := pairParams(r)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	l, err := h.svc.Landing(r.Context(), cid, rid, ClientIP(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	body, err := h.pages.RenderLanding(templates.LandingData{
		RecipientName: l.Recipient.DisplayName(),
		CampaignName:  l.Campaign.Name,
		Timestamp:     l.At.Format(timestampLayout),
		IP:            l.IP,
		FeedbackURL:   FeedbackURL(l.Campaign.Subject, cid, rid),
	})
	h.page(w, body, err)
}

// HandleThankYou thanks the recipient for reporting.
func (h *Handler) HandleThankYou(w http.ResponseWriter, r *http.Request) {
	cid, rid, ok := pairParams(r)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	t, err := h.svc.ThankYou(r.Context(), cid, rid)
	if err != nil {
		h.fail(w, err)
		return
	}
	body, err := h.pages.RenderThankYou(t.Recipient.DisplayName(), t.Campaign.Name)
	h.page(w, body, err)
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "ok"})
}
