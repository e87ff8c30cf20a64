package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/pkg/httputil"
	"github.com/Adeela565/ClickSafe/internal/service/campaign"
)

// ListTemplates handles GET /api/templates.
func (h *Handlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]any{"templates": domain.Templates()})
}

// PreviewTemplate handles GET /api/templates/{key}/preview.
func (h *Handlers) PreviewTemplate(w http.ResponseWriter, r *http.Request) {
	key, err := domain.ParseTemplateKey(chi.URLParam(r, "key"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	body, err := h.previews.PreviewEmail(key)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.HTML(w, http.StatusOK, body)
}

type sendRequest struct {
	Template      string  `json:"template"`
	UseAll        bool    `json:"use_all"`
	DepartmentIDs []int64 `json:"department_ids"`
}

// SendCampaign handles POST /api/campaigns/send.
func (h *Handlers) SendCampaign(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	res, err := h.campaigns.Launch(r.Context(), campaign.LaunchRequest{
		TemplateKey: req.Template,
		Selector:    domain.RecipientSelector{UseAll: req.UseAll, DepartmentIDs: req.DepartmentIDs},
		BaseURL:     h.baseURL,
	})

	var te *domain.TransportError
	switch {
	case errors.As(err, &te) && res != nil:
		httputil.ErrorWithCode(w, http.StatusBadGateway, "transport", "the mail transport rejected a message",
			map[string]any{"sent_count": te.Sent, "campaign_id": res.CampaignID, "recipients": res.Recipients})
	case err != nil:
		respondError(w, r, err)
	default:
		resp := map[string]any{"campaign": res}
		if res.Recipients == 0 {
			resp["warning"] = "no recipients matched the selection"
		}
		httputil.OK(w, resp)
	}
}

// ListCampaigns handles GET /api/campaigns.
func (h *Handlers) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	cs, err := h.campaigns.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.OK(w, map[string]any{"campaigns": cs})
}

type deleteRequest struct {
	// CampaignIDs holds ids as numbers or strings; "ALL" selects everything.
	CampaignIDs []any `json:"campaign_ids"`
}

// DeleteCampaigns handles POST /api/campaigns/delete.
func (h *Handlers) DeleteCampaigns(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	raw := make([]string, 0, len(req.CampaignIDs))
	for _, v := range req.CampaignIDs {
		raw = append(raw, fmt.Sprint(v))
	}
	ids, all, err := campaign.ParseSelection(raw)
	if err != nil {
		respondError(w, r, err)
		return
	}
	n, err := h.campaigns.DeleteCampaigns(r.Context(), ids, all)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.OK(w, map[string]int64{"deleted": n})
}
