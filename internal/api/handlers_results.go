package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/pkg/httputil"
	"github.com/Adeela565/ClickSafe/internal/service/reporting"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Results handles GET /api/results[?campaign_id=&interactions_only=].
func (h *Handlers) Results(w http.ResponseWriter, r *http.Request) {
	cid, err := optionalID(r, "campaign_id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	sum, err := h.reports.Summarize(r.Context(), cid)
	if err != nil {
		respondError(w, r, err)
		return
	}
	events, err := h.reports.ListEvents(r.Context(), domain.EventFilter{
		CampaignID:       cid,
		InteractionsOnly: queryBool(r, "interactions_only"),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.OK(w, map[string]any{
		"summary":     sum,
		"click_rate":  sum.ClickRate(),
		"report_rate": sum.ReportRate(),
		"events":      events,
	})
}

// Dashboard handles GET /api/results/dashboard[?campaign_id=].
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	cid, err := optionalID(r, "campaign_id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	d, err := h.reports.Dashboard(r.Context(), cid)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.OK(w, d)
}

func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// ExportCSV handles GET /api/results.csv[?campaign_id=]. The file is
// rendered in memory first so a failure still yields a JSON error.
func (h *Handlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	cid, err := optionalID(r, "campaign_id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if _, err := h.reports.WriteCSV(r.Context(), &buf, cid); err != nil {
		respondError(w, r, err)
		return
	}
	attachment(w, "text/csv; charset=utf-8", reporting.CSVFilename)
	_, _ = buf.WriteTo(w)
}

// ExportXLSX handles GET /api/results.xlsx[?campaign_id=].
func (h *Handlers) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	cid, err := optionalID(r, "campaign_id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if _, err := h.reports.WriteXLSX(r.Context(), &buf, cid); err != nil {
		respondError(w, r, err)
		return
	}
	attachment(w, xlsxContentType, reporting.XLSXFilename)
	_, _ = buf.WriteTo(w)
}

var errArchiveDisabled = errors.New("export archiving is not configured")

// ArchiveResults handles POST /api/results/archive[?campaign_id=].
func (h *Handlers) ArchiveResults(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		httputil.Error(w, http.StatusServiceUnavailable, errArchiveDisabled.Error())
		return
	}
	cid, err := optionalID(r, "campaign_id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	loc, err := h.reports.ArchiveCSV(r.Context(), h.archive, h.archivePrefix, cid, h.now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.Created(w, map[string]string{"location": loc})
}
