package api

import (
	"net/http"
	"strconv"

	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/pkg/httputil"
	"github.com/Adeela565/ClickSafe/internal/service/directory"
)

const maxImportBytes = 10 << 20

// ListDepartments handles GET /api/departments.
func (h *Handlers) ListDepartments(w http.ResponseWriter, r *http.Request) {
	deps, err := h.directory.ListDepartments(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.OK(w, map[string]any{"departments": deps})
}

// CreateDepartment handles POST /api/departments.
func (h *Handlers) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var in directory.DepartmentInput
	if !httputil.Decode(w, r, &in) {
		return
	}
	d, err := h.directory.CreateDepartment(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.Created(w, d)
}

// GetDepartment handles GET /api/departments/{id}. The response includes
// the department's recipients.
func (h *Handlers) GetDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	d, err := h.directory.GetDepartment(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	recipients, err := h.directory.DepartmentRecipients(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.OK(w, map[string]any{"department": d, "recipients": recipients})
}

// RenameDepartment handles PUT /api/departments/{id}.
func (h *Handlers) RenameDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var in directory.DepartmentInput
	if !httputil.Decode(w, r, &in) {
		return
	}
	d, err := h.directory.RenameDepartment(r.Context(), id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.OK(w, d)
}

// DeleteDepartment handles DELETE /api/departments/{id}.
func (h *Handlers) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.directory.DeleteDepartment(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	httputil.NoContent(w)
}

// ListRecipients handles GET /api/recipients[?department_id=].
func (h *Handlers) ListRecipients(w http.ResponseWriter, r *http.Request) {
	dep, err := optionalID(r, "department_id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	rs, err := h.directory.ListRecipients(r.Context(), dep)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.OK(w, map[string]any{"recipients": rs})
}

// CreateRecipient handles POST /api/recipients.
func (h *Handlers) CreateRecipient(w http.ResponseWriter, r *http.Request) {
	var in directory.RecipientInput
	if !httputil.Decode(w, r, &in) {
		return
	}
	rec, err := h.directory.CreateRecipient(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.Created(w, rec)
}

// GetRecipient handles GET /api/recipients/{id}.
func (h *Handlers) GetRecipient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	rec, err := h.directory.GetRecipient(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.OK(w, rec)
}

// UpdateRecipient handles PUT /api/recipients/{id}.
func (h *Handlers) UpdateRecipient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var in directory.RecipientInput
	if !httputil.Decode(w, r, &in) {
		return
	}
	rec, err := h.directory.UpdateRecipient(r.Context(), id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.OK(w, rec)
}

// DeleteRecipient handles DELETE /api/recipients/{id}.
func (h *Handlers) DeleteRecipient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.directory.DeleteRecipient(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	httputil.NoContent(w)
}

// ImportRecipients handles POST /api/recipients/import: a multipart form
// with a "file" field (name,email CSV) and optional "department_id".
func (h *Handlers) ImportRecipients(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		respondError(w, r, &domain.ValidationError{Field: "file", Message: "expected a multipart form with a CSV file"})
		return
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, &domain.ValidationError{Field: "file", Message: "no file uploaded"})
		return
	}
	defer f.Close()

	var dep *int64
	if raw := r.FormValue("department_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondError(w, r, &domain.ValidationError{Field: "department_id", Message: "invalid department id"})
			return
		}
		dep = &id
	}

	res, err := h.directory.ImportCSV(r.Context(), f, dep)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.OK(w, res)
}

// RecipientHistory handles GET /api/recipients/{id}/history[?type=].
func (h *Handlers) RecipientHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var typ *domain.EventType
	if raw := r.URL.Query().Get("type"); raw != "" {
		t, err := domain.ParseEventType(raw)
		if err != nil {
			respondError(w, r, err)
			return
		}
		typ = &t
	}
	hist, err := h.reports.RecipientHistory(r.Context(), id, typ)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.OK(w, hist)
}
