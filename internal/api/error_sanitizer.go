package api

import (
	"errors"
	"net/http"

	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/pkg/httputil"
	"github.com/Adeela565/ClickSafe/internal/pkg/logger"
)

// respondError maps a service error onto an HTTP status. Client errors
// carry their message; everything else is logged and answered with a
// generic message so database or transport details never reach the caller.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *domain.ValidationError
		te *domain.TransportError
		be *domain.BulkOperationError
	)
	switch {
	case errors.As(err, &ve):
		httputil.ErrorWithCode(w, http.StatusBadRequest, "validation", ve.Message, map[string]string{"field": ve.Field})
	case errors.As(err, &te):
		logger.Error("mail transport failed", "path", r.URL.Path, "recipient", te.Recipient, "sent", te.Sent, "error", te.Err)
		httputil.ErrorWithCode(w, http.StatusBadGateway, "transport", "the mail transport rejected a message",
			map[string]int{"sent_count": te.Sent})
	case errors.As(err, &be):
		logger.Error("bulk operation failed", "path", r.URL.Path, "op", be.Op, "error", be.Err)
		httputil.ErrorWithCode(w, http.StatusInternalServerError, "bulk_operation",
			"bulk "+be.Op+" failed; no changes were made", nil)
	case errors.Is(err, domain.ErrNotFound):
		httputil.NotFound(w, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.Conflict(w, err.Error())
	default:
		httputil.InternalError(w, err)
	}
}
