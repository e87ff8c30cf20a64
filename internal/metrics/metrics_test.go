package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adeela565/ClickSafe/internal/domain"
)

func scrape(t *testing.T, r *Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestObservers(t *testing.T) {
	r := NewRegistry(false)
	r.EmailSent()
	r.EmailSent()
	r.EmailSendFailed()
	r.EventRecorded(domain.EventClicked, true)
	r.EventRecorded(domain.EventClicked, false)
	r.EventRecorded(domain.EventClicked, false)

	out := scrape(t, r)
	assert.Contains(t, out, "clicksafe_emails_sent_total 2")
	assert.Contains(t, out, "clicksafe_email_send_failures_total 1")
	assert.Contains(t, out, `clicksafe_events_recorded_total{created="true",type="clicked"} 1`)
	assert.Contains(t, out, `clicksafe_events_recorded_total{created="false",type="clicked"} 2`)
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := NewRegistry(false)
	router := chi.NewRouter()
	router.Use(r.Middleware)
	router.Get("/l/{cid}/{rid}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusFound)
	})

	for _, path := range []string{"/l/1/2", "/l/3/4", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	out := scrape(t, r)
	assert.Contains(t, out, `clicksafe_http_requests_total{method="GET",route="/l/{cid}/{rid}",status="302"} 2`)
	assert.Contains(t, out, `clicksafe_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.Contains(t, out, `clicksafe_http_request_duration_seconds_count{method="GET",route="/l/{cid}/{rid}"} 2`)
}
