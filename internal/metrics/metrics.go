// Package metrics exposes ClickSafe's Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Adeela565/ClickSafe/internal/domain"
)

const namespace = "clicksafe"

// Registry owns the application collectors. It satisfies the observer
// interfaces of the event recorder and the campaign dispatcher.
type Registry struct {
	reg *prometheus.Registry

	emailsSent     prometheus.Counter
	emailFailures  prometheus.Counter
	eventsRecorded *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewRegistry creates a registry. withRuntime adds Go runtime and process
// collectors.
func NewRegistry(withRuntime bool) *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		emailsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_sent_total",
			Help:      "Simulation emails accepted by the mail transport.",
		}),
		emailFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "email_send_failures_total",
			Help:      "Simulation emails rejected by the mail transport.",
		}),
		eventsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_recorded_total",
			Help:      "Event record attempts by type and whether a row was written.",
		}, []string{"type", "created"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	r.reg.MustRegister(r.emailsSent, r.emailFailures, r.eventsRecorded, r.httpRequests, r.httpDuration)
	if withRuntime {
		r.reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return r
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// EmailSent counts a message accepted by the transport.
func (r *Registry) EmailSent() { r.emailsSent.Inc() }

// EmailSendFailed counts a transport rejection.
func (r *Registry) EmailSendFailed() { r.emailFailures.Inc() }

// EventRecorded counts a Record call that reached the database.
func (r *Registry) EventRecorded(t domain.EventType, created bool) {
	r.eventsRecorded.WithLabelValues(string(t), strconv.FormatBool(created)).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and latency per chi route pattern, so
// /l/1/2 and /l/3/4 share the series /l/{cid}/{rid}.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)

		route := "unmatched"
		if rc := chi.RouteContext(req.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		r.httpRequests.WithLabelValues(req.Method, route, strconv.Itoa(rec.status)).Inc()
		r.httpDuration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
	})
}
