package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Adeela565/ClickSafe/internal/auth"
	"github.com/Adeela565/ClickSafe/internal/metrics"
	"github.com/Adeela565/ClickSafe/internal/pkg/logger"
	"github.com/Adeela565/ClickSafe/internal/tracking"
)

// RouterDeps are the collaborators mounted next to the admin handlers.
// Any of them may be nil except Health.
type RouterDeps struct {
	Auth        *auth.Manager
	Tracking    *tracking.Handler
	Metrics     *metrics.Registry
	Health      *HealthChecker
	CORSOrigins []string
}

// SetupRoutes builds the full router: public tracking and auth routes at
// the root, admin routes under /api behind RequireAuth.
func SetupRoutes(h *Handlers, d RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", d.Health.HandleHealth)
	r.Get("/health/live", d.Health.HandleLiveness)
	r.Get("/health/ready", d.Health.HandleReadiness)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}
	if d.Tracking != nil {
		d.Tracking.Register(r)
	}
	if d.Auth != nil {
		r.Post("/auth/login", d.Auth.HandleLogin)
		r.Post("/auth/logout", d.Auth.HandleLogout)
		r.Get("/auth/me", d.Auth.HandleMe)
	} else {
		logger.Warn("admin API mounted without authentication")
	}

	r.Route("/api", func(r chi.Router) {
		if d.Auth != nil {
			r.Use(d.Auth.RequireAuth)
		}

		r.Route("/departments", func(r chi.Router) {
			r.Get("/", h.ListDepartments)
			r.Post("/", h.CreateDepartment)
			r.Get("/{id}", h.GetDepartment)
			r.Put("/{id}", h.RenameDepartment)
			r.Delete("/{id}", h.DeleteDepartment)
		})

		r.Route("/recipients", func(r chi.Router) {
			r.Get("/", h.ListRecipients)
			r.Post("/", h.CreateRecipient)
			r.Post("/import", h.ImportRecipients)
			r.Get("/{id}", h.GetRecipient)
			r.Put("/{id}", h.UpdateRecipient)
			r.Delete("/{id}", h.DeleteRecipient)
			r.Get("/{id}/history", h.RecipientHistory)
		})

		r.Get("/templates", h.ListTemplates)
		r.Get("/templates/{key}/preview", h.PreviewTemplate)

		r.Get("/campaigns", h.ListCampaigns)
		r.Post("/campaigns/send", h.SendCampaign)
		r.Post("/campaigns/delete", h.DeleteCampaigns)

		r.Get("/results", h.Results)
		r.Get("/results/dashboard", h.Dashboard)
		r.Get("/results.csv", h.ExportCSV)
		r.Get("/results.xlsx", h.ExportXLSX)
		r.Post("/results/archive", h.ArchiveResults)
	})

	return r
}
