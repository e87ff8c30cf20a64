package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Adeela565/ClickSafe/internal/pkg/httputil"
)

// HealthStatus represents the overall health of the system.
type HealthStatus struct {
	Status string                    `json:"status"` // "healthy", "degraded", "unhealthy"
	Uptime string                    `json:"uptime"`
	Checks map[string]ComponentCheck `json:"checks"`
}

// ComponentCheck represents the health of a single component.
type ComponentCheck struct {
	Status  string `json:"status"` // "up", "down", "degraded"
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

const notConfigured = "not configured"

// HealthChecker reports on the database and, when sessions live there,
// Redis. Either dependency may be nil.
type HealthChecker struct {
	db          *sql.DB
	redisClient *redis.Client
	startTime   time.Time
}

// NewHealthChecker creates a HealthChecker.
func NewHealthChecker(db *sql.DB, redisClient *redis.Client) *HealthChecker {
	return &HealthChecker{db: db, redisClient: redisClient, startTime: time.Now()}
}

// HandleHealth returns the status of every component. Always 200; the body
// carries the verdict.
//
//	GET /health
func (hc *HealthChecker) HandleHealth(w http.ResponseWriter, r *http.Request) {
	checks := hc.runAllChecks(r.Context())
	httputil.OK(w, HealthStatus{
		Status: determineOverallStatus(checks),
		Uptime: formatUptime(time.Since(hc.startTime)),
		Checks: checks,
	})
}

// HandleLiveness always returns 200 while the process is running.
//
//	GET /health/live
func (hc *HealthChecker) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]any{
		"status": "alive",
		"uptime": formatUptime(time.Since(hc.startTime)),
	})
}

// HandleReadiness returns 503 when the database is unreachable.
//
//	GET /health/ready
func (hc *HealthChecker) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks := hc.runAllChecks(r.Context())
	overall := determineOverallStatus(checks)

	ready := overall != "unhealthy"
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	httputil.JSON(w, status, map[string]any{
		"ready":  ready,
		"status": overall,
		"checks": checks,
	})
}

func (hc *HealthChecker) runAllChecks(ctx context.Context) map[string]ComponentCheck {
	type result struct {
		name  string
		check ComponentCheck
	}
	ch := make(chan result, 2)
	go func() { ch <- result{"database", hc.checkDatabase(ctx)} }()
	go func() { ch <- result{"redis", hc.checkRedis(ctx)} }()

	checks := make(map[string]ComponentCheck, 2)
	for i := 0; i < 2; i++ {
		r := <-ch
		checks[r.name] = r.check
	}
	return checks
}

func timedCheck(slow time.Duration, ping func() error) ComponentCheck {
	start := time.Now()
	err := ping()
	latency := time.Since(start)

	if err != nil {
		return ComponentCheck{Status: "down", Latency: latency.String(), Message: fmt.Sprintf("ping failed: %v", err)}
	}
	if latency > slow {
		return ComponentCheck{Status: "degraded", Latency: latency.String(), Message: fmt.Sprintf("slow response (%s)", latency)}
	}
	return ComponentCheck{Status: "up", Latency: latency.String(), Message: "connected"}
}

func (hc *HealthChecker) checkDatabase(ctx context.Context) ComponentCheck {
	if hc.db == nil {
		return ComponentCheck{Status: "down", Message: notConfigured}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return timedCheck(time.Second, func() error { return hc.db.PingContext(ctx) })
}

func (hc *HealthChecker) checkRedis(ctx context.Context) ComponentCheck {
	if hc.redisClient == nil {
		return ComponentCheck{Status: "down", Message: notConfigured}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return timedCheck(500*time.Millisecond, func() error { return hc.redisClient.Ping(ctx).Err() })
}

// determineOverallStatus: a configured database that is down makes the
// service unhealthy; any other failure degrades it.
func determineOverallStatus(checks map[string]ComponentCheck) string {
	if db, ok := checks["database"]; ok && db.Status == "down" && db.Message != notConfigured {
		return "unhealthy"
	}
	for _, c := range checks {
		if c.Status == "degraded" {
			return "degraded"
		}
		if c.Status == "down" && c.Message != notConfigured {
			return "degraded"
		}
	}
	return "healthy"
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
