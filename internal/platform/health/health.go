// Package health serves liveness and readiness probes.
package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"povertymap/pkg/platform/httputil"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// CheckResult represents the result of a health check
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Response represents a health check response
type Response struct {
	Status     Status                 `json:"status"`
	Version    string                 `json:"version,omitempty"`
	Uptime     string                 `json:"uptime,omitempty"`
	Checks     map[string]CheckResult `json:"checks,omitempty"`
	ReportedAt time.Time              `json:"reported_at"`
}

// CheckFunc probes one dependency.
type CheckFunc func(ctx context.Context) CheckResult

// Checker aggregates named checks.
type Checker struct {
	startTime time.Time
	version   string

	mu     sync.RWMutex
	ready  bool
	checks map[string]CheckFunc
}

// NewChecker creates a checker that reports version in every response.
func NewChecker(version string) *Checker {
	return &Checker{
		startTime: time.Now(),
		version:   version,
		checks:    make(map[string]CheckFunc),
	}
}

// Register adds a named check to readiness and the detailed health report.
func (c *Checker) Register(name string, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = fn
}

// SetReady marks the service as ready to receive traffic
func (c *Checker) SetReady(ready bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ready = ready
}

func (c *Checker) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// RegisterRoutes mounts /health, /health/live and /health/ready.
func (c *Checker) RegisterRoutes(r chi.Router) {
	r.Get("/health", c.HandleHealth)
	r.Get("/health/live", c.HandleLive)
	r.Get("/health/ready", c.HandleReady)
}

// HandleLive answers as long as the process serves HTTP.
func (c *Checker) HandleLive(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, Response{
		Status:     StatusHealthy,
		Version:    c.version,
		Uptime:     time.Since(c.startTime).Round(time.Second).String(),
		ReportedAt: time.Now(),
	})
}

// HandleReady reports unhealthy until SetReady(true), then runs the checks.
// A degraded service stays ready: views answer with data-unavailable payloads.
func (c *Checker) HandleReady(w http.ResponseWriter, r *http.Request) {
	if !c.IsReady() {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, Response{
			Status:     StatusUnhealthy,
			Version:    c.version,
			ReportedAt: time.Now(),
			Checks: map[string]CheckResult{
				"startup": {Status: StatusUnhealthy, Message: "service is still starting up"},
			},
		})
		return
	}
	c.HandleHealth(w, r)
}

// HandleHealth runs every check and reports the worst status.
func (c *Checker) HandleHealth(w http.ResponseWriter, r *http.Request) {
	checks := c.Run(r.Context())
	overall := Overall(checks)

	status := http.StatusOK
	if overall == StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, Response{
		Status:     overall,
		Version:    c.version,
		Uptime:     time.Since(c.startTime).Round(time.Second).String(),
		Checks:     checks,
		ReportedAt: time.Now(),
	})
}

// Run executes every registered check.
func (c *Checker) Run(ctx context.Context) map[string]CheckResult {
	c.mu.RLock()
	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	c.mu.RUnlock()
	sort.Strings(names)

	out := make(map[string]CheckResult, len(names))
	for _, name := range names {
		c.mu.RLock()
		fn := c.checks[name]
		c.mu.RUnlock()

		start := time.Now()
		res := fn(ctx)
		if res.Latency == "" {
			res.Latency = time.Since(start).String()
		}
		out[name] = res
	}
	return out
}

// Overall is unhealthy if any check is, else degraded if any check is.
func Overall(checks map[string]CheckResult) Status {
	overall := StatusHealthy
	for _, res := range checks {
		switch res.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			overall = StatusDegraded
		}
	}
	return overall
}

// PingCheck turns an error-returning probe into a check. Failures count as
// degraded when the dependency is optional.
func PingCheck(ping func(ctx context.Context) error, optional bool) CheckFunc {
	return func(ctx context.Context) CheckResult {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := ping(ctx); err != nil {
			status := StatusUnhealthy
			if optional {
				status = StatusDegraded
			}
			return CheckResult{Status: status, Message: err.Error()}
		}
		return CheckResult{Status: StatusHealthy}
	}
}
