package internal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultHealthTimeout = 5 * time.Second

	statusUp   = "UP"
	statusDown = "DOWN"
)

// CheckFunc is the standard health check function signature.
// It matches the Healthcheck closures of the db, redis and job packages.
type CheckFunc func(ctx context.Context) error

type healthChecks map[string]CheckFunc

type healthReport struct {
	Checks map[string]checkResult `json:"checks,omitempty"`
	Status string                 `json:"status"`
}

type checkResult struct {
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

func livenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, r, http.StatusOK, &healthReport{Status: statusUp})
	}
}

// readinessHandler answers 503 as soon as one named check fails.
func readinessHandler(checks healthChecks, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := runChecks(r.Context(), checks, defaultHealthTimeout, log)

		status := http.StatusOK
		if report.Status == statusDown {
			status = http.StatusServiceUnavailable
		}
		writeHealth(w, r, status, report)
	}
}

// runChecks runs every check concurrently under a shared timeout.
// A failing check never cancels the others.
func runChecks(ctx context.Context, checks healthChecks, timeout time.Duration, log *slog.Logger) *healthReport {
	report := &healthReport{Status: statusUp}
	if len(checks) == 0 {
		return report
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	report.Checks = make(map[string]checkResult, len(checks))

	for name, check := range checks {
		g.Go(func() error {
			start := time.Now()
			err := check(ctx)
			res := checkResult{Status: statusUp, DurationMS: time.Since(start).Milliseconds()}
			if err != nil {
				res.Status = statusDown
				res.Error = err.Error()
				log.WarnContext(ctx, "health check failed", slog.String("check", name), slog.Any("error", err))
			}

			mu.Lock()
			defer mu.Unlock()
			report.Checks[name] = res
			if err != nil {
				report.Status = statusDown
			}
			return nil
		})
	}
	_ = g.Wait()

	return report
}

func writeHealth(w http.ResponseWriter, r *http.Request, status int, report *healthReport) {
	w.Header().Set("Cache-Control", "no-store")
	if r.URL.Query().Get("format") == "json" || strings.Contains(r.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(report)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(report.Status))
}
