package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	blogservice "github.com/athena-eo/observatory/internal/domain/blog/service"
)

// CheckResult is the outcome of one startup check
type CheckResult struct {
	Name     string        `json:"name"`
	OK       bool          `json:"ok"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Readiness holds the latest startup check results
type Readiness struct {
	mu      sync.RWMutex
	done    bool
	results []CheckResult
}

func (r *Readiness) set(results []CheckResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done = true
	r.results = results
}

// Snapshot returns whether checks have run and their results
func (r *Readiness) Snapshot() (bool, []CheckResult) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.done, append([]CheckResult(nil), r.results...)
}

type check struct {
	name string
	run  func(ctx context.Context) error
}

func (a *App) checks() []check {
	first := check{name: "backend", run: a.client.Health}
	if a.pool != nil {
		first = check{name: "postgres", run: a.pool.Ping}
	}

	return []check{
		first,
		{name: "blog", run: func(ctx context.Context) error {
			_, err := a.blogService.List(ctx, blogservice.ListFilter{Limit: 1})
			return err
		}},
	}
}

// Check runs the startup checks concurrently, each bounded by the
// backend health timeout, and records the results for /readyz.
func (a *App) Check(ctx context.Context) error {
	checks := a.checks()
	results := make([]CheckResult, len(checks))

	var g errgroup.Group
	for i, c := range checks {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, a.cfg.Backend.HealthTimeout)
			defer cancel()

			start := time.Now()
			err := c.run(cctx)
			results[i] = CheckResult{Name: c.name, OK: err == nil, Duration: time.Since(start)}
			if err != nil {
				results[i].Error = err.Error()
				return fmt.Errorf("%s: %w", c.name, err)
			}
			return nil
		})
	}
	err := g.Wait()

	a.readiness.set(results)
	for _, r := range results {
		if r.OK {
			a.logger.InfoContext(ctx, "startup check passed", "check", r.Name, "duration", r.Duration)
		} else {
			a.logger.WarnContext(ctx, "startup check failed", "check", r.Name, "error", r.Error)
		}
	}
	return err
}

// readyHandler reports the startup check results. The site serves
// fallback content either way, so failing checks only change the status.
func (a *App) readyHandler(w http.ResponseWriter, r *http.Request) {
	done, results := a.readiness.Snapshot()

	status, code := "ready", http.StatusOK
	switch {
	case !done:
		status, code = "starting", http.StatusServiceUnavailable
	case !allOK(results):
		status, code = "degraded", http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(struct {
		Status string        `json:"status"`
		Checks []CheckResult `json:"checks"`
	}{Status: status, Checks: results})
}

func allOK(results []CheckResult) bool {
	for _, r := range results {
		if !r.OK {
			return false
		}
	}
	return true
}
