// Package health provides HTTP handlers for liveness and readiness probes.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// CheckFunc verifies one dependency is reachable.
type CheckFunc func(ctx context.Context) error

// Checks maps check names to their functions.
type Checks map[string]CheckFunc

// defaultTimeout bounds the whole readiness probe.
const defaultTimeout = 5 * time.Second

// Response is the JSON body returned by the readiness handler.
type Response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LivenessHandler returns a handler that always responds OK while the
// process is running.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadinessHandler returns a handler that runs all checks in parallel and
// reports 503 if any fail.
func ReadinessHandler(checks Checks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), defaultTimeout)
		defer cancel()

		results := make(map[string]string, len(checks))
		var mu sync.Mutex

		// Checks run in parallel but siblings are not canceled on first
		// failure; every dependency's real status ends up in the report.
		var g errgroup.Group
		for name, check := range checks {
			name, check := name, check
			g.Go(func() error {
				err := check(ctx)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					results[name] = err.Error()
				} else {
					results[name] = "ok"
				}
				return err
			})
		}

		status := http.StatusOK
		body := Response{Status: "healthy", Checks: results}
		if err := g.Wait(); err != nil {
			status = http.StatusServiceUnavailable
			body.Status = "unhealthy"
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
