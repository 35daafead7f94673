// Package httptransport assembles the HTTP surface: middleware chain, module
// handlers, and the operational endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "gatehouse/internal/auth/handler"
	employeehandler "gatehouse/internal/employee/handler"
	"gatehouse/internal/platform/middleware"
	visithandler "gatehouse/internal/visit/handler"
	"gatehouse/pkg/platform/httputil"
)

// Health reports readiness of the backing stores. Implementations return nil
// when the dependency is reachable.
type Health interface {
	Health(ctx context.Context) error
}

// Deps carries everything the router mounts.
type Deps struct {
	Logger    *slog.Logger
	Validator middleware.TokenValidator

	Auth      *authhandler.Handler
	Visits    *visithandler.Handler
	Employees *employeehandler.Handler

	// HealthChecks run on /healthz; a nil entry is skipped.
	HealthChecks []Health
}

// NewRouter builds the full middleware chain and mounts every handler.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.ResolveActor(deps.Validator, deps.Logger))

	deps.Auth.Register(r)
	deps.Visits.Register(r)
	deps.Employees.Register(r)

	r.Get("/healthz", handleHealth(deps.HealthChecks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func handleHealth(checks []Health) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Health(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
				})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
