/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Maps roster, catalog and scenario URLs onto Handler methods (chi) and
  installs the middleware chain in front of them.

MIDDLEWARE STACK:
  1. Logger:     chi access log, one line per request
  2. Recoverer:  a panicking handler answers 500
  3. RequestID:  X-Request-Id, also attached to handler error logs
  4. CORS:       browser access from the configured origins

ROUTE GROUPS:
  /api/roster/*     Generated roster, validation, export
  /api/patterns/*   Pattern catalog
  /api/employees/*  Employee list and exceptions
  /api/scenarios/*  Demo scenarios
  /                 Endpoint index

SECURITY NOTE:
  There is no authentication. Anyone who can reach the port can edit the
  catalog and reset the database.

SEE ALSO:
  - handlers.go: roster and catalog handlers
  - scenarios.go: preset loading
  - cmd/roster/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DefaultOrigins are the CORS origins allowed when NewRouter gets none.
var DefaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter builds the chi router for h. Browser requests are accepted from
// origins, or from DefaultOrigins when the list is empty.
func NewRouter(h *Handler, origins ...string) *chi.Mux {
	if len(origins) == 0 {
		origins = DefaultOrigins
	}
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Roster routes
		r.Route("/roster", func(r chi.Router) {
			r.Get("/", h.GetRoster)
			r.Get("/groups", h.ListGroups)
			r.Get("/validation", h.GetValidation)
			r.Get("/export", h.ExportRoster)
		})

		// Pattern routes
		r.Route("/patterns", func(r chi.Router) {
			r.Get("/", h.ListPatterns)
			r.Post("/", h.CreatePattern)
			r.Get("/{name}", h.GetPattern)
		})

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{name}", h.GetEmployee)
			r.Delete("/{name}", h.DeleteEmployee)
			r.Put("/{name}/exceptions/{day}", h.SetException)
			r.Delete("/{name}/exceptions/{day}", h.ClearException)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Shift Roster</title></head>
<body style="font-family: sans-serif; max-width: 760px; margin: 40px auto;">
<h1>Shift Roster API</h1>
<ul>
<li><a href="/api/roster">/api/roster</a> - Generated roster</li>
<li><a href="/api/roster/validation">/api/roster/validation</a> - Flagged cells</li>
<li><a href="/api/roster/export?format=xlsx">/api/roster/export?format=xlsx</a> - Download Excel</li>
<li><a href="/api/patterns">/api/patterns</a> - Shift patterns</li>
<li><a href="/api/employees">/api/employees</a> - Employees</li>
<li><a href="/api/scenarios">/api/scenarios</a> - Demo scenarios</li>
</ul>
</body>
</html>`))
	})

	return r
}
