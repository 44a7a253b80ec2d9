package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	appmiddleware "github.com/taskpulse/taskpulse-api/internal/api/middleware"
	"github.com/taskpulse/taskpulse-api/internal/api/shared"
	"github.com/taskpulse/taskpulse-api/internal/platform/postgres"
)

// routes builds the chi router: common middleware, a health endpoint, and
// the JWT-protected analytics and task APIs.
func (a *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(appmiddleware.NewTraceMiddleware(a.logger))

	r.Get("/health", a.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(a.authMiddleware.Authenticate)

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/team-performance", a.analyticsHandler.GetTeamPerformance)
			r.Get("/task-statistics", a.analyticsHandler.GetTaskStatistics)
			r.Get("/team-insights", a.analyticsHandler.GetTeamInsights)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", a.taskHandler.ListTasks)
			r.Patch("/{id}", a.taskHandler.UpdateTask)
		})
	})

	return r
}

// handleHealth reports liveness plus a best-effort database check.
func (a *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	if err := postgres.Ping(ctx, a.db); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	shared.RespondWithJSON(w, r, code, map[string]string{"status": status})
}
