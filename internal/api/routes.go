package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Get("/health", h.Health)

		// Protected routes (bearer token resolved to an owner id)
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(h.store))

			r.Route("/time-entries", func(r chi.Router) {
				r.Post("/", h.StartEntry)
				r.Get("/", h.ListEntries)
				r.Get("/{id}", h.GetEntry)
				r.Put("/{id}", h.UpdateEntry)
				r.Delete("/{id}", h.DeleteEntry)
				r.Put("/{id}/stop", h.StopEntry)
				r.Put("/{id}/pause", h.PauseEntry)
				r.Put("/{id}/resume", h.ResumeEntry)
				r.Put("/{id}/abandon", h.AbandonEntry)
				r.Post("/{id}/interruptions", h.LogInterruption)
			})

			r.Route("/user-tasks", func(r chi.Router) {
				r.Post("/", h.CreateTask)
				r.Get("/", h.ListTasks)
				r.Get("/summary", h.TaskSummary)
				r.Get("/{id}", h.GetTask)
				r.Put("/{id}", h.UpdateTask)
				r.Delete("/{id}", h.DeleteTask)
				r.Put("/{id}/progress", h.TaskProgress)
			})

			r.Route("/productivity-goals", func(r chi.Router) {
				r.Post("/", h.CreateGoal)
				r.Get("/", h.ListGoals)
				r.Get("/{id}", h.GetGoal)
				r.Post("/{id}/progress", h.GoalProgress)
			})

			r.Route("/personal-analysis", func(r chi.Router) {
				r.Get("/dashboard", h.Dashboard)
				r.Get("/insights", h.Insights)
			})
		})
	})

	return r
}
