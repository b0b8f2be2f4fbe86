// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taskward/taskward/internal/observability"
)

// RouterDeps bundles the dependencies NewRouter needs.
type RouterDeps struct {
	Auth    AuthService
	Todos   TodoService
	Tokens  TokenVerifier
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// NewRouter builds the full API router.
//
// Middleware order is Recoverer, then RequestLogger, so a panic is both
// logged as a request and answered with a 500 envelope. RequireAuth guards
// only the routes that name an authenticated user.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(Recoverer(logger))
	r.Use(RequestLogger(logger, deps.Metrics))

	authHandler := NewAuthHandler(deps.Auth, deps.Metrics)
	todoHandler := NewTodoHandler(deps.Todos)

	r.Get("/health", handleHealth)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(deps.Tokens))
			r.Get("/me", authHandler.Me)
			r.Post("/refresh", authHandler.Refresh)
		})
	})

	r.Route("/api/todos", func(r chi.Router) {
		r.Use(RequireAuth(deps.Tokens))
		r.Get("/", todoHandler.List)
		r.Post("/", todoHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", todoHandler.Get)
			r.Put("/", todoHandler.Update)
			r.Delete("/", todoHandler.Delete)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeFailure(w, http.StatusNotFound, "Route not found")
	})

	return r
}

// handleHealth reports that the API process is up. It deliberately does not
// touch the database; readiness lives on the observability server.
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Todo API is running",
		Data:    map[string]string{"timestamp": time.Now().UTC().Format(time.RFC3339)},
	})
}
