// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskward/taskward/internal/todo"
)

// TodoService is the slice of *todo.Service the handlers need.
type TodoService interface {
	List(ctx context.Context, userID string) ([]*todo.Todo, error)
	Get(ctx context.Context, id, userID string) (*todo.Todo, error)
	Create(ctx context.Context, userID, title, description string) (*todo.Todo, error)
	Apply(ctx context.Context, id, userID string, u todo.Update) (*todo.Todo, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
}

// TodoHandler serves the /api/todos endpoints. All of them run behind
// RequireAuth and operate only on the authenticated user's todos.
type TodoHandler struct {
	service TodoService
}

// NewTodoHandler creates a TodoHandler.
func NewTodoHandler(service TodoService) *TodoHandler {
	return &TodoHandler{service: service}
}

type createTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

func requestIdentity(w http.ResponseWriter, r *http.Request) (string, bool) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Access token required")
		return "", false
	}
	return identity.UserID, true
}

// List handles GET /api/todos.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	todos, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if todos == nil {
		todos = []*todo.Todo{}
	}

	writeData(w, http.StatusOK, todos)
}

// Get handles GET /api/todos/{id}.
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	t, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if t == nil {
		writeFailure(w, http.StatusNotFound, "Todo not found")
		return
	}

	writeData(w, http.StatusOK, t)
}

// Create handles POST /api/todos.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	t, err := h.service.Create(r.Context(), userID, req.Title, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, t)
}

// Update handles PUT /api/todos/{id}. Fields absent from the body are left
// unchanged.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	t, err := h.service.Apply(r.Context(), chi.URLParam(r, "id"), userID, todo.Update{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if t == nil {
		writeFailure(w, http.StatusNotFound, "Todo not found")
		return
	}

	writeData(w, http.StatusOK, t)
}

// Delete handles DELETE /api/todos/{id}.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeFailure(w, http.StatusNotFound, "Todo not found")
		return
	}

	writeMessage(w, http.StatusOK, "Todo deleted successfully")
}
