// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

// Package todo provides per-user todo items and their operations.
//
// Every operation is scoped by the owning user's ID: a todo belonging to one
// user is invisible to every other user, and a lookup for someone else's todo
// behaves exactly like a lookup for a todo that does not exist.
package todo

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Todo is a single task owned by a user.
type Todo struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTodo creates a Todo for the given owner with a fresh ULID and timestamps.
func NewTodo(userID, title, description string) *Todo {
	now := time.Now().UTC()
	return &Todo{
		ID:          ulid.Make().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Update describes a partial change to a todo. Nil fields are left unchanged.
type Update struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Repository manages todo persistence. All reads and writes are scoped to a
// user ID; an ID match with the wrong owner is reported as ErrNotFound.
type Repository interface {
	// ListByUser returns all todos for a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Todo, error)

	// GetByID retrieves a todo by ID for the given owner.
	// Returns ErrNotFound if absent or owned by someone else.
	GetByID(ctx context.Context, id, userID string) (*Todo, error)

	// Insert stores a new todo.
	Insert(ctx context.Context, t *Todo) error

	// Update applies a partial change and returns the updated todo.
	// Returns ErrNotFound if absent or owned by someone else.
	Update(ctx context.Context, id, userID string, u Update) (*Todo, error)

	// Delete removes a todo. Returns ErrNotFound if absent or owned by
	// someone else.
	Delete(ctx context.Context, id, userID string) error
}
