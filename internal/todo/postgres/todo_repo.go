// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

// Package postgres implements the todo repository using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/taskward/taskward/internal/todo"
)

// poolIface is the subset of pgxpool.Pool the repository needs. Satisfied by
// *pgxpool.Pool and by pgxmock in tests.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TodoRepository implements todo.Repository using PostgreSQL.
type TodoRepository struct {
	pool poolIface
}

// NewTodoRepository creates a new TodoRepository.
func NewTodoRepository(pool poolIface) *TodoRepository {
	return &TodoRepository{pool: pool}
}

const todoColumns = `id, user_id, title, description, completed, created_at, updated_at`

// ListByUser returns all todos for a user, newest first.
func (r *TodoRepository) ListByUser(ctx context.Context, userID string) ([]*todo.Todo, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+todoColumns+`
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, oops.Code("TODO_QUERY_FAILED").
			With("operation", "list todos").
			With("user_id", userID).
			Wrap(err)
	}
	defer rows.Close()

	todos := []*todo.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("TODO_QUERY_FAILED").
			With("operation", "iterate todos").
			Wrap(err)
	}
	return todos, nil
}

// GetByID retrieves a todo by ID for the given owner.
func (r *TodoRepository) GetByID(ctx context.Context, id, userID string) (*todo.Todo, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+todoColumns+`
		FROM todos
		WHERE id = $1 AND user_id = $2
	`, id, userID)

	t, err := scanTodo(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TODO_NOT_FOUND").
			With("id", id).
			Wrap(todo.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("TODO_QUERY_FAILED").
			With("operation", "get todo by id").
			With("id", id).
			Wrap(err)
	}
	return t, nil
}

// Insert stores a new todo.
func (r *TodoRepository) Insert(ctx context.Context, t *todo.Todo) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO todos (id, user_id, title, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		t.ID,
		t.UserID,
		t.Title,
		t.Description,
		t.Completed,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return oops.Code("TODO_INSERT_FAILED").
			With("operation", "insert todo").
			With("user_id", t.UserID).
			Wrap(err)
	}
	return nil
}

// Update applies a partial change; nil fields keep their stored value.
func (r *TodoRepository) Update(ctx context.Context, id, userID string, u todo.Update) (*todo.Todo, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE todos SET
			title = COALESCE($3, title),
			description = COALESCE($4, description),
			completed = COALESCE($5, completed),
			updated_at = $6
		WHERE id = $1 AND user_id = $2
		RETURNING `+todoColumns+`
	`, id, userID, u.Title, u.Description, u.Completed, time.Now().UTC())

	t, err := scanTodo(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TODO_NOT_FOUND").
			With("id", id).
			Wrap(todo.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("TODO_UPDATE_FAILED").
			With("operation", "update todo").
			With("id", id).
			Wrap(err)
	}
	return t, nil
}

// Delete removes a todo owned by the user.
func (r *TodoRepository) Delete(ctx context.Context, id, userID string) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM todos WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return oops.Code("TODO_DELETE_FAILED").
			With("operation", "delete todo").
			With("id", id).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TODO_NOT_FOUND").
			With("id", id).
			Wrap(todo.ErrNotFound)
	}
	return nil
}

// scanTodo scans a single row into a Todo.
// Callers are responsible for handling pgx.ErrNoRows.
func scanTodo(row pgx.Row) (*todo.Todo, error) {
	var t todo.Todo
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("TODO_SCAN_FAILED").
			With("operation", "scan todo").
			Wrap(err)
	}
	return &t, nil
}

// Compile-time interface check.
var _ todo.Repository = (*TodoRepository)(nil)
