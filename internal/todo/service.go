// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

package todo

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/oops"
)

// Service provides user-scoped todo operations.
type Service struct {
	todos  Repository
	logger *slog.Logger
}

// NewService creates a Service.
func NewService(todos Repository, logger *slog.Logger) (*Service, error) {
	if todos == nil {
		return nil, oops.Errorf("todo repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{todos: todos, logger: logger}, nil
}

// List returns all of a user's todos, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]*Todo, error) {
	todos, err := s.todos.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("todo list failed", slog.String("user_id", userID), slog.Any("error", err))
		return nil, oops.Code(CodeListFailed).Errorf("Failed to fetch todos")
	}
	return todos, nil
}

// Get returns a user's todo by ID, or (nil, nil) when it does not exist for
// that user. Absence is a normal outcome, not a fault.
func (s *Service) Get(ctx context.Context, id, userID string) (*Todo, error) {
	t, err := s.todos.GetByID(ctx, id, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("todo lookup failed", slog.String("todo_id", id), slog.Any("error", err))
		}
		return nil, nil
	}
	return t, nil
}

// Create stores a new todo for the user. The title is required; both title
// and description are trimmed of surrounding whitespace.
func (s *Service) Create(ctx context.Context, userID, title, description string) (*Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, oops.Code(CodeTitleRequired).Errorf("Title is required")
	}

	t := NewTodo(userID, title, strings.TrimSpace(description))
	if err := s.todos.Insert(ctx, t); err != nil {
		s.logger.Error("todo create failed", slog.String("user_id", userID), slog.Any("error", err))
		return nil, oops.Code(CodeCreateFailed).Errorf("Failed to create todo")
	}
	return t, nil
}

// Apply applies a partial update and returns the updated todo, or (nil, nil)
// when the todo does not exist for that user.
func (s *Service) Apply(ctx context.Context, id, userID string, u Update) (*Todo, error) {
	if u.Title != nil {
		trimmed := strings.TrimSpace(*u.Title)
		if trimmed == "" {
			return nil, oops.Code(CodeTitleRequired).Errorf("Title is required")
		}
		u.Title = &trimmed
	}
	if u.Description != nil {
		trimmed := strings.TrimSpace(*u.Description)
		u.Description = &trimmed
	}

	t, err := s.todos.Update(ctx, id, userID, u)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("todo update failed", slog.String("todo_id", id), slog.Any("error", err))
		}
		return nil, nil
	}
	return t, nil
}

// Delete removes a user's todo. Returns false when it does not exist for
// that user.
func (s *Service) Delete(ctx context.Context, id, userID string) (bool, error) {
	if err := s.todos.Delete(ctx, id, userID); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("todo delete failed", slog.String("todo_id", id), slog.Any("error", err))
		}
		return false, nil
	}
	return true, nil
}
