// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

package todo_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskward/taskward/internal/todo"
	"github.com/taskward/taskward/internal/todo/mocks"
	"github.com/taskward/taskward/pkg/errutil"
)

func newTestService(t *testing.T, repo todo.Repository) *todo.Service {
	t.Helper()
	svc, err := todo.NewService(repo, nil)
	require.NoError(t, err)
	return svc
}

func sampleTodo() *todo.Todo {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &todo.Todo{
		ID:          "01K1W2X3Y4Z5A6B7C8D9E0F1G2",
		UserID:      "u1",
		Title:       "Buy milk",
		Description: "Two liters",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func strptr(s string) *string { return &s }

func TestNewService_NilRepository(t *testing.T) {
	svc, err := todo.NewService(nil, nil)
	require.Error(t, err)
	assert.Nil(t, svc)
	assert.Contains(t, err.Error(), "todo repository is required")
}

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the user's todos", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		svc := newTestService(t, repo)

		want := []*todo.Todo{sampleTodo()}
		repo.On("ListByUser", ctx, "u1").Return(want, nil)

		got, err := svc.List(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("store fault", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		svc := newTestService(t, repo)

		repo.On("ListByUser", ctx, "u1").Return(nil, assert.AnError)

		_, err := svc.List(ctx, "u1")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, todo.CodeListFailed)
		errutil.AssertErrorMessage(t, err, "Failed to fetch todos")
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		svc := newTestService(t, repo)

		want := sampleTodo()
		repo.On("GetByID", ctx, want.ID, "u1").Return(want, nil)

		got, err := svc.Get(ctx, want.ID, "u1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("absence is nil, nil", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		svc := newTestService(t, repo)

		repo.On("GetByID", ctx, "missing", "u1").Return(nil, todo.ErrNotFound)

		got, err := svc.Get(ctx, "missing", "u1")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("store faults are absorbed as absence", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		svc := newTestService(t, repo)

		repo.On("GetByID", ctx, "t1", "u1").Return(nil, assert.AnError)

		got, err := svc.Get(ctx, "t1", "u1")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a trimmed todo with fresh ID and timestamps", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		svc := newTestService(t, repo)

		var inserted *todo.Todo
		repo.On("Insert", ctx, mock.AnythingOfType("*todo.Todo")).
			Run(func(args mock.Arguments) {
				inserted = args.Get(1).(*todo.Todo)
			}).
			Return(nil)

		got, err := svc.Create(ctx, "u1", "  Buy milk  ", "  Two liters  ")
		require.NoError(t, err)
		assert.Same(t, inserted, got)

		assert.Equal(t, "u1", got.UserID)
		assert.Equal(t, "Buy milk", got.Title)
		assert.Equal(t, "Two liters", got.Description)
		assert.False(t, got.Completed)
		assert.NotEmpty(t, got.ID)
		assert.False(t, got.CreatedAt.IsZero())
		assert.Equal(t, got.CreatedAt, got.UpdatedAt)
	})

	t.Run("title is required", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		svc := newTestService(t, repo)

		for _, title := range []string{"", "   ", "\t\n"} {
			got, err := svc.Create(ctx, "u1", title, "desc")
			require.Error(t, err)
			assert.Nil(t, got)
			errutil.AssertErrorCode(t, err, todo.CodeTitleRequired)
			errutil.AssertErrorMessage(t, err, "Title is required")
		}
		repo.AssertNotCalled(t, "Insert")
	})

	t.Run("store fault", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		svc := newTestService(t, repo)

		repo.On("Insert", ctx, mock.AnythingOfType("*todo.Todo")).Return(assert.AnError)

		_, err := svc.Create(ctx, "u1", "Buy milk", "")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, todo.CodeCreateFailed)
		errutil.AssertErrorMessage(t, err, "Failed to create todo")
	})
}

func TestService_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("trims fields and passes the update through", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		svc := newTestService(t, repo)

		updated := sampleTodo()
		updated.Title = "New title"
		completed := true

		repo.On("Update", ctx, updated.ID, "u1", mock.MatchedBy(func(u todo.Update) bool {
			return u.Title != nil && *u.Title == "New title" &&
				u.Description != nil && *u.Description == "New desc" &&
				u.Completed != nil && *u.Completed
		})).Return(updated, nil)

		got, err := svc.Apply(ctx, updated.ID, "u1", todo.Update{
			Title:       strptr("  New title  "),
			Description: strptr("  New desc  "),
			Completed:   &completed,
		})
		require.NoError(t, err)
		assert.Equal(t, updated, got)
	})

	t.Run("nil fields stay nil", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		svc := newTestService(t, repo)

		updated := sampleTodo()
		repo.On("Update", ctx, updated.ID, "u1", mock.MatchedBy(func(u todo.Update) bool {
			return u.Title == nil && u.Description == nil && u.Completed != nil
		})).Return(updated, nil)

		completed := true
		_, err := svc.Apply(ctx, updated.ID, "u1", todo.Update{Completed: &completed})
		require.NoError(t, err)
	})

	t.Run("blank title update is rejected before the store", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		svc := newTestService(t, repo)

		got, err := svc.Apply(ctx, "t1", "u1", todo.Update{Title: strptr("   ")})
		require.Error(t, err)
		assert.Nil(t, got)
		errutil.AssertErrorCode(t, err, todo.CodeTitleRequired)
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("absence is nil, nil", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		svc := newTestService(t, repo)

		repo.On("Update", ctx, "missing", "u1", mock.Anything).
			Return(nil, todo.ErrNotFound)

		got, err := svc.Apply(ctx, "missing", "u1", todo.Update{Title: strptr("x")})
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("blank description is allowed and trimmed", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		svc := newTestService(t, repo)

		updated := sampleTodo()
		updated.Description = ""
		repo.On("Update", ctx, updated.ID, "u1", mock.MatchedBy(func(u todo.Update) bool {
			return u.Description != nil && *u.Description == ""
		})).Return(updated, nil)

		got, err := svc.Apply(ctx, updated.ID, "u1", todo.Update{Description: strptr("   ")})
		require.NoError(t, err)
		assert.Empty(t, got.Description)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		svc := newTestService(t, repo)

		repo.On("Delete", ctx, "t1", "u1").Return(nil)

		deleted, err := svc.Delete(ctx, "t1", "u1")
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("absent", func(t *testing.T) {
		repo := mocks.NewMockRepository(t)
		svc := newTestService(t, repo)

		repo.On("Delete", ctx, "missing", "u1").Return(todo.ErrNotFound)

		deleted, err := svc.Delete(ctx, "missing", "u1")
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestNewTodo_LongTitle(t *testing.T) {
	// No silent truncation: the stored title is exactly what was supplied.
	long := strings.Repeat("a", 500)
	td := todo.NewTodo("u1", long, "")
	assert.Equal(t, long, td.Title)
}
