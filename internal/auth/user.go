// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// User is a persisted account record. Email and username are stored
// lowercased and are each globally unique, case-insensitively. The password
// hash never leaves the auth core; responses carry a Profile instead.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a User with a fresh ULID, normalized identifiers and
// creation timestamps. The password hash must already be computed; NewUser
// never sees a plaintext password.
func NewUser(email, username, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           ulid.Make().String(),
		Email:        strings.ToLower(email),
		Username:     strings.ToLower(username),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Profile is the redacted projection of a User returned to callers: the
// password hash is removed. It is derived on every read, never stored.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile returns the redacted projection of the user.
func (u *User) Profile() *Profile {
	return &Profile{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Identity is the decoded proof of authentication extracted from a session
// token. It is scoped to a single request and never persisted.
type Identity struct {
	UserID string
	Email  string
}

// UserRepository manages user persistence. Implementations must enforce
// case-insensitive uniqueness of email and username; that constraint, not
// the service's advisory pre-check, is the authoritative guard against
// concurrent duplicate registrations.
type UserRepository interface {
	// FindByEmailOrUsername retrieves a user matching either identifier
	// (case-insensitive). Returns ErrNotFound if no user matches.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*User, error)

	// FindByEmail retrieves a user by email (case-insensitive).
	// Returns ErrNotFound if no user has the given email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID retrieves a user by ID. Returns ErrNotFound if absent.
	FindByID(ctx context.Context, id string) (*User, error)

	// Insert stores a new user. A uniqueness-constraint rejection surfaces
	// as ErrDuplicateEmail or ErrDuplicateUsername.
	Insert(ctx context.Context, user *User) error
}
