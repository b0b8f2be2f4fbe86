// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

package auth

import (
	"regexp"

	"github.com/samber/oops"
)

// Username and password length constraints.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPasswordLength = 6
	MaxPasswordLength = 128
)

// emailRegex accepts addresses of the shape local@domain.tld where no part
// contains whitespace or a second @.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// usernameCharRegex matches usernames built from ASCII letters, digits and
// underscores only.
var usernameCharRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidateEmail checks the shape of an email address. It is deterministic and
// total: malformed input yields an error value, never a panic.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return oops.Code(CodeInvalidEmail).Errorf("Please provide a valid email address")
	}
	return nil
}

// ValidateUsername checks username length and character set, reporting the
// specific violated rule so callers can surface a precise message.
func ValidateUsername(username string) error {
	if len(username) < MinUsernameLength {
		return oops.Code(CodeInvalidUsername).
			With("min", MinUsernameLength).
			Errorf("Username must be at least %d characters long", MinUsernameLength)
	}
	if len(username) > MaxUsernameLength {
		return oops.Code(CodeInvalidUsername).
			With("max", MaxUsernameLength).
			Errorf("Username cannot exceed %d characters", MaxUsernameLength)
	}
	if !usernameCharRegex.MatchString(username) {
		return oops.Code(CodeInvalidUsername).
			Errorf("Username can only contain letters, numbers, and underscores")
	}
	return nil
}

// ValidatePassword checks password length bounds, reporting which bound was
// violated.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return oops.Code(CodeInvalidPassword).
			With("min", MinPasswordLength).
			Errorf("Password must be at least %d characters long", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return oops.Code(CodeInvalidPassword).
			With("max", MaxPasswordLength).
			Errorf("Password cannot exceed %d characters", MaxPasswordLength)
	}
	return nil
}
