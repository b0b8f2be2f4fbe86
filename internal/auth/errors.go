// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

package auth

import "errors"

// ErrNotFound is returned by repositories when a requested user does not exist.
var ErrNotFound = errors.New("not found")

// Duplicate-key sentinels surfaced by UserRepository.Insert when the store's
// uniqueness constraints reject a record. The service maps them to the same
// conflict messages as its advisory pre-check, so a register call that loses
// a concurrent race still fails with user-facing text.
var (
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrDuplicateUsername = errors.New("duplicate username")
)

// Error codes attached to errors crossing the service boundary. Callers map
// these to transport-level responses; the message on the error itself is
// always safe to show to the end user.
const (
	CodeFieldsRequired     = "AUTH_FIELDS_REQUIRED"
	CodeInvalidEmail       = "AUTH_INVALID_EMAIL"
	CodeInvalidUsername    = "AUTH_INVALID_USERNAME"
	CodeInvalidPassword    = "AUTH_INVALID_PASSWORD"
	CodeEmailTaken         = "AUTH_EMAIL_TAKEN"
	CodeUsernameTaken      = "AUTH_USERNAME_TAKEN"
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeTokenInvalid       = "AUTH_TOKEN_INVALID"
	CodeTokenExpired       = "AUTH_TOKEN_EXPIRED"
	CodeTokenVerifyFailed  = "AUTH_TOKEN_VERIFY_FAILED"
	CodeUserNotFound       = "AUTH_USER_NOT_FOUND"
	CodeRegisterFailed     = "AUTH_REGISTER_FAILED"
	CodeLoginFailed        = "AUTH_LOGIN_FAILED"
	CodeRefreshFailed      = "AUTH_REFRESH_FAILED"
)
