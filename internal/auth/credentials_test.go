// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskward/taskward/internal/auth"
	"github.com/taskward/taskward/pkg/errutil"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"a@b.co",
		"first.last@sub.example.com",
		"user+tag@example.com",
		"ODD!#$%@example.com",
	}
	for _, email := range valid {
		assert.NoError(t, auth.ValidateEmail(email), "email %q should be valid", email)
	}

	invalid := []string{
		"",
		"plain",
		"@example.com",
		"user@",
		"user@example",
		"user @example.com",
		"user@exa mple.com",
		"user@@example.com",
		"user@example.com@again",
	}
	for _, email := range invalid {
		err := auth.ValidateEmail(email)
		require.Error(t, err, "email %q should be invalid", email)
		errutil.AssertErrorCode(t, err, auth.CodeInvalidEmail)
		errutil.AssertErrorMessage(t, err, "Please provide a valid email address")
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantMsg  string
	}{
		{"minimum length", "abc", ""},
		{"maximum length", strings.Repeat("a", 30), ""},
		{"underscores and digits", "user_42", ""},
		{"mixed case", "MixedCase", ""},
		{"too short", "ab", "Username must be at least 3 characters long"},
		{"empty", "", "Username must be at least 3 characters long"},
		{"too long", strings.Repeat("a", 31), "Username cannot exceed 30 characters"},
		{"hyphen", "bad-name", "Username can only contain letters, numbers, and underscores"},
		{"space", "bad name", "Username can only contain letters, numbers, and underscores"},
		{"unicode", "usér", "Username can only contain letters, numbers, and underscores"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.ValidateUsername(tt.username)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, auth.CodeInvalidUsername)
			errutil.AssertErrorMessage(t, err, tt.wantMsg)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantMsg  string
	}{
		{"minimum length", "secret", ""},
		{"maximum length", strings.Repeat("p", 128), ""},
		{"too short", "five5", "Password must be at least 6 characters long"},
		{"empty", "", "Password must be at least 6 characters long"},
		{"too long", strings.Repeat("p", 129), "Password cannot exceed 128 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.ValidatePassword(tt.password)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, auth.CodeInvalidPassword)
			errutil.AssertErrorMessage(t, err, tt.wantMsg)
		})
	}
}
