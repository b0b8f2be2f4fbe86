// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

package httpapi

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskward/taskward/internal/auth"
)

type verifierFunc func(token string) (*auth.Identity, error)

func (f verifierFunc) VerifyIdentity(token string) (*auth.Identity, error) {
	return f(token)
}

func TestRequireAuth_HeaderForms(t *testing.T) {
	verifier := verifierFunc(func(token string) (*auth.Identity, error) {
		if token != "tok" {
			return nil, oops.Code(auth.CodeTokenInvalid).Errorf("Invalid token")
		}
		return &auth.Identity{UserID: "u1", Email: "a@b.c"}, nil
	})

	var gotIdentity *auth.Identity
	handler := RequireAuth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentity, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid bearer", "Bearer tok", http.StatusNoContent},
		{"lowercase scheme", "bearer tok", http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"bare token", "tok", http.StatusUnauthorized},
		{"unknown token", "Bearer other", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotIdentity = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusNoContent {
				require.NotNil(t, gotIdentity)
				assert.Equal(t, "u1", gotIdentity.UserID)
			}
		})
	}
}

func TestRequireAuth_MissingTokenMessage(t *testing.T) {
	handler := RequireAuth(verifierFunc(func(string) (*auth.Identity, error) {
		t.Fatal("verifier must not run without a token")
		return nil, nil
	}))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "Access token required", env.Message)
}

func TestRecoverer(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Recoverer(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Internal server error", env.Message)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "panic recovered", entry["msg"])
	assert.Equal(t, "boom", entry["panic"])
}

func TestRequestLogger_LevelsByStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"success logs info", http.StatusOK, "INFO"},
		{"client error logs warn", http.StatusNotFound, "WARN"},
		{"server error logs error", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			handler := RequestLogger(logger, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))

			req := httptest.NewRequest(http.MethodGet, "/some/path", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "http request", entry["msg"])
			assert.Equal(t, "/some/path", entry["path"])
			assert.InDelta(t, tt.status, entry["status"], 0)
		})
	}
}

func TestStatusRecorder_DefaultsTo200(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec, statusCode: http.StatusOK}

	_, err := sr.Write([]byte("body"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, sr.statusCode)

	// Later WriteHeader calls must not overwrite the recorded status
	sr.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusOK, sr.statusCode)
}
