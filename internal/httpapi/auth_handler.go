// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/taskward/taskward/internal/auth"
	"github.com/taskward/taskward/internal/observability"
)

// AuthService is the slice of *auth.Service the handlers need.
type AuthService interface {
	Register(ctx context.Context, email, username, password string) (*auth.Result, error)
	Login(ctx context.Context, email, password string) (*auth.Result, error)
	GetProfileByID(ctx context.Context, userID string) (*auth.Profile, error)
	Refresh(ctx context.Context, userID string) (string, error)
}

// AuthHandler serves the /api/auth endpoints.
type AuthHandler struct {
	service AuthService
	metrics *observability.Metrics
}

// NewAuthHandler creates an AuthHandler. metrics may be nil.
func NewAuthHandler(service AuthService, metrics *observability.Metrics) *AuthHandler {
	return &AuthHandler{service: service, metrics: metrics}
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.RecordAuthOperation("register", "failure")
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		h.metrics.RecordAuthOperation("register", "failure")
		writeError(w, err)
		return
	}

	h.metrics.RecordAuthOperation("register", "success")
	writeData(w, http.StatusCreated, result)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.RecordAuthOperation("login", "failure")
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.RecordAuthOperation("login", "failure")
		writeError(w, err)
		return
	}

	h.metrics.RecordAuthOperation("login", "success")
	writeData(w, http.StatusOK, result)
}

// Me handles GET /api/auth/me. Runs behind RequireAuth; a token can outlive
// its user record, so absence is reported as 404 rather than 401.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Access token required")
		return
	}

	profile, err := h.service.GetProfileByID(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if profile == nil {
		writeFailure(w, http.StatusNotFound, "User not found")
		return
	}

	writeData(w, http.StatusOK, profile)
}

// Refresh handles POST /api/auth/refresh. Runs behind RequireAuth and mints
// a fresh token with a new expiry for the authenticated user.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Access token required")
		return
	}

	token, err := h.service.Refresh(r.Context(), identity.UserID)
	if err != nil {
		h.metrics.RecordAuthOperation("refresh", "failure")
		writeError(w, err)
		return
	}

	h.metrics.RecordAuthOperation("refresh", "success")
	writeData(w, http.StatusOK, map[string]string{"token": token})
}
