// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

// Package httpapi exposes the REST surface of the server: authentication
// endpoints under /api/auth, per-user todos under /api/todos, and a health
// probe at /health.
//
// Every response body is a JSON envelope. Successes carry
// {"success": true, "data": ...}; failures carry
// {"success": false, "message": "..."} where the message is safe to show to
// an end user.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taskward/taskward/internal/auth"
	"github.com/taskward/taskward/internal/todo"
	"github.com/taskward/taskward/pkg/errutil"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// codeStatus maps service error codes to HTTP status codes. Codes absent
// from the map are treated as internal faults and reported generically.
var codeStatus = map[string]int{
	auth.CodeFieldsRequired:  http.StatusBadRequest,
	auth.CodeInvalidEmail:    http.StatusBadRequest,
	auth.CodeInvalidUsername: http.StatusBadRequest,
	auth.CodeInvalidPassword: http.StatusBadRequest,
	todo.CodeTitleRequired:   http.StatusBadRequest,

	auth.CodeEmailTaken:    http.StatusConflict,
	auth.CodeUsernameTaken: http.StatusConflict,

	auth.CodeInvalidCredentials: http.StatusUnauthorized,
	auth.CodeTokenInvalid:       http.StatusUnauthorized,
	auth.CodeTokenExpired:       http.StatusUnauthorized,
	auth.CodeTokenVerifyFailed:  http.StatusUnauthorized,
	auth.CodeLoginFailed:        http.StatusUnauthorized,

	auth.CodeUserNotFound: http.StatusNotFound,

	auth.CodeRegisterFailed: http.StatusBadRequest,

	auth.CodeRefreshFailed: http.StatusInternalServerError,
	todo.CodeListFailed:    http.StatusInternalServerError,
	todo.CodeCreateFailed:  http.StatusInternalServerError,
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("write response failed", slog.Any("error", err))
	}
}

// writeData writes a success envelope with the given payload.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// writeMessage writes a success envelope carrying only a message.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: true, Message: msg})
}

// writeError maps a service error to its HTTP status and writes a failure
// envelope. The error's own message is used when its code is recognized;
// anything else becomes a generic 500 so internal detail never leaks.
func writeError(w http.ResponseWriter, err error) {
	status, ok := codeStatus[errutil.Code(err)]
	if !ok {
		writeJSON(w, http.StatusInternalServerError,
			envelope{Success: false, Message: "Internal server error"})
		return
	}
	writeJSON(w, status, envelope{Success: false, Message: err.Error()})
}

// writeFailure writes a failure envelope with an explicit status and message.
func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Message: msg})
}
