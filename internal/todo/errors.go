// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

package todo

import "errors"

// ErrNotFound is returned by repositories when a todo does not exist for the
// requesting user.
var ErrNotFound = errors.New("not found")

// Error codes attached to errors crossing the service boundary.
const (
	CodeTitleRequired = "TODO_TITLE_REQUIRED"
	CodeListFailed    = "TODO_LIST_FAILED"
	CodeCreateFailed  = "TODO_CREATE_FAILED"
)
