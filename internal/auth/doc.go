// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

// Package auth provides the authentication core for Taskward.
//
// # Domain Types
//
// User records should be created with NewUser, which normalizes the
// email and username to lowercase and stamps creation time. Direct
// struct initialization bypasses normalization and may create records
// that violate the store's case-insensitive uniqueness constraints.
//
// # Components
//
//   - Credential validators - pure shape checks for email, username and password
//   - PasswordHasher - one-way hashing and verification of passwords
//   - TokenCodec - mints and decodes signed, stateless session tokens
//   - Service - orchestrates validators, hasher, codec and the user store
//
// The Service is constructed once at process start with its configuration
// injected; it holds no mutable state and is safe for concurrent use.
package auth
