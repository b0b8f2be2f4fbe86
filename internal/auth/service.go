// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/oops"
)

// Service provides the register/login/verify operations that authorize every
// request in the system.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	codec  *TokenCodec
	logger *slog.Logger
}

// NewService creates a Service. All dependencies are required.
func NewService(users UserRepository, hasher PasswordHasher, codec *TokenCodec, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if codec == nil {
		return nil, oops.Errorf("token codec is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: users, hasher: hasher, codec: codec, logger: logger}, nil
}

// Result is the outcome of a successful register or login: the redacted
// profile plus a freshly minted session token.
type Result struct {
	Profile *Profile `json:"user"`
	Token   string   `json:"token"`
}

// dummyPasswordHash is verified against when a login names an unknown email,
// so the request does comparable hashing work either way and the caller sees
// the same error text. This is NOT a real credential.
//
//nolint:gosec // G101: intentionally fake hash for enumeration resistance, not a credential.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Register validates the supplied credentials, stores a new user record and
// mints a session token for it.
//
// Validation failures and duplicate email/username conflicts carry their
// user-facing message verbatim; any unexpected store fault is logged
// server-side and replaced with a generic registration failure.
func (s *Service) Register(ctx context.Context, email, username, password string) (*Result, error) {
	if email == "" || username == "" || password == "" {
		return nil, oops.Code(CodeFieldsRequired).Errorf("Email, username, and password are required")
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	email = strings.ToLower(email)
	username = strings.ToLower(username)

	// Advisory duplicate check: one combined lookup, email match reported in
	// preference to username match. The store's uniqueness constraint remains
	// the authoritative guard; see the Insert race handling below.
	existing, err := s.users.FindByEmailOrUsername(ctx, email, username)
	switch {
	case err == nil:
		if existing.Email == email {
			return nil, oops.Code(CodeEmailTaken).Errorf("User with this email already exists")
		}
		return nil, oops.Code(CodeUsernameTaken).Errorf("Username is already taken")
	case !errors.Is(err, ErrNotFound):
		return nil, s.registerFailed("duplicate lookup", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, s.registerFailed("hash password", err)
	}

	user := NewUser(email, username, hash)
	if err := s.users.Insert(ctx, user); err != nil {
		// A concurrent registration can slip past the advisory check and be
		// rejected by the store's constraint instead; report it as the same
		// conflict the pre-check would have produced.
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			return nil, oops.Code(CodeEmailTaken).Errorf("User with this email already exists")
		case errors.Is(err, ErrDuplicateUsername):
			return nil, oops.Code(CodeUsernameTaken).Errorf("Username is already taken")
		default:
			return nil, s.registerFailed("insert user", err)
		}
	}

	token, err := s.codec.Mint(user.ID, user.Email)
	if err != nil {
		return nil, s.registerFailed("mint token", err)
	}

	s.logger.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return &Result{Profile: user.Profile(), Token: token}, nil
}

// Login authenticates an email/password pair and mints a session token.
// An unknown email and a wrong password produce byte-identical error text,
// and both paths perform password hashing work.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	if email == "" || password == "" {
		return nil, oops.Code(CodeFieldsRequired).Errorf("Email and password are required")
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	user, lookupErr := s.users.FindByEmail(ctx, strings.ToLower(email))

	targetHash := dummyPasswordHash
	userExists := false
	switch {
	case lookupErr == nil:
		targetHash = user.PasswordHash
		userExists = true
	case !errors.Is(lookupErr, ErrNotFound):
		return nil, s.loginFailed("lookup user", lookupErr)
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return nil, invalidCredentials()
		}
		return nil, s.loginFailed("verify password", verifyErr)
	}
	if !userExists || !valid {
		return nil, invalidCredentials()
	}

	token, err := s.codec.Mint(user.ID, user.Email)
	if err != nil {
		return nil, s.loginFailed("mint token", err)
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	return &Result{Profile: user.Profile(), Token: token}, nil
}

// VerifyIdentity decodes a session token and returns the identity it proves.
// Pure computation: it never touches the user store.
func (s *Service) VerifyIdentity(token string) (*Identity, error) {
	if token == "" {
		return nil, oops.Code(CodeTokenVerifyFailed).Errorf("Token verification failed")
	}
	claims, err := s.codec.Decode(token)
	if err != nil {
		return nil, err
	}
	return &Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

// GetProfileByID returns the redacted profile for a user, or (nil, nil) when
// no such user exists. Absence is a normal outcome here, not a fault; store
// errors are logged and likewise reported as absence.
func (s *Service) GetProfileByID(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, nil
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("profile lookup failed",
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
		}
		return nil, nil
	}
	return user.Profile(), nil
}

// Refresh mints a fresh token for an existing user: new issue and expiry
// times, same claims shape.
func (s *Service) Refresh(ctx context.Context, userID string) (string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", oops.Code(CodeUserNotFound).Errorf("User not found")
		}
		s.logger.Error("refresh lookup failed", slog.String("user_id", userID), slog.Any("error", err))
		return "", oops.Code(CodeRefreshFailed).Errorf("Failed to refresh token")
	}

	token, err := s.codec.Mint(user.ID, user.Email)
	if err != nil {
		s.logger.Error("refresh mint failed", slog.String("user_id", userID), slog.Any("error", err))
		return "", oops.Code(CodeRefreshFailed).Errorf("Failed to refresh token")
	}
	return token, nil
}

func invalidCredentials() error {
	return oops.Code(CodeInvalidCredentials).Errorf("Invalid email or password")
}

func (s *Service) registerFailed(operation string, err error) error {
	s.logger.Error("registration failed", slog.String("operation", operation), slog.Any("error", err))
	return oops.Code(CodeRegisterFailed).Errorf("Registration failed")
}

func (s *Service) loginFailed(operation string, err error) error {
	s.logger.Error("login failed", slog.String("operation", operation), slog.Any("error", err))
	return oops.Code(CodeLoginFailed).Errorf("Login failed")
}
