// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// Token configuration fixed at process startup.
const (
	TokenIssuer     = "todo-app"
	TokenAudience   = "todo-app-users"
	DefaultLifetime = 7 * 24 * time.Hour
)

// Claims is the signed claim set carried inside a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// TokenCodec signs claims into compact, URL-safe session tokens and verifies
// them back into claims. Decoding distinguishes tampering, expiry and other
// verification failures so callers can map each to a different message.
//
// Verification is pure computation; a codec is immutable after construction
// and safe for concurrent use.
type TokenCodec struct {
	secret   []byte
	issuer   string
	audience string
	lifetime time.Duration
	now      func() time.Time
}

// TokenCodecOption customizes a TokenCodec.
type TokenCodecOption func(*TokenCodec)

// WithLifetime overrides the default token lifetime.
func WithLifetime(d time.Duration) TokenCodecOption {
	return func(c *TokenCodec) { c.lifetime = d }
}

// WithClock overrides the codec's time source. Used by tests to pin minting
// and verification to deterministic instants.
func WithClock(now func() time.Time) TokenCodecOption {
	return func(c *TokenCodec) { c.now = now }
}

// NewTokenCodec creates a TokenCodec signing with the given symmetric secret.
// An empty secret is a configuration fault and is rejected here, at startup,
// rather than on a per-request path.
func NewTokenCodec(secret string, opts ...TokenCodecOption) (*TokenCodec, error) {
	if secret == "" {
		return nil, oops.Code("AUTH_SECRET_MISSING").Errorf("token signing secret is required")
	}

	c := &TokenCodec{
		secret:   []byte(secret),
		issuer:   TokenIssuer,
		audience: TokenAudience,
		lifetime: DefaultLifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.lifetime <= 0 {
		return nil, oops.Code("AUTH_LIFETIME_INVALID").Errorf("token lifetime must be positive")
	}
	return c, nil
}

// Mint signs a token for the given user. Expiry is fixed at mint time to
// now plus the configured lifetime.
func (c *TokenCodec) Mint(userID, email string) (string, error) {
	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
		},
		UserID: userID,
		Email:  email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", oops.Code("AUTH_MINT_FAILED").Wrap(err)
	}
	return signed, nil
}

// Decode verifies a token's signature and claims and returns the claim set.
// Failures classify into three coded errors:
//
//   - CodeTokenInvalid - malformed token, bad signature, issuer/audience
//     mismatch, or missing required claims
//   - CodeTokenExpired - signature valid but exp is in the past
//   - CodeTokenVerifyFailed - any other verification problem, including a
//     claim set missing the identity fields
//
// The error text never reveals which check failed beyond that classification.
func (c *TokenCodec) Decode(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, classifyTokenError(err)
	}
	if !parsed.Valid {
		return nil, oops.Code(CodeTokenInvalid).Errorf("Invalid token")
	}
	if claims.UserID == "" || claims.Email == "" {
		return nil, oops.Code(CodeTokenVerifyFailed).Errorf("Token verification failed")
	}
	return claims, nil
}

// classifyTokenError maps golang-jwt sentinel errors to the codec's coded
// failure modes. Expiry is checked first: an expired token also fails claim
// validation, and expiry is the classification callers care about.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return oops.Code(CodeTokenExpired).Errorf("Token has expired")
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return oops.Code(CodeTokenInvalid).Errorf("Invalid token")
	default:
		return oops.Code(CodeTokenVerifyFailed).Errorf("Token verification failed")
	}
}
