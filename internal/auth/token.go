// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// DefaultTokenTTL is the session token lifetime used when none is configured.
const DefaultTokenTTL = 24 * time.Hour

// Claims is the session token payload. The subject claim carries the user ID;
// the email claim is redundant but allows display without a user lookup.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer creates and validates signed, expiring session tokens.
type TokenIssuer interface {
	// Issue produces a signed token bound to the user's identity.
	Issue(user *User) (string, error)

	// Verify checks signature integrity and expiry.
	// Returns the claims on success, a TOKEN_EXPIRED error past expiry, or
	// a TOKEN_INVALID error for malformed or tampered tokens.
	Verify(token string) (*Claims, error)
}

// JWTIssuer implements TokenIssuer using HS256-signed JWTs. The signing
// secret is process-wide configuration; rotating it invalidates every
// outstanding token.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTIssuer creates a JWTIssuer. A non-positive ttl falls back to
// DefaultTokenTTL.
func NewJWTIssuer(secret []byte, ttl time.Duration) (*JWTIssuer, error) {
	if len(secret) == 0 {
		return nil, oops.Code("TOKEN_SECRET_MISSING").Errorf("token signing secret cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTIssuer{secret: secret, ttl: ttl}, nil
}

// Issue produces a signed token with subject, email, issued-at and expiry
// claims. Expiry is issued-at plus the configured TTL.
func (i *JWTIssuer) Issue(user *User) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").
			With("operation", "sign token").
			Wrap(err)
	}
	return signed, nil
}

// Verify parses and validates a token string.
func (i *JWTIssuer) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, oops.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, oops.Code("TOKEN_EXPIRED").Errorf("token has expired")
	default:
		return nil, oops.Code("TOKEN_INVALID").Wrap(err)
	}
}

// Compile-time interface check.
var _ TokenIssuer = (*JWTIssuer)(nil)
