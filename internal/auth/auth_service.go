// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service provides authentication operations over a user repository, a
// password hasher and a token issuer. It holds no mutable state of its own.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	logger *slog.Logger
}

// NewService creates a new Service.
func NewService(users UserRepository, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return NewServiceWithLogger(users, hasher, tokens, slog.Default())
}

// NewServiceWithLogger creates a new Service with an explicit logger.
func NewServiceWithLogger(users UserRepository, hasher PasswordHasher, tokens TokenIssuer, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// AuthResult is returned from Register and Login: a bearer token plus the
// external view of the authenticated user.
type AuthResult struct {
	Token string
	User  Summary
}

// dummyPasswordDigest is verified against when no user matches the email, so
// login takes the same time whether or not the account exists. It is not a
// real credential.
//
//nolint:gosec // G101: fake digest for timing-attack prevention, not a credential.
const dummyPasswordDigest = "$2a$10$vI8aWBnW3fID.ZQ4/zo1G.q1lRps.9cGLcZEiGDMVr5yUP1KUOYTa"

// Register creates a new user and issues a session token.
// Fails with AUTH_DUPLICATE_EMAIL if the email is already registered. The
// lookup here is a best-effort pre-check; the store's uniqueness constraint
// is the hard backstop for concurrent registrations.
func (s *Service) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, oops.Code("AUTH_DUPLICATE_EMAIL").
			With("email", email).
			Errorf("email already registered")
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "check existing email").
			Wrap(err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	now := time.Now()
	user := &User{
		ID:           ulid.Make(),
		Email:        email,
		PasswordHash: digest,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, oops.Code("AUTH_DUPLICATE_EMAIL").
				With("email", email).
				Errorf("email already registered")
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create user").
			Wrap(err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}

	return &AuthResult{Token: token, User: user.Summary()}, nil
}

// Login authenticates a user by email and password and issues a session
// token. Unknown email and wrong password both produce
// AUTH_INVALID_CREDENTIALS so callers cannot enumerate accounts, and
// verification always runs to keep response time consistent.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, lookupErr := s.users.GetByEmail(ctx, email)

	targetDigest := dummyPasswordDigest
	userExists := false
	switch {
	case lookupErr == nil:
		targetDigest = user.PasswordHash
		userExists = true
	case errors.Is(lookupErr, ErrNotFound):
		// Verify against the dummy digest to maintain constant time.
	default:
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "get user by email").
			Wrap(lookupErr)
	}

	valid, verifyErr := s.hasher.Verify(password, targetDigest)
	if verifyErr != nil {
		if !userExists {
			return nil, oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid email or password")
		}
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists || !valid {
		return nil, oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid email or password")
	}

	// Upgrade digests hashed at a stale cost. Login succeeds regardless.
	if s.hasher.NeedsRehash(user.PasswordHash) {
		if newDigest, hashErr := s.hasher.Hash(password); hashErr == nil {
			if updateErr := s.users.UpdatePassword(ctx, user.ID, newDigest); updateErr != nil {
				s.logger.Warn("password rehash not persisted",
					"user_id", user.ID.String(),
					"error", updateErr)
			}
		}
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}

	return &AuthResult{Token: token, User: user.Summary()}, nil
}

// ResolveIdentity verifies a session token and returns the user it is bound
// to. Expired, malformed and tampered tokens fail with AUTH_UNAUTHENTICATED,
// as do tokens whose subject no longer exists: once the user is gone the
// token's identity is no longer trustworthy.
func (s *Service) ResolveIdentity(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, oops.Code("AUTH_UNAUTHENTICATED").Errorf("session token cannot be empty")
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, oops.Code("AUTH_UNAUTHENTICATED").
			With("operation", "verify token").
			Wrap(err)
	}

	subject, err := ulid.Parse(claims.Subject)
	if err != nil {
		return nil, oops.Code("AUTH_UNAUTHENTICATED").
			With("operation", "parse token subject").
			Wrap(err)
	}

	user, err := s.users.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("AUTH_UNAUTHENTICATED").
				With("subject", claims.Subject).
				Errorf("token subject no longer exists")
		}
		return nil, oops.Code("AUTH_RESOLVE_FAILED").
			With("operation", "get user by id").
			Wrap(err)
	}

	return user, nil
}
