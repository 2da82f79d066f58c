// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

// Package authtest provides test doubles for auth interfaces.
package authtest

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/taskvault/taskvault/internal/auth"
)

// UserRepository is a map-backed auth.UserRepository for tests. It enforces
// email uniqueness like the real store. The Fail* fields force the matching
// operation to return that error.
type UserRepository struct {
	mu      sync.Mutex
	byID    map[ulid.ULID]auth.User
	byEmail map[string]ulid.ULID

	FailCreate         error
	FailGet            error
	FailUpdatePassword error
}

// NewUserRepository creates an empty in-memory repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[ulid.ULID]auth.User),
		byEmail: make(map[string]ulid.ULID),
	}
}

// Create stores a copy of the user, rejecting duplicate emails.
func (r *UserRepository) Create(_ context.Context, user *auth.User) error {
	if r.FailCreate != nil {
		return r.FailCreate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[user.Email]; exists {
		return auth.ErrDuplicateEmail
	}
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

// GetByID returns a copy of the stored user.
func (r *UserRepository) GetByID(_ context.Context, id ulid.ULID) (*auth.User, error) {
	if r.FailGet != nil {
		return nil, r.FailGet
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return &user, nil
}

// GetByEmail returns a copy of the stored user, matched exactly.
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	if r.FailGet != nil {
		return nil, r.FailGet
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, auth.ErrNotFound
	}
	user := r.byID[id]
	return &user, nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(_ context.Context, id ulid.ULID, passwordHash string) error {
	if r.FailUpdatePassword != nil {
		return r.FailUpdatePassword
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return auth.ErrNotFound
	}
	user.PasswordHash = passwordHash
	r.byID[id] = user
	return nil
}

// Delete removes a user, for exercising deleted-subject token paths.
func (r *UserRepository) Delete(id ulid.ULID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.byID[id]; ok {
		delete(r.byEmail, user.Email)
		delete(r.byID, id)
	}
}

// Compile-time interface check.
var _ auth.UserRepository = (*UserRepository)(nil)
