// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested user does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when an email address is already registered.
// Repositories must return it for unique-constraint violations on email so
// that concurrent registrations racing past the pre-check still fail cleanly.
var ErrDuplicateEmail = errors.New("email already registered")
