// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

// Package task provides ownership-scoped task management: CRUD and paginated
// listing over task records, enforcing that only the owning user may read or
// modify a record.
package task

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Status enumerates task progress states.
type Status string

// Task statuses.
const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Valid returns true for a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ParseStatus parses a status string.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", oops.Code("TASK_INVALID_STATUS").
			With("status", s).
			Errorf("status must be PENDING, IN_PROGRESS, or COMPLETED")
	}
	return status, nil
}

// Task is a unit of work owned by exactly one user. OwnerID is set at
// creation and never changes.
type Task struct {
	ID          ulid.ULID
	Title       string
	Description string
	Status      Status
	OwnerID     ulid.ULID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Repository manages task persistence. All listing is scoped by owner at the
// query level; there is no unscoped listing operation.
type Repository interface {
	// Create stores a new task.
	Create(ctx context.Context, task *Task) error

	// GetByID retrieves a task by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id ulid.ULID) (*Task, error)

	// ListByOwner returns the owner's tasks ordered by creation time
	// descending, at most limit items starting at offset, plus the total
	// number of tasks the owner has.
	ListByOwner(ctx context.Context, ownerID ulid.ULID, offset, limit int) ([]*Task, int, error)

	// Update persists changes to an existing task.
	Update(ctx context.Context, task *Task) error

	// Delete removes a task. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id ulid.ULID) error
}
