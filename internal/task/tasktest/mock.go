// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

// Package tasktest provides test doubles for task interfaces.
package tasktest

import (
	"context"
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/taskvault/taskvault/internal/task"
)

// Repository is a map-backed task.Repository for tests. Listing mirrors the
// real store: owner-scoped, ordered by creation time descending. The Fail*
// fields force the matching operation to return that error.
type Repository struct {
	mu    sync.Mutex
	tasks map[ulid.ULID]task.Task

	FailCreate error
	FailGet    error
	FailList   error
	FailUpdate error
	FailDelete error
}

// NewRepository creates an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{tasks: make(map[ulid.ULID]task.Task)}
}

// Create stores a copy of the task.
func (r *Repository) Create(_ context.Context, t *task.Task) error {
	if r.FailCreate != nil {
		return r.FailCreate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID] = *t
	return nil
}

// GetByID returns a copy of the stored task.
func (r *Repository) GetByID(_ context.Context, id ulid.ULID) (*task.Task, error) {
	if r.FailGet != nil {
		return nil, r.FailGet
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, task.ErrNotFound
	}
	return &t, nil
}

// ListByOwner returns the owner's tasks newest first, sliced by offset and
// limit, plus the owner's total.
func (r *Repository) ListByOwner(_ context.Context, ownerID ulid.ULID, offset, limit int) ([]*task.Task, int, error) {
	if r.FailList != nil {
		return nil, 0, r.FailList
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var owned []task.Task
	for _, t := range r.tasks {
		if t.OwnerID == ownerID {
			owned = append(owned, t)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].CreatedAt.After(owned[j].CreatedAt)
		}
		return owned[i].ID.Compare(owned[j].ID) > 0
	})

	total := len(owned)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}

	page := make([]*task.Task, 0, end-offset)
	for i := offset; i < end; i++ {
		t := owned[i]
		page = append(page, &t)
	}
	return page, total, nil
}

// Update replaces the stored task.
func (r *Repository) Update(_ context.Context, t *task.Task) error {
	if r.FailUpdate != nil {
		return r.FailUpdate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[t.ID]; !ok {
		return task.ErrNotFound
	}
	r.tasks[t.ID] = *t
	return nil
}

// Delete removes the stored task.
func (r *Repository) Delete(_ context.Context, id ulid.ULID) error {
	if r.FailDelete != nil {
		return r.FailDelete
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return task.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

// Compile-time interface check.
var _ task.Repository = (*Repository)(nil)
