// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

package task

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Pagination defaults applied when page or limit are unset or out of range.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// CreateInput carries the caller-supplied fields for a new task. An empty
// Status defaults to StatusPending.
type CreateInput struct {
	Title       string
	Description string
	Status      Status
}

// UpdateInput is a partial patch: nil fields are left unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *Status
}

// PageMeta describes a page of results.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// Page is one page of a user's tasks.
type Page struct {
	Data []*Task  `json:"data"`
	Meta PageMeta `json:"meta"`
}

// Service provides ownership-scoped task operations. Every operation takes
// the authenticated owner's ID and refuses to touch records owned by anyone
// else.
type Service struct {
	tasks Repository
}

// NewService creates a new Service.
func NewService(tasks Repository) *Service {
	return &Service{tasks: tasks}
}

// Create validates and persists a new task stamped with the owner's ID.
func (s *Service) Create(ctx context.Context, in CreateInput, ownerID ulid.ULID) (*Task, error) {
	if in.Title == "" {
		return nil, oops.Code("TASK_INVALID_TITLE").Errorf("title is required")
	}

	status := in.Status
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return nil, oops.Code("TASK_INVALID_STATUS").
			With("status", string(status)).
			Errorf("status must be PENDING, IN_PROGRESS, or COMPLETED")
	}

	now := time.Now()
	t := &Task{
		ID:          ulid.Make(),
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, oops.Code("TASK_CREATE_FAILED").
			With("operation", "create task").
			Wrap(err)
	}
	return t, nil
}

// List returns one page of the owner's tasks, newest first. Page and limit
// below 1 recover to the defaults; a page past the end returns empty data
// with no error.
func (s *Service) List(ctx context.Context, ownerID ulid.ULID, page, limit int) (*Page, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	offset := (page - 1) * limit

	items, total, err := s.tasks.ListByOwner(ctx, ownerID, offset, limit)
	if err != nil {
		return nil, oops.Code("TASK_LIST_FAILED").
			With("operation", "list tasks").
			Wrap(err)
	}
	if items == nil {
		items = []*Task{}
	}

	return &Page{
		Data: items,
		Meta: PageMeta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: (total + limit - 1) / limit,
		},
	}, nil
}

// Get fetches a task by ID on behalf of an owner. An unknown ID fails with
// TASK_NOT_FOUND; an existing task owned by someone else fails with
// TASK_FORBIDDEN. The two are deliberately distinguishable.
func (s *Service) Get(ctx context.Context, id, ownerID ulid.ULID) (*Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("TASK_NOT_FOUND").
				With("id", id.String()).
				Errorf("task %s not found", id.String())
		}
		return nil, oops.Code("TASK_GET_FAILED").
			With("operation", "get task by id").
			With("id", id.String()).
			Wrap(err)
	}

	if t.OwnerID != ownerID {
		return nil, oops.Code("TASK_FORBIDDEN").
			With("id", id.String()).
			Errorf("you do not have access to this task")
	}
	return t, nil
}

// Update applies a partial patch to an owned task. Absent fields are left
// unchanged; NotFound/Forbidden semantics are inherited from Get.
func (s *Service) Update(ctx context.Context, id ulid.ULID, in UpdateInput, ownerID ulid.ULID) (*Task, error) {
	t, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, oops.Code("TASK_INVALID_TITLE").Errorf("title is required")
		}
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, oops.Code("TASK_INVALID_STATUS").
				With("status", string(*in.Status)).
				Errorf("status must be PENDING, IN_PROGRESS, or COMPLETED")
		}
		t.Status = *in.Status
	}
	t.UpdatedAt = time.Now()

	if err := s.tasks.Update(ctx, t); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("TASK_NOT_FOUND").
				With("id", id.String()).
				Errorf("task %s not found", id.String())
		}
		return nil, oops.Code("TASK_UPDATE_FAILED").
			With("operation", "update task").
			With("id", id.String()).
			Wrap(err)
	}
	return t, nil
}

// Delete removes an owned task. Deletion is not idempotent: a second delete
// of the same ID fails with TASK_NOT_FOUND.
func (s *Service) Delete(ctx context.Context, id, ownerID ulid.ULID) error {
	if _, err := s.Get(ctx, id, ownerID); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("TASK_NOT_FOUND").
				With("id", id.String()).
				Errorf("task %s not found", id.String())
		}
		return oops.Code("TASK_DELETE_FAILED").
			With("operation", "delete task").
			With("id", id.String()).
			Wrap(err)
	}
	return nil
}
