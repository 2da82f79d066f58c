// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

// Package postgres implements the task repository using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/taskvault/taskvault/internal/task"
)

// DB is the subset of pgxpool.Pool the repository needs. Narrowing the
// dependency lets tests substitute a pgxmock pool.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TaskRepository implements task.Repository using PostgreSQL.
type TaskRepository struct {
	db DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create stores a new task.
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tasks (id, title, description, status, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		t.ID.String(),
		t.Title,
		t.Description,
		string(t.Status),
		t.OwnerID.String(),
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return oops.Code("TASK_CREATE_FAILED").
			With("operation", "insert task").
			With("id", t.ID.String()).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a task by ID.
func (r *TaskRepository) GetByID(ctx context.Context, id ulid.ULID) (*task.Task, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, title, description, status, user_id, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`, id.String())

	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TASK_NOT_FOUND").
			With("id", id.String()).
			Wrap(task.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("TASK_GET_BY_ID_FAILED").
			With("operation", "get task by id").
			With("id", id.String()).
			Wrap(err)
	}
	return t, nil
}

// ListByOwner returns one page of the owner's tasks ordered by creation time
// descending, plus the total count. The query is always scoped by owner;
// there is no unscoped variant.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID ulid.ULID, offset, limit int) ([]*task.Task, int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, description, status, user_id, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		OFFSET $2 LIMIT $3
	`, ownerID.String(), offset, limit)
	if err != nil {
		return nil, 0, oops.Code("TASK_LIST_FAILED").
			With("operation", "query tasks").
			With("owner_id", ownerID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, oops.Code("TASK_LIST_FAILED").
				With("operation", "scan task row").
				Wrap(err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, oops.Code("TASK_LIST_FAILED").
			With("operation", "iterate task rows").
			Wrap(err)
	}

	var total int
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM tasks WHERE user_id = $1
	`, ownerID.String()).Scan(&total)
	if err != nil {
		return nil, 0, oops.Code("TASK_LIST_FAILED").
			With("operation", "count tasks").
			With("owner_id", ownerID.String()).
			Wrap(err)
	}

	return tasks, total, nil
}

// Update persists changes to an existing task. The owner column is never
// written; ownership is immutable after creation.
func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	result, err := r.db.Exec(ctx, `
		UPDATE tasks SET
			title = $2,
			description = $3,
			status = $4,
			updated_at = $5
		WHERE id = $1
	`,
		t.ID.String(),
		t.Title,
		t.Description,
		string(t.Status),
		t.UpdatedAt,
	)
	if err != nil {
		return oops.Code("TASK_UPDATE_FAILED").
			With("operation", "update task").
			With("id", t.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TASK_NOT_FOUND").
			With("id", t.ID.String()).
			Wrap(task.ErrNotFound)
	}
	return nil
}

// Delete removes a task.
func (r *TaskRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM tasks WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("TASK_DELETE_FAILED").
			With("operation", "delete task").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TASK_NOT_FOUND").
			With("id", id.String()).
			Wrap(task.ErrNotFound)
	}
	return nil
}

// scanTask scans a single row into a Task.
// Callers are responsible for handling pgx.ErrNoRows.
func scanTask(row pgx.Row) (*task.Task, error) {
	var (
		idStr      string
		title      string
		descr      string
		statusStr  string
		ownerIDStr string
		createdAt  time.Time
		updatedAt  time.Time
	)

	if err := row.Scan(&idStr, &title, &descr, &statusStr, &ownerIDStr, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // callers wrap with context-specific info
		}
		return nil, oops.Code("TASK_SCAN_FAILED").
			With("operation", "scan task").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("TASK_INVALID_ID").
			With("id", idStr).
			Wrap(err)
	}
	ownerID, err := ulid.Parse(ownerIDStr)
	if err != nil {
		return nil, oops.Code("TASK_INVALID_OWNER_ID").
			With("owner_id", ownerIDStr).
			Wrap(err)
	}

	return &task.Task{
		ID:          id,
		Title:       title,
		Description: descr,
		Status:      task.Status(statusStr),
		OwnerID:     ownerID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// Compile-time interface checks.
var (
	_ task.Repository = (*TaskRepository)(nil)
	_ DB              = (*pgxpool.Pool)(nil)
)
