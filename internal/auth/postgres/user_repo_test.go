// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskvault/taskvault/internal/auth"
	"github.com/taskvault/taskvault/pkg/errutil"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(mock.Close)
	return mock, NewUserRepository(mock)
}

func sampleUser() *auth.User {
	now := time.Now().Truncate(time.Microsecond)
	return &auth.User{
		ID:           ulid.Make(),
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$digest",
		Name:         "Alice",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("successful insert", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		user := sampleUser()

		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(user.ID.String(), user.Email, user.PasswordHash, user.Name, user.CreatedAt, user.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.Create(ctx, user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to duplicate email", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		user := sampleUser()

		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(user.ID.String(), user.Email, user.PasswordHash, user.Name, user.CreatedAt, user.UpdatedAt).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		err := repo.Create(ctx, user)
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrDuplicateEmail)
		errutil.AssertErrorCode(t, err, "USER_DUPLICATE_EMAIL")
	})

	t.Run("other database error is not a duplicate", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		user := sampleUser()

		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(user.ID.String(), user.Email, user.PasswordHash, user.Name, user.CreatedAt, user.UpdatedAt).
			WillReturnError(errors.New("connection refused"))

		err := repo.Create(ctx, user)
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrDuplicateEmail)
		errutil.AssertErrorCode(t, err, "USER_CREATE_FAILED")
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	columns := []string{"id", "email", "password_hash", "name", "created_at", "updated_at"}

	t.Run("found", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		user := sampleUser()

		mock.ExpectQuery(`SELECT id, email, password_hash, name, created_at, updated_at FROM users WHERE id`).
			WithArgs(user.ID.String()).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(user.ID.String(), user.Email, user.PasswordHash, user.Name, user.CreatedAt, user.UpdatedAt))

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.Email, got.Email)
	})

	t.Run("absent wraps ErrNotFound", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		id := ulid.Make()

		mock.ExpectQuery(`SELECT id, email, password_hash, name, created_at, updated_at FROM users WHERE id`).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows(columns))

		_, err := repo.GetByID(ctx, id)
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrNotFound)
		errutil.AssertErrorCode(t, err, "USER_NOT_FOUND")
	})

	t.Run("unparseable stored id fails", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		id := ulid.Make()
		now := time.Now()

		mock.ExpectQuery(`SELECT id, email, password_hash, name, created_at, updated_at FROM users WHERE id`).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow("not-a-ulid", "a@b.co", "hash", "A", now, now))

		_, err := repo.GetByID(ctx, id)
		require.Error(t, err)
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	columns := []string{"id", "email", "password_hash", "name", "created_at", "updated_at"}

	t.Run("found by exact match", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		user := sampleUser()

		mock.ExpectQuery(`SELECT id, email, password_hash, name, created_at, updated_at FROM users WHERE email`).
			WithArgs(user.Email).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(user.ID.String(), user.Email, user.PasswordHash, user.Name, user.CreatedAt, user.UpdatedAt))

		got, err := repo.GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("absent wraps ErrNotFound", func(t *testing.T) {
		mock, repo := newMockRepo(t)

		mock.ExpectQuery(`SELECT id, email, password_hash, name, created_at, updated_at FROM users WHERE email`).
			WithArgs("nobody@example.com").
			WillReturnRows(pgxmock.NewRows(columns))

		_, err := repo.GetByEmail(ctx, "nobody@example.com")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("successful update", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		id := ulid.Make()

		mock.ExpectExec(`UPDATE users SET password_hash`).
			WithArgs(id.String(), "$2a$10$newdigest", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.UpdatePassword(ctx, id, "$2a$10$newdigest"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows affected wraps ErrNotFound", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		id := ulid.Make()

		mock.ExpectExec(`UPDATE users SET password_hash`).
			WithArgs(id.String(), "$2a$10$newdigest", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdatePassword(ctx, id, "$2a$10$newdigest")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})
}
