// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskvault/taskvault/internal/auth"
	"github.com/taskvault/taskvault/pkg/errutil"
)

func TestHashPassword(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	t.Run("produces valid bcrypt digest", func(t *testing.T) {
		digest, err := hasher.Hash("password123")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(digest, "$2a$"))
	})

	t.Run("same password produces different digests (salt)", func(t *testing.T) {
		digest1, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		digest2, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, digest1, digest2)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := hasher.Hash("")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_EMPTY_PASSWORD")
	})

	t.Run("out-of-range cost falls back to default", func(t *testing.T) {
		h := auth.NewBcryptHasher(99)
		digest, err := h.Hash("password123")
		require.NoError(t, err)

		cost, err := bcrypt.Cost([]byte(digest))
		require.NoError(t, err)
		assert.Equal(t, auth.DefaultBcryptCost, cost)
	})
}

func TestVerifyPassword(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	t.Run("correct password verifies", func(t *testing.T) {
		digest, err := hasher.Hash("correctpassword")
		require.NoError(t, err)

		ok, err := hasher.Verify("correctpassword", digest)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("incorrect password fails without error", func(t *testing.T) {
		digest, err := hasher.Hash("correctpassword")
		require.NoError(t, err)

		ok, err := hasher.Verify("wrongpassword", digest)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed digest returns error", func(t *testing.T) {
		ok, err := hasher.Verify("password", "not-a-valid-digest")
		assert.False(t, ok)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_HASH")
	})
}

func TestNeedsRehash(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	t.Run("digest at configured cost does not need rehash", func(t *testing.T) {
		digest, err := hasher.Hash("password123")
		require.NoError(t, err)
		assert.False(t, hasher.NeedsRehash(digest))
	})

	t.Run("digest at different cost needs rehash", func(t *testing.T) {
		other := auth.NewBcryptHasher(bcrypt.MinCost + 1)
		digest, err := other.Hash("password123")
		require.NoError(t, err)
		assert.True(t, hasher.NeedsRehash(digest))
	})

	t.Run("unparseable digest needs rehash", func(t *testing.T) {
		assert.True(t, hasher.NeedsRehash("garbage"))
	})
}
