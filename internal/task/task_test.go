// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

package task_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskvault/taskvault/internal/task"
	"github.com/taskvault/taskvault/pkg/errutil"
)

func TestStatusValid(t *testing.T) {
	assert.True(t, task.StatusPending.Valid())
	assert.True(t, task.StatusInProgress.Valid())
	assert.True(t, task.StatusCompleted.Valid())
	assert.False(t, task.Status("").Valid())
	assert.False(t, task.Status("DONE").Valid())
	assert.False(t, task.Status("pending").Valid())
}

func TestParseStatus(t *testing.T) {
	t.Run("parses known values", func(t *testing.T) {
		for _, s := range []string{"PENDING", "IN_PROGRESS", "COMPLETED"} {
			status, err := task.ParseStatus(s)
			require.NoError(t, err)
			assert.Equal(t, task.Status(s), status)
		}
	})

	t.Run("rejects unknown values", func(t *testing.T) {
		_, err := task.ParseStatus("DONE")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "TASK_INVALID_STATUS")
	})

	t.Run("matching is case-sensitive", func(t *testing.T) {
		_, err := task.ParseStatus("pending")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "TASK_INVALID_STATUS")
	})
}
