// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

package errutil_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskvault/taskvault/pkg/errutil"
)

func TestCodeOf(t *testing.T) {
	t.Run("returns the code of a coded error", func(t *testing.T) {
		err := oops.Code("TASK_NOT_FOUND").Errorf("gone")
		assert.Equal(t, "TASK_NOT_FOUND", errutil.CodeOf(err))
	})

	t.Run("survives wrapping", func(t *testing.T) {
		inner := oops.Code("TASK_NOT_FOUND").Errorf("gone")
		assert.Equal(t, "TASK_NOT_FOUND", errutil.CodeOf(oops.Wrap(inner)))
	})

	t.Run("empty for plain errors", func(t *testing.T) {
		assert.Empty(t, errutil.CodeOf(errors.New("plain")))
	})

	t.Run("empty for nil", func(t *testing.T) {
		assert.Empty(t, errutil.CodeOf(nil))
	})
}

func TestLogError(t *testing.T) {
	t.Run("logs code and context for oops errors", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		err := oops.Code("TASK_FORBIDDEN").With("id", "01ABC").Errorf("no access")
		errutil.LogError(logger, "request failed", err)

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "request failed", record["msg"])
		assert.Equal(t, "TASK_FORBIDDEN", record["code"])
		assert.Contains(t, record, "context")
	})

	t.Run("logs plain errors without structure", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		errutil.LogError(logger, "request failed", errors.New("boom"))

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "boom", record["error"])
		assert.NotContains(t, record, "code")
	})
}
