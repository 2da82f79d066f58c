// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

package task

import "errors"

// ErrNotFound is returned when a requested task does not exist.
var ErrNotFound = errors.New("task not found")
