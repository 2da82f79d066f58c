// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

// Package errutil provides helpers for working with coded oops errors.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// CodeOf returns the oops error code carried by err, or empty when err is
// not a coded oops error. Boundary layers use this to classify domain errors
// without unwrapping chains by hand.
func CodeOf(err error) string {
	if oopsErr, ok := oops.AsOops(err); ok {
		return oopsErr.Code()
	}
	return ""
}

// LogError logs an error with structured context if it is an oops error:
// message, code and attached context. Standard errors log the error string.
func LogError(logger *slog.Logger, msg string, err error) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		logger.Error(msg, "error", err)
		return
	}

	attrs := []any{"error", oopsErr.Error()}
	if code := oopsErr.Code(); code != "" {
		attrs = append(attrs, "code", code)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		attrs = append(attrs, "context", ctx)
	}
	logger.Error(msg, attrs...)
}
