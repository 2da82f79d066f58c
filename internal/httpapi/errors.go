// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskvault/taskvault/pkg/errutil"
)

// errorResponse is the JSON envelope for every error the API returns.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusByCode maps domain error codes onto HTTP statuses. Codes absent from
// the map are unclassified internal failures.
var statusByCode = map[string]int{
	"AUTH_DUPLICATE_EMAIL":     http.StatusConflict,
	"AUTH_INVALID_CREDENTIALS": http.StatusUnauthorized,
	"AUTH_UNAUTHENTICATED":     http.StatusUnauthorized,
	"AUTH_INVALID_EMAIL":       http.StatusBadRequest,
	"AUTH_INVALID_PASSWORD":    http.StatusBadRequest,
	"AUTH_INVALID_NAME":        http.StatusBadRequest,
	"AUTH_EMPTY_PASSWORD":      http.StatusBadRequest,
	"TASK_INVALID_TITLE":       http.StatusBadRequest,
	"TASK_INVALID_STATUS":      http.StatusBadRequest,
	"TASK_NOT_FOUND":           http.StatusNotFound,
	"TASK_FORBIDDEN":           http.StatusForbidden,
}

// writeError converts a domain error into a structured HTTP response.
// Classified errors surface their own message; anything else is logged and
// returned as a generic failure so internals never leak.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	code := errutil.CodeOf(err)
	if status, ok := statusByCode[code]; ok {
		c.AbortWithStatusJSON(status, errorResponse{Code: code, Message: err.Error()})
		return
	}

	errutil.LogError(logger, "request failed", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
		Code:    "INTERNAL",
		Message: "internal server error",
	})
}

// writeBadRequest rejects malformed request bodies and parameters.
func writeBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
		Code:    "INVALID_INPUT",
		Message: message,
	})
}
