// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

package httpapi

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskvault/taskvault/internal/auth"
	"github.com/taskvault/taskvault/internal/observability"
)

// userContextKey is where the authenticated user is stored on the request
// context by requireAuth.
const userContextKey = "taskvault.user"

// requireAuth resolves the bearer token into a full user record and aborts
// with 401 when it cannot.
func requireAuth(authSvc *auth.Service, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(401, errorResponse{
				Code:    "AUTH_UNAUTHENTICATED",
				Message: "missing bearer token",
			})
			return
		}

		user, err := authSvc.ResolveIdentity(c.Request.Context(), token)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// currentUser returns the user stored by requireAuth.
func currentUser(c *gin.Context) (*auth.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*auth.User)
	return user, ok
}

// requestObserver records per-request metrics and an access log line. Route
// is the registered pattern, not the raw path, to keep label cardinality
// bounded.
func requestObserver(metrics *observability.Metrics, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		if metrics != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(
				c.Request.Method, route, strconv.Itoa(status),
			).Inc()
		}

		logger.LogAttrs(c.Request.Context(), slog.LevelInfo, "request",
			slog.String("method", c.Request.Method),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
		)
	}
}
