// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskvault/taskvault/internal/auth"
	"github.com/taskvault/taskvault/internal/observability"
)

type authHandler struct {
	auth    *auth.Service
	metrics *observability.Metrics
	logger  *slog.Logger
}

// recordAttempt counts an auth operation by outcome. Metrics may be nil in
// tests.
func (h *authHandler) recordAttempt(operation, outcome string) {
	if h.metrics != nil {
		h.metrics.AuthAttemptsTotal.WithLabelValues(operation, outcome).Inc()
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	AccessToken string       `json:"accessToken"`
	User        auth.Summary `json:"user"`
}

func (h *authHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "email, password and name are required")
		return
	}

	result, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.recordAttempt("register", "failure")
		writeError(c, h.logger, err)
		return
	}

	h.recordAttempt("register", "success")
	c.JSON(http.StatusCreated, authResponse{AccessToken: result.Token, User: result.User})
}

func (h *authHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "email and password are required")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.recordAttempt("login", "failure")
		writeError(c, h.logger, err)
		return
	}

	h.recordAttempt("login", "success")
	c.JSON(http.StatusOK, authResponse{AccessToken: result.Token, User: result.User})
}

func (h *authHandler) profile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{
			Code:    "AUTH_UNAUTHENTICATED",
			Message: "not authenticated",
		})
		return
	}

	c.JSON(http.StatusOK, user.Summary())
}
