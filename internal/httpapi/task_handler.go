// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"

	"github.com/taskvault/taskvault/internal/task"
)

type taskHandler struct {
	tasks  *task.Service
	logger *slog.Logger
}

type createTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type taskPageResponse struct {
	Data []taskResponse `json:"data"`
	Meta task.PageMeta  `json:"meta"`
}

func toTaskResponse(t *task.Task) taskResponse {
	return taskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		UserID:      t.OwnerID.String(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (h *taskHandler) create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		writeBadRequest(c, "not authenticated")
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "title is required")
		return
	}

	in := task.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      task.Status(req.Status),
	}

	created, err := h.tasks.Create(c.Request.Context(), in, user.ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(created))
}

func (h *taskHandler) list(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		writeBadRequest(c, "not authenticated")
		return
	}

	// Unparseable values recover to the service defaults.
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.tasks.List(c.Request.Context(), user.ID, page, limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	data := make([]taskResponse, 0, len(result.Data))
	for _, t := range result.Data {
		data = append(data, toTaskResponse(t))
	}

	c.JSON(http.StatusOK, taskPageResponse{Data: data, Meta: result.Meta})
}

func (h *taskHandler) get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		writeBadRequest(c, "not authenticated")
		return
	}

	id, err := ulid.Parse(c.Param("id"))
	if err != nil {
		writeBadRequest(c, "invalid task id")
		return
	}

	t, err := h.tasks.Get(c.Request.Context(), id, user.ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(t))
}

func (h *taskHandler) update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		writeBadRequest(c, "not authenticated")
		return
	}

	id, err := ulid.Parse(c.Param("id"))
	if err != nil {
		writeBadRequest(c, "invalid task id")
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "request body is not valid JSON")
		return
	}

	in := task.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := task.Status(*req.Status)
		in.Status = &status
	}

	updated, err := h.tasks.Update(c.Request.Context(), id, in, user.ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(updated))
}

func (h *taskHandler) remove(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		writeBadRequest(c, "not authenticated")
		return
	}

	id, err := ulid.Parse(c.Param("id"))
	if err != nil {
		writeBadRequest(c, "invalid task id")
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), id, user.ID); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
