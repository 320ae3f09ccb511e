package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/planora/planora/internal/models"
	"github.com/planora/planora/internal/server/middleware"
	"github.com/planora/planora/internal/service"
)

// TaskHandler serves the task CRUD, lifecycle and batch endpoints.
type TaskHandler struct {
	tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// CreateTaskInput DTO for creating a task or subtask.
type CreateTaskInput struct {
	Title        string      `json:"title" binding:"required"`
	Description  string      `json:"description"`
	Status       string      `json:"status"`
	Priority     string      `json:"priority"`
	StartDate    *time.Time  `json:"start_date"`
	DueDate      *time.Time  `json:"due_date"`
	ProjectID    uuid.UUID   `json:"project_id" binding:"required"`
	AssignedTo   *uuid.UUID  `json:"assigned_to"`
	ParentTaskID *uuid.UUID  `json:"parent_task_id"`
	SortOrder    *int        `json:"sort_order"`
	TagIDs       []uuid.UUID `json:"tag_ids"`
	NewTags      []string    `json:"new_tags"`
}

func (h *TaskHandler) Create(c *gin.Context) {
	var input CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), middleware.Owner(c), service.CreateTaskInput{
		Title:        input.Title,
		Description:  input.Description,
		Status:       models.TaskStatus(input.Status),
		Priority:     models.TaskPriority(input.Priority),
		StartDate:    input.StartDate,
		DueDate:      input.DueDate,
		ProjectID:    input.ProjectID,
		AssignedTo:   input.AssignedTo,
		ParentTaskID: input.ParentTaskID,
		SortOrder:    input.SortOrder,
		TagIDs:       input.TagIDs,
		NewTags:      input.NewTags,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	task, err := h.tasks.Get(c.Request.Context(), middleware.Owner(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTaskInput DTO for a partial task update.
type UpdateTaskInput struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Status      *string     `json:"status"`
	Priority    *string     `json:"priority"`
	StartDate   *time.Time  `json:"start_date"`
	DueDate     *time.Time  `json:"due_date"`
	AssignedTo  *uuid.UUID  `json:"assigned_to"`
	SortOrder   *int        `json:"sort_order"`
	TagIDs      []uuid.UUID `json:"tag_ids"`
	NewTags     []string    `json:"new_tags"`
}

func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input UpdateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upd := service.UpdateTaskInput{
		Title:       input.Title,
		Description: input.Description,
		StartDate:   input.StartDate,
		DueDate:     input.DueDate,
		AssignedTo:  input.AssignedTo,
		SortOrder:   input.SortOrder,
		TagIDs:      input.TagIDs,
		NewTags:     input.NewTags,
	}
	if input.Status != nil {
		status := models.TaskStatus(*input.Status)
		upd.Status = &status
	}
	if input.Priority != nil {
		priority := models.TaskPriority(*input.Priority)
		upd.Priority = &priority
	}

	task, err := h.tasks.Update(c.Request.Context(), middleware.Owner(c), id, upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), middleware.Owner(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

// SetStatusInput DTO for a single status transition.
type SetStatusInput struct {
	Status string `json:"status" binding:"required"`
}

func (h *TaskHandler) SetStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input SetStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	change, err := h.tasks.SetStatus(c.Request.Context(), middleware.Owner(c), id, models.TaskStatus(input.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, change)
}

func (h *TaskHandler) ToggleCompletion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	change, err := h.tasks.ToggleCompletion(c.Request.Context(), middleware.Owner(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, change)
}

// BulkStatusInput DTO for transitioning several tasks at once.
type BulkStatusInput struct {
	TaskIDs []uuid.UUID `json:"task_ids" binding:"required,min=1"`
	Status  string      `json:"status" binding:"required"`
}

func (h *TaskHandler) BulkSetStatus(c *gin.Context) {
	var input BulkStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	changes, err := h.tasks.BulkSetStatus(c.Request.Context(), middleware.Owner(c), input.TaskIDs, models.TaskStatus(input.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": changes})
}

func (h *TaskHandler) Reorder(c *gin.Context) {
	var input ReorderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make([]service.SortUpdate, 0, len(input.Updates))
	for _, u := range input.Updates {
		updates = append(updates, service.SortUpdate{ID: u.ID, SortOrder: u.SortOrder})
	}
	if err := h.tasks.Reorder(c.Request.Context(), middleware.Owner(c), updates); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tasks reordered"})
}

func (h *TaskHandler) Overdue(c *gin.Context) {
	tasks, err := h.tasks.Overdue(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) DueSoon(c *gin.Context) {
	tasks, err := h.tasks.DueSoon(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}
