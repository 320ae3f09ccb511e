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

// ProjectHandler serves the project CRUD and reorder endpoints.
type ProjectHandler struct {
	projects *service.ProjectService
	tasks    *service.TaskService
}

func NewProjectHandler(projects *service.ProjectService, tasks *service.TaskService) *ProjectHandler {
	return &ProjectHandler{projects: projects, tasks: tasks}
}

// CreateProjectInput DTO for creating a project.
type CreateProjectInput struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Color       string     `json:"color"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	SortOrder   *int       `json:"sort_order"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var input CreateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projects.Create(c.Request.Context(), middleware.Owner(c), service.CreateProjectInput{
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		Status:      models.ProjectStatus(input.Status),
		Priority:    models.ProjectPriority(input.Priority),
		StartDate:   input.StartDate,
		DueDate:     input.DueDate,
		SortOrder:   input.SortOrder,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	project, err := h.projects.Get(c.Request.Context(), middleware.Owner(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// UpdateProjectInput DTO for a partial project update.
type UpdateProjectInput struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Color       *string    `json:"color"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	SortOrder   *int       `json:"sort_order"`
}

func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input UpdateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upd := service.UpdateProjectInput{
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		StartDate:   input.StartDate,
		DueDate:     input.DueDate,
		SortOrder:   input.SortOrder,
	}
	if input.Status != nil {
		status := models.ProjectStatus(*input.Status)
		upd.Status = &status
	}
	if input.Priority != nil {
		priority := models.ProjectPriority(*input.Priority)
		upd.Priority = &priority
	}

	project, err := h.projects.Update(c.Request.Context(), middleware.Owner(c), id, upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.projects.Delete(c.Request.Context(), middleware.Owner(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

// ReorderInput DTO for a batch of sort_order updates.
type ReorderInput struct {
	Updates []struct {
		ID        uuid.UUID `json:"id" binding:"required"`
		SortOrder int       `json:"sort_order"`
	} `json:"updates" binding:"required,min=1"`
}

func (h *ProjectHandler) Reorder(c *gin.Context) {
	var input ReorderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make([]service.SortUpdate, 0, len(input.Updates))
	for _, u := range input.Updates {
		updates = append(updates, service.SortUpdate{ID: u.ID, SortOrder: u.SortOrder})
	}
	if err := h.projects.Reorder(c.Request.Context(), middleware.Owner(c), updates); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "projects reordered"})
}

// Tasks lists the project's tasks with completion percentages.
func (h *ProjectHandler) Tasks(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tasks, err := h.tasks.ProjectTasks(c.Request.Context(), middleware.Owner(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// Stats reports the project's per-status task counts.
func (h *ProjectHandler) Stats(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	stats, err := h.tasks.ProjectTaskStats(c.Request.Context(), middleware.Owner(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
