package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planora/planora/internal/logging"
	"github.com/planora/planora/internal/models"
	"github.com/planora/planora/internal/repository"
	"github.com/planora/planora/internal/shared"
)

// ApplyProjectStatusChange mirrors the task rule for projects: entering
// completed stamps CompletedAt, leaving completed clears it, and a
// transition to the current status is a no-op.
func ApplyProjectStatusChange(p *models.Project, next models.ProjectStatus) {
	if p.Status == next {
		return
	}
	if next == models.ProjectStatusCompleted {
		now := time.Now()
		p.CompletedAt = &now
	} else if p.Status == models.ProjectStatusCompleted {
		p.CompletedAt = nil
	}
	p.Status = next
}

// ProjectService owns project lifecycle and ordering, and derives the
// completion percentage from child task states.
type ProjectService struct {
	projects *repository.ProjectRepository
	tasks    *repository.TaskRepository
	log      logging.Logger
}

// NewProjectService wires a project service from its repositories.
func NewProjectService(projects *repository.ProjectRepository, tasks *repository.TaskRepository, log logging.Logger) *ProjectService {
	return &ProjectService{projects: projects, tasks: tasks, log: log}
}

// ProjectView is a project decorated with its derived completion
// percentage.
type ProjectView struct {
	models.Project
	CompletionPercentage float64 `json:"completion_percentage"`
}

// CreateProjectInput carries the fields accepted when creating a
// project.
type CreateProjectInput struct {
	Name        string
	Description string
	Color       string
	Status      models.ProjectStatus
	Priority    models.ProjectPriority
	StartDate   *time.Time
	DueDate     *time.Time
	SortOrder   *int
}

// Create stores a new project for the owner, defaulting sort_order to
// one past the owner's current maximum.
func (s *ProjectService) Create(ctx context.Context, ownerID uuid.UUID, in CreateProjectInput) (*models.Project, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	status := in.Status
	if status == "" {
		status = models.ProjectStatusActive
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", shared.ErrValidation, in.Status)
	}
	priority := in.Priority
	if priority == "" {
		priority = models.ProjectPriorityMedium
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: invalid priority %q", shared.ErrValidation, in.Priority)
	}

	p := &models.Project{
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
		Status:      status,
		Priority:    priority,
		StartDate:   in.StartDate,
		DueDate:     in.DueDate,
		UserID:      ownerID,
	}
	if p.Color == "" {
		p.Color = "#3B82F6"
	}
	if status == models.ProjectStatusCompleted {
		now := time.Now()
		p.CompletedAt = &now
	}

	if in.SortOrder != nil {
		p.SortOrder = *in.SortOrder
	} else {
		max, err := s.projects.MaxSortOrder(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		p.SortOrder = max + 1
	}

	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "project created", "project_id", p.ID)
	return p, nil
}

// List returns the owner's projects with completion percentages.
func (s *ProjectService) List(ctx context.Context, ownerID uuid.UUID) ([]ProjectView, error) {
	projects, err := s.projects.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	views := make([]ProjectView, 0, len(projects))
	for i := range projects {
		pct, err := s.completionPercentage(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
		views = append(views, ProjectView{Project: projects[i], CompletionPercentage: pct})
	}
	return views, nil
}

// Get returns a single project with its completion percentage.
func (s *ProjectService) Get(ctx context.Context, ownerID, id uuid.UUID) (*ProjectView, error) {
	p, err := s.projects.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	pct, err := s.completionPercentage(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &ProjectView{Project: *p, CompletionPercentage: pct}, nil
}

// UpdateProjectInput carries the optional fields of a project update.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Color       *string
	Status      *models.ProjectStatus
	Priority    *models.ProjectPriority
	StartDate   *time.Time
	DueDate     *time.Time
	SortOrder   *int
}

// Update applies a partial update, running the completion rule on
// status changes.
func (s *ProjectService) Update(ctx context.Context, ownerID, id uuid.UUID, in UpdateProjectInput) (*models.Project, error) {
	p, err := s.projects.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, fmt.Errorf("%w: name is required", shared.ErrValidation)
		}
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Color != nil {
		p.Color = *in.Color
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("%w: invalid status %q", shared.ErrValidation, *in.Status)
		}
		ApplyProjectStatusChange(p, *in.Status)
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, fmt.Errorf("%w: invalid priority %q", shared.ErrValidation, *in.Priority)
		}
		p.Priority = *in.Priority
	}
	if in.StartDate != nil {
		p.StartDate = in.StartDate
	}
	if in.DueDate != nil {
		p.DueDate = in.DueDate
	}
	if in.SortOrder != nil {
		p.SortOrder = *in.SortOrder
	}
	if err := s.projects.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the owner's project. Child tasks go with it via the
// database cascade.
func (s *ProjectService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.projects.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.log.Info(ctx, "project deleted", "project_id", id)
	return nil
}

// Reorder applies a batch of sort_order updates atomically. The whole
// batch is rejected when any id does not belong to the owner.
func (s *ProjectService) Reorder(ctx context.Context, ownerID uuid.UUID, updates []SortUpdate) error {
	if len(updates) == 0 {
		return fmt.Errorf("%w: empty reorder batch", shared.ErrValidation)
	}
	ids := make([]uuid.UUID, 0, len(updates))
	for _, u := range updates {
		ids = append(ids, u.ID)
	}
	return s.projects.Transaction(func(tx *repository.ProjectRepository) error {
		owned, err := tx.CountOwned(ctx, ownerID, ids)
		if err != nil {
			return err
		}
		if owned != int64(len(uniqueIDs(ids))) {
			return shared.ErrOwnershipMismatch
		}
		for _, u := range updates {
			if err := tx.UpdateSortOrder(ctx, u.ID, u.SortOrder); err != nil {
				return err
			}
		}
		return nil
	})
}

// completionPercentage is the share of the project's tasks that are
// completed, 0 when it has none.
func (s *ProjectService) completionPercentage(ctx context.Context, projectID uuid.UUID) (float64, error) {
	total, err := s.tasks.CountByProject(ctx, projectID)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	completed, err := s.tasks.CountByProjectAndStatus(ctx, projectID, models.TaskStatusCompleted)
	if err != nil {
		return 0, err
	}
	return round2(float64(completed) / float64(total) * 100), nil
}
