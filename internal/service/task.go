// Package service holds the data-returning application layer. Services
// enforce lifecycle invariants and compute derived display fields; they
// know nothing about HTTP or response shapes.
package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/planora/planora/internal/logging"
	"github.com/planora/planora/internal/models"
	"github.com/planora/planora/internal/repository"
	"github.com/planora/planora/internal/shared"
)

// dueSoonWindow is how far ahead a due date counts as "due soon".
const dueSoonWindow = 7 * 24 * time.Hour

// ApplyStatusChange transitions a task to next while keeping
// CompletedAt in sync: entering completed stamps the current time,
// leaving completed clears it, any other transition leaves it alone.
// A transition to the current status is a no-op.
func ApplyStatusChange(t *models.Task, next models.TaskStatus) {
	if t.Status == next {
		return
	}
	if next == models.TaskStatusCompleted {
		now := time.Now()
		t.CompletedAt = &now
	} else if t.Status == models.TaskStatusCompleted {
		t.CompletedAt = nil
	}
	t.Status = next
}

// CompletionPercentage derives a task's completion from its subtasks:
// with none, a completed task is 100 and anything else 0; otherwise the
// share of completed subtasks, rounded to 2 decimal places.
func CompletionPercentage(t *models.Task, subtasks []models.Task) float64 {
	if len(subtasks) == 0 {
		if t.IsCompleted() {
			return 100
		}
		return 0
	}
	completed := 0
	for _, s := range subtasks {
		if s.IsCompleted() {
			completed++
		}
	}
	return round2(float64(completed) / float64(len(subtasks)) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// TaskService owns the task lifecycle: status transitions, cascading
// deletes, ordering and tag assignment.
type TaskService struct {
	tasks    *repository.TaskRepository
	tags     *repository.TagRepository
	projects *repository.ProjectRepository
	log      logging.Logger
}

// NewTaskService wires a task service from its repositories.
func NewTaskService(tasks *repository.TaskRepository, tags *repository.TagRepository, projects *repository.ProjectRepository, log logging.Logger) *TaskService {
	return &TaskService{tasks: tasks, tags: tags, projects: projects, log: log}
}

// CreateTaskInput carries the fields accepted when creating a task.
// TagIDs reference existing tags; NewTags are free-text names created
// on the fly.
type CreateTaskInput struct {
	Title        string
	Description  string
	Status       models.TaskStatus
	Priority     models.TaskPriority
	StartDate    *time.Time
	DueDate      *time.Time
	ProjectID    uuid.UUID
	AssignedTo   *uuid.UUID
	ParentTaskID *uuid.UUID
	SortOrder    *int
	TagIDs       []uuid.UUID
	NewTags      []string
}

// Create stores a new task for the owner. The project (and parent
// task, when nested) must belong to the owner; a reference the caller
// cannot access fails validation rather than leaking existence.
func (s *TaskService) Create(ctx context.Context, ownerID uuid.UUID, in CreateTaskInput) (*models.Task, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", shared.ErrValidation)
	}
	if _, err := s.projects.GetByID(ctx, ownerID, in.ProjectID); err != nil {
		return nil, fmt.Errorf("%w: unknown project", shared.ErrValidation)
	}
	if in.ParentTaskID != nil {
		if _, err := s.tasks.GetByID(ctx, ownerID, *in.ParentTaskID); err != nil {
			return nil, fmt.Errorf("%w: unknown parent task", shared.ErrValidation)
		}
	}

	status := in.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", shared.ErrValidation, in.Status)
	}
	priority := in.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: invalid priority %q", shared.ErrValidation, in.Priority)
	}

	task := &models.Task{
		Title:        in.Title,
		Description:  in.Description,
		Status:       status,
		Priority:     priority,
		StartDate:    in.StartDate,
		DueDate:      in.DueDate,
		ProjectID:    in.ProjectID,
		UserID:       ownerID,
		AssignedTo:   in.AssignedTo,
		ParentTaskID: in.ParentTaskID,
	}
	if status == models.TaskStatusCompleted {
		now := time.Now()
		task.CompletedAt = &now
	}

	if in.SortOrder != nil {
		task.SortOrder = *in.SortOrder
	} else {
		max, err := s.tasks.MaxSortOrderForProject(ctx, in.ProjectID)
		if err != nil {
			return nil, err
		}
		task.SortOrder = max + 1
	}

	tags, err := s.resolveTags(ctx, ownerID, in.TagIDs, in.NewTags)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := s.tasks.AppendTags(ctx, task, tags); err != nil {
			return nil, err
		}
	}
	s.log.Info(ctx, "task created", "task_id", task.ID, "project_id", task.ProjectID)
	return task, nil
}

// UpdateTaskInput carries the optional fields of a task update; nil
// means "leave unchanged". A non-nil TagIDs replaces the tag set.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	StartDate   *time.Time
	DueDate     *time.Time
	AssignedTo  *uuid.UUID
	SortOrder   *int
	TagIDs      []uuid.UUID
	NewTags     []string
}

// Update applies a partial update to the owner's task, running the
// completion rule on status changes and syncing tags when a tag set is
// supplied.
func (s *TaskService) Update(ctx context.Context, ownerID, id uuid.UUID, in UpdateTaskInput) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, fmt.Errorf("%w: title is required", shared.ErrValidation)
		}
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("%w: invalid status %q", shared.ErrValidation, *in.Status)
		}
		ApplyStatusChange(task, *in.Status)
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, fmt.Errorf("%w: invalid priority %q", shared.ErrValidation, *in.Priority)
		}
		task.Priority = *in.Priority
	}
	if in.StartDate != nil {
		task.StartDate = in.StartDate
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}
	if in.AssignedTo != nil {
		task.AssignedTo = in.AssignedTo
	}
	if in.SortOrder != nil {
		task.SortOrder = *in.SortOrder
	}

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}

	if in.TagIDs != nil || len(in.NewTags) > 0 {
		tags, err := s.resolveTags(ctx, ownerID, in.TagIDs, in.NewTags)
		if err != nil {
			return nil, err
		}
		if err := s.tasks.ReplaceTags(ctx, task, tags); err != nil {
			return nil, err
		}
		task.Tags = tags
	}
	return task, nil
}

// StatusChange reports the outcome of a status transition.
type StatusChange struct {
	ID          uuid.UUID         `json:"id"`
	Status      models.TaskStatus `json:"status"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	OldStatus   models.TaskStatus `json:"old_status"`
}

// SetStatus transitions a single task and reports the change.
func (s *TaskService) SetStatus(ctx context.Context, ownerID, id uuid.UUID, status models.TaskStatus) (*StatusChange, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", shared.ErrValidation, status)
	}
	task, err := s.tasks.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	old := task.Status
	ApplyStatusChange(task, status)
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return &StatusChange{ID: task.ID, Status: task.Status, CompletedAt: task.CompletedAt, OldStatus: old}, nil
}

// ToggleCompletion flips a task between completed and todo.
func (s *TaskService) ToggleCompletion(ctx context.Context, ownerID, id uuid.UUID) (*StatusChange, error) {
	task, err := s.tasks.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	next := models.TaskStatusCompleted
	if task.IsCompleted() {
		next = models.TaskStatusTodo
	}
	old := task.Status
	ApplyStatusChange(task, next)
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return &StatusChange{ID: task.ID, Status: task.Status, CompletedAt: task.CompletedAt, OldStatus: old}, nil
}

// BulkSetStatus transitions a set of tasks in one transaction. Every id
// must belong to the owner; otherwise the whole batch is rejected with
// shared.ErrOwnershipMismatch and nothing is applied.
func (s *TaskService) BulkSetStatus(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID, status models.TaskStatus) ([]StatusChange, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no task ids given", shared.ErrValidation)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", shared.ErrValidation, status)
	}

	var changes []StatusChange
	err := s.tasks.Transaction(func(tx *repository.TaskRepository) error {
		tasks, err := tx.ListOwnedByIDs(ctx, ownerID, ids)
		if err != nil {
			return err
		}
		if len(tasks) != len(uniqueIDs(ids)) {
			return shared.ErrOwnershipMismatch
		}
		for i := range tasks {
			task := &tasks[i]
			old := task.Status
			ApplyStatusChange(task, status)
			if err := tx.Save(ctx, task); err != nil {
				return err
			}
			changes = append(changes, StatusChange{
				ID:          task.ID,
				Status:      task.Status,
				CompletedAt: task.CompletedAt,
				OldStatus:   old,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "bulk status update", "count", len(changes), "status", status)
	return changes, nil
}

// Delete removes the owner's task and, recursively, every subtask
// under it.
func (s *TaskService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.tasks.DeleteCascade(ctx, ownerID, id); err != nil {
		return err
	}
	s.log.Info(ctx, "task deleted", "task_id", id)
	return nil
}

// SortUpdate is one (id, sort_order) pair of a reorder batch.
type SortUpdate struct {
	ID        uuid.UUID `json:"id"`
	SortOrder int       `json:"sort_order"`
}

// Reorder applies a batch of sort_order updates atomically. A batch
// containing any task the owner does not hold is rejected whole, so a
// failure cannot leave the set partially reordered.
func (s *TaskService) Reorder(ctx context.Context, ownerID uuid.UUID, updates []SortUpdate) error {
	if len(updates) == 0 {
		return fmt.Errorf("%w: empty reorder batch", shared.ErrValidation)
	}
	ids := make([]uuid.UUID, 0, len(updates))
	for _, u := range updates {
		ids = append(ids, u.ID)
	}
	return s.tasks.Transaction(func(tx *repository.TaskRepository) error {
		owned, err := tx.ListOwnedByIDs(ctx, ownerID, ids)
		if err != nil {
			return err
		}
		if len(owned) != len(uniqueIDs(ids)) {
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

// TaskView is a task decorated with its derived completion percentage.
type TaskView struct {
	models.Task
	CompletionPercentage float64 `json:"completion_percentage"`
}

// Get returns one task with its subtasks loaded and the completion
// percentage derived from them.
func (s *TaskService) Get(ctx context.Context, ownerID, id uuid.UUID) (*TaskView, error) {
	task, err := s.tasks.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	subtasks, err := s.tasks.ListSubtasks(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TaskView{Task: *task, CompletionPercentage: CompletionPercentage(task, subtasks)}, nil
}

// ProjectTasks returns the project's tasks for display, each top-level
// task carrying a completion percentage derived from its subtasks.
func (s *TaskService) ProjectTasks(ctx context.Context, ownerID, projectID uuid.UUID) ([]TaskView, error) {
	if _, err := s.projects.GetByID(ctx, ownerID, projectID); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	views := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		subtasks := make([]models.Task, 0, len(tasks[i].Subtasks))
		for _, st := range tasks[i].Subtasks {
			subtasks = append(subtasks, *st)
		}
		views = append(views, TaskView{
			Task:                 tasks[i],
			CompletionPercentage: CompletionPercentage(&tasks[i], subtasks),
		})
	}
	return views, nil
}

// TaskStats summarizes a project's tasks by status.
type TaskStats struct {
	Total                int64   `json:"total"`
	Completed            int64   `json:"completed"`
	InProgress           int64   `json:"in_progress"`
	Todo                 int64   `json:"todo"`
	Cancelled            int64   `json:"cancelled"`
	Overdue              int64   `json:"overdue"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// ProjectTaskStats counts the project's tasks per status and derives
// the completion percentage.
func (s *TaskService) ProjectTaskStats(ctx context.Context, ownerID, projectID uuid.UUID) (*TaskStats, error) {
	if _, err := s.projects.GetByID(ctx, ownerID, projectID); err != nil {
		return nil, err
	}
	stats := &TaskStats{}
	var err error
	if stats.Total, err = s.tasks.CountByProject(ctx, projectID); err != nil {
		return nil, err
	}
	if stats.Completed, err = s.tasks.CountByProjectAndStatus(ctx, projectID, models.TaskStatusCompleted); err != nil {
		return nil, err
	}
	if stats.InProgress, err = s.tasks.CountByProjectAndStatus(ctx, projectID, models.TaskStatusInProgress); err != nil {
		return nil, err
	}
	if stats.Todo, err = s.tasks.CountByProjectAndStatus(ctx, projectID, models.TaskStatusTodo); err != nil {
		return nil, err
	}
	if stats.Cancelled, err = s.tasks.CountByProjectAndStatus(ctx, projectID, models.TaskStatusCancelled); err != nil {
		return nil, err
	}
	if stats.Overdue, err = s.tasks.CountOverdueByProject(ctx, projectID, time.Now()); err != nil {
		return nil, err
	}
	if stats.Total > 0 {
		stats.CompletionPercentage = round2(float64(stats.Completed) / float64(stats.Total) * 100)
	}
	return stats, nil
}

// Overdue returns the owner's unresolved tasks past their due date.
func (s *TaskService) Overdue(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error) {
	return s.tasks.Overdue(ctx, ownerID, time.Now(), 0)
}

// DueSoon returns the owner's unresolved tasks due within the next
// seven days.
func (s *TaskService) DueSoon(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error) {
	now := time.Now()
	return s.tasks.DueSoon(ctx, ownerID, now, now.Add(dueSoonWindow), 0)
}

// resolveTags validates existing tag ids against the owner and
// first-or-creates free-text names, returning the combined tag set.
// A tag id the owner cannot access fails validation.
func (s *TaskService) resolveTags(ctx context.Context, ownerID uuid.UUID, tagIDs []uuid.UUID, newNames []string) ([]*models.Tag, error) {
	var tags []*models.Tag
	if len(tagIDs) > 0 {
		owned, err := s.tags.ListOwnedByIDs(ctx, ownerID, tagIDs)
		if err != nil {
			return nil, err
		}
		if len(owned) != len(uniqueIDs(tagIDs)) {
			return nil, fmt.Errorf("%w: unknown tag ids", shared.ErrValidation)
		}
		tags = owned
	}
	for _, name := range newNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag, err := s.tags.FirstOrCreateByName(ctx, ownerID, name, Slugify(name), models.DefaultTagColor)
		if err != nil {
			return nil, err
		}
		tags = appendUniqueTag(tags, tag)
	}
	return tags, nil
}

func appendUniqueTag(tags []*models.Tag, tag *models.Tag) []*models.Tag {
	for _, t := range tags {
		if t.ID == tag.ID {
			return tags
		}
	}
	return append(tags, tag)
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
