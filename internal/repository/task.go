package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planora/planora/internal/models"
	"github.com/planora/planora/internal/shared"
	"gorm.io/gorm"
)

// TaskRepository persists tasks and their tag associations scoped to
// an owner.
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository constructs a repository bound to the given DB handle.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Transaction runs fn against a repository bound to a single
// transaction. Returning an error rolls everything back.
func (r *TaskRepository) Transaction(fn func(tx *TaskRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&TaskRepository{db: tx})
	})
}

// Create inserts a task, generating its id when unset.
func (r *TaskRepository) Create(ctx context.Context, t *models.Task) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// GetByID returns the owner's task with tags preloaded, or
// shared.ErrNotFound.
func (r *TaskRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error) {
	var t models.Task
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("user_id = ?", ownerID).
		First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

// ListByProject returns the project's tasks with tags, subtasks and
// parent preloaded, ordered for display.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Preload("Subtasks.Tags").
		Preload("ParentTask").
		Where("project_id = ?", projectID).
		Order("sort_order asc").
		Order("created_at asc").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks by project: %w", err)
	}
	return tasks, nil
}

// ListSubtasks returns the direct subtasks of a task.
func (r *TaskRepository) ListSubtasks(ctx context.Context, parentID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Where("parent_task_id = ?", parentID).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}
	return tasks, nil
}

// ListOwnedByIDs returns the owner's tasks among the given ids. Ids
// that are missing or foreign are simply absent from the result.
func (r *TaskRepository) ListOwnedByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", ownerID, ids).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks by ids: %w", err)
	}
	return tasks, nil
}

// Save persists all fields of an already-loaded task.
func (r *TaskRepository) Save(ctx context.Context, t *models.Task) error {
	if err := r.db.WithContext(ctx).Save(t).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// DeleteCascade removes the owner's task together with all descendant
// subtasks inside one transaction. Subtasks are removed depth-first so
// no orphan remains even without a DB-level cascade.
func (r *TaskRepository) DeleteCascade(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.Transaction(func(tx *TaskRepository) error {
		var t models.Task
		err := tx.db.WithContext(ctx).
			Where("user_id = ?", ownerID).
			First(&t, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return fmt.Errorf("get task: %w", err)
		}
		return tx.deleteRecursive(ctx, t.ID)
	})
}

func (r *TaskRepository) deleteRecursive(ctx context.Context, id uuid.UUID) error {
	var childIDs []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("parent_task_id = ?", id).
		Pluck("id", &childIDs).Error
	if err != nil {
		return fmt.Errorf("list subtask ids: %w", err)
	}
	for _, childID := range childIDs {
		if err := r.deleteRecursive(ctx, childID); err != nil {
			return err
		}
	}
	if err := r.db.WithContext(ctx).Select("Tags").Delete(&models.Task{ID: id}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// MaxSortOrderForProject returns the highest sort_order among the
// project's tasks, 0 when there are none.
func (r *TaskRepository) MaxSortOrderForProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("max task sort order: %w", err)
	}
	return max, nil
}

// UpdateSortOrder sets a single task's sort_order.
func (r *TaskRepository) UpdateSortOrder(ctx context.Context, id uuid.UUID, sortOrder int) error {
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ?", id).
		Update("sort_order", sortOrder).Error
	if err != nil {
		return fmt.Errorf("update task sort order: %w", err)
	}
	return nil
}

// ReplaceTags swaps the task's tag set for the given tags.
func (r *TaskRepository) ReplaceTags(ctx context.Context, t *models.Task, tags []*models.Tag) error {
	if err := r.db.WithContext(ctx).Model(t).Association("Tags").Replace(tags); err != nil {
		return fmt.Errorf("replace task tags: %w", err)
	}
	return nil
}

// AppendTags adds the given tags to the task's tag set.
func (r *TaskRepository) AppendTags(ctx context.Context, t *models.Task, tags []*models.Tag) error {
	if err := r.db.WithContext(ctx).Model(t).Association("Tags").Append(tags); err != nil {
		return fmt.Errorf("append task tags: %w", err)
	}
	return nil
}

// Count returns the owner's total task count.
func (r *TaskRepository) Count(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	return r.count(ctx, r.db.Where("user_id = ?", ownerID))
}

// CountByStatus returns how many of the owner's tasks have the status.
func (r *TaskRepository) CountByStatus(ctx context.Context, ownerID uuid.UUID, status models.TaskStatus) (int64, error) {
	return r.count(ctx, r.db.Where("user_id = ? AND status = ?", ownerID, status))
}

// CountByPriority returns how many of the owner's tasks have the priority.
func (r *TaskRepository) CountByPriority(ctx context.Context, ownerID uuid.UUID, priority models.TaskPriority) (int64, error) {
	return r.count(ctx, r.db.Where("user_id = ? AND priority = ?", ownerID, priority))
}

// CountByProject returns the project's total task count.
func (r *TaskRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	return r.count(ctx, r.db.Where("project_id = ?", projectID))
}

// CountByProjectAndStatus returns how many of the project's tasks have
// the status.
func (r *TaskRepository) CountByProjectAndStatus(ctx context.Context, projectID uuid.UUID, status models.TaskStatus) (int64, error) {
	return r.count(ctx, r.db.Where("project_id = ? AND status = ?", projectID, status))
}

// CountOverdueByProject counts the project's unresolved tasks whose due
// date has passed.
func (r *TaskRepository) CountOverdueByProject(ctx context.Context, projectID uuid.UUID, now time.Time) (int64, error) {
	return r.count(ctx, r.db.
		Where("project_id = ? AND due_date < ?", projectID, now).
		Where("status NOT IN ?", unresolvedExclusions))
}

// CountOverdue counts the owner's unresolved tasks whose due date has
// passed.
func (r *TaskRepository) CountOverdue(ctx context.Context, ownerID uuid.UUID, now time.Time) (int64, error) {
	return r.count(ctx, r.db.
		Where("user_id = ? AND due_date < ?", ownerID, now).
		Where("status NOT IN ?", unresolvedExclusions))
}

// CountDueSoon counts the owner's unresolved tasks due within the
// window [now, until].
func (r *TaskRepository) CountDueSoon(ctx context.Context, ownerID uuid.UUID, now, until time.Time) (int64, error) {
	return r.count(ctx, r.db.
		Where("user_id = ? AND due_date BETWEEN ? AND ?", ownerID, now, until).
		Where("status NOT IN ?", unresolvedExclusions))
}

// Overdue returns the owner's unresolved tasks whose due date has
// passed, soonest first. A limit of 0 returns all of them.
func (r *TaskRepository) Overdue(ctx context.Context, ownerID uuid.UUID, now time.Time, limit int) ([]models.Task, error) {
	q := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Tags").
		Where("user_id = ? AND due_date < ?", ownerID, now).
		Where("status NOT IN ?", unresolvedExclusions).
		Order("due_date asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var tasks []models.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list overdue tasks: %w", err)
	}
	return tasks, nil
}

// DueSoon returns the owner's unresolved tasks due within [now, until],
// soonest first. A limit of 0 returns all of them.
func (r *TaskRepository) DueSoon(ctx context.Context, ownerID uuid.UUID, now, until time.Time, limit int) ([]models.Task, error) {
	q := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Tags").
		Where("user_id = ? AND due_date BETWEEN ? AND ?", ownerID, now, until).
		Where("status NOT IN ?", unresolvedExclusions).
		Order("due_date asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var tasks []models.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list due-soon tasks: %w", err)
	}
	return tasks, nil
}

// Recent returns the owner's most recently created tasks with project
// and tags preloaded.
func (r *TaskRepository) Recent(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Tags").
		Where("user_id = ?", ownerID).
		Order("created_at desc").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("recent tasks: %w", err)
	}
	return tasks, nil
}

// unresolvedExclusions are the statuses that stop a task from counting
// as overdue or due soon.
var unresolvedExclusions = []models.TaskStatus{
	models.TaskStatusCompleted,
	models.TaskStatusCancelled,
}

func (r *TaskRepository) count(ctx context.Context, q *gorm.DB) (int64, error) {
	var n int64
	if err := q.WithContext(ctx).Model(&models.Task{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}
