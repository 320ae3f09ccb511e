package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/planora/planora/internal/models"
	"github.com/planora/planora/internal/shared"
	"gorm.io/gorm"
)

// ProjectRepository persists projects scoped to an owner.
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository constructs a repository bound to the given DB handle.
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Transaction runs fn against a repository bound to a single
// transaction. Returning an error rolls everything back.
func (r *ProjectRepository) Transaction(fn func(tx *ProjectRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&ProjectRepository{db: tx})
	})
}

// Create inserts a project, generating its id when unset.
func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// GetByID returns the owner's project or shared.ErrNotFound.
func (r *ProjectRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Project, error) {
	var p models.Project
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

// ListByOwner returns all of the owner's projects ordered for display.
func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("sort_order asc").
		Order("created_at desc").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// Save persists all fields of an already-loaded project.
func (r *ProjectRepository) Save(ctx context.Context, p *models.Project) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

// Delete removes the owner's project or returns shared.ErrNotFound.
func (r *ProjectRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", ownerID, id).
		Delete(&models.Project{})
	if res.Error != nil {
		return fmt.Errorf("delete project: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MaxSortOrder returns the highest sort_order among the owner's
// projects, 0 when there are none.
func (r *ProjectRepository) MaxSortOrder(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("user_id = ?", ownerID).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("max sort order: %w", err)
	}
	return max, nil
}

// CountOwned reports how many of the given ids belong to the owner.
func (r *ProjectRepository) CountOwned(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("user_id = ? AND id IN ?", ownerID, ids).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count owned projects: %w", err)
	}
	return n, nil
}

// UpdateSortOrder sets a single project's sort_order.
func (r *ProjectRepository) UpdateSortOrder(ctx context.Context, id uuid.UUID, sortOrder int) error {
	err := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", id).
		Update("sort_order", sortOrder).Error
	if err != nil {
		return fmt.Errorf("update project sort order: %w", err)
	}
	return nil
}

// Count returns the owner's total project count.
func (r *ProjectRepository) Count(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("user_id = ?", ownerID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}

// CountByStatus returns how many of the owner's projects have the status.
func (r *ProjectRepository) CountByStatus(ctx context.Context, ownerID uuid.UUID, status models.ProjectStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("user_id = ? AND status = ?", ownerID, status).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count projects by status: %w", err)
	}
	return n, nil
}

// CountByPriority returns how many of the owner's projects have the priority.
func (r *ProjectRepository) CountByPriority(ctx context.Context, ownerID uuid.UUID, priority models.ProjectPriority) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("user_id = ? AND priority = ?", ownerID, priority).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count projects by priority: %w", err)
	}
	return n, nil
}

// Recent returns the owner's most recently created projects.
func (r *ProjectRepository) Recent(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at desc").
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("recent projects: %w", err)
	}
	return projects, nil
}
