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

// TagRepository persists per-user tags.
type TagRepository struct {
	db *gorm.DB
}

// NewTagRepository constructs a repository bound to the given DB handle.
func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// Create inserts a tag, generating its id when unset.
func (r *TagRepository) Create(ctx context.Context, t *models.Tag) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// FirstOrCreateByName finds the owner's tag by the slug derived from
// the given name, or creates it. Matching on the slug folds case and
// whitespace variants of the same name onto one row.
func (r *TagRepository) FirstOrCreateByName(ctx context.Context, ownerID uuid.UUID, name, slug, color string) (*models.Tag, error) {
	var t models.Tag
	err := r.db.WithContext(ctx).
		Where(models.Tag{UserID: ownerID, Slug: slug}).
		Attrs(models.Tag{ID: uuid.New(), Name: name, Color: color}).
		FirstOrCreate(&t).Error
	if err != nil {
		return nil, fmt.Errorf("first or create tag: %w", err)
	}
	return &t, nil
}

// GetByID returns the owner's tag or shared.ErrNotFound.
func (r *TagRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Tag, error) {
	var t models.Tag
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return &t, nil
}

// ListByOwner returns the owner's tags alphabetically.
func (r *TagRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("name asc").
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// ListOwnedByIDs returns the owner's tags among the given ids.
func (r *TagRepository) ListOwnedByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", ownerID, ids).
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("list tags by ids: %w", err)
	}
	return tags, nil
}

// Save persists all fields of an already-loaded tag.
func (r *TagRepository) Save(ctx context.Context, t *models.Tag) error {
	if err := r.db.WithContext(ctx).Save(t).Error; err != nil {
		return fmt.Errorf("save tag: %w", err)
	}
	return nil
}

// Delete removes the owner's tag or returns shared.ErrNotFound. Join
// rows referencing the tag are removed with it.
func (r *TagRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	t, err := r.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Select("Tasks").Delete(t).Error; err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}
