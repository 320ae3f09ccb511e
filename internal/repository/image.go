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

// ImageRepository persists note image records. Ownership is indirect,
// through the owning note, so reads preload it.
type ImageRepository struct {
	db *gorm.DB
}

// NewImageRepository constructs a repository bound to the given DB handle.
func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// Create inserts an image record, generating its id when unset.
func (r *ImageRepository) Create(ctx context.Context, img *models.NoteImage) error {
	if img.ID == uuid.Nil {
		img.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(img).Error; err != nil {
		return fmt.Errorf("create note image: %w", err)
	}
	return nil
}

// GetByID returns the image with its note preloaded, or
// shared.ErrNotFound. Caller checks note ownership.
func (r *ImageRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.NoteImage, error) {
	var img models.NoteImage
	err := r.db.WithContext(ctx).
		Preload("Note").
		First(&img, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("get note image: %w", err)
	}
	return &img, nil
}

// ListByNote returns the images attached to a note, oldest first.
func (r *ImageRepository) ListByNote(ctx context.Context, noteID uuid.UUID) ([]models.NoteImage, error) {
	var images []models.NoteImage
	err := r.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Order("created_at asc").
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("list note images: %w", err)
	}
	return images, nil
}

// ListByOwner returns all images attached to any of the owner's notes.
func (r *ImageRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.NoteImage, error) {
	var images []models.NoteImage
	err := r.db.WithContext(ctx).
		Joins("JOIN notes ON notes.id = note_images.note_id").
		Where("notes.user_id = ?", ownerID).
		Order("note_images.created_at asc").
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("list owner images: %w", err)
	}
	return images, nil
}

// Delete removes an image record.
func (r *ImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&models.NoteImage{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete note image: %w", err)
	}
	return nil
}
