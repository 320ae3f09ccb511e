package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/planora/planora/internal/models"
	"github.com/planora/planora/internal/shared"
	"gorm.io/gorm"
)

// NoteRepository persists notes scoped to an owner.
type NoteRepository struct {
	db *gorm.DB
}

// NewNoteRepository constructs a repository bound to the given DB handle.
func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create inserts a note, generating its id when unset.
func (r *NoteRepository) Create(ctx context.Context, n *models.Note) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

// GetByID returns the owner's note or shared.ErrNotFound.
func (r *NoteRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Note, error) {
	var n models.Note
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		First(&n, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return &n, nil
}

// ListByOwner returns the owner's notes, pinned first then most
// recently updated. A non-empty search term matches title, content and
// the free-text tag field, case-insensitively on every dialect.
func (r *NoteRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, search string) ([]models.Note, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", ownerID)
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(tags) LIKE ?", like, like, like)
	}
	var notes []models.Note
	err := q.Order("is_pinned desc").Order("updated_at desc").Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Save persists all fields of an already-loaded note.
func (r *NoteRepository) Save(ctx context.Context, n *models.Note) error {
	if err := r.db.WithContext(ctx).Save(n).Error; err != nil {
		return fmt.Errorf("save note: %w", err)
	}
	return nil
}

// Delete removes the owner's note or returns shared.ErrNotFound.
func (r *NoteRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", ownerID, id).
		Delete(&models.Note{})
	if res.Error != nil {
		return fmt.Errorf("delete note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the owner's total note count.
func (r *NoteRepository) Count(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Note{}).
		Where("user_id = ?", ownerID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return n, nil
}

// CountPinned returns the owner's pinned note count.
func (r *NoteRepository) CountPinned(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Note{}).
		Where("user_id = ? AND is_pinned = ?", ownerID, true).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count pinned notes: %w", err)
	}
	return n, nil
}

// CountCreatedSince counts notes created at or after the given time.
func (r *NoteRepository) CountCreatedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Note{}).
		Where("user_id = ? AND created_at >= ?", ownerID, since).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count recent notes: %w", err)
	}
	return n, nil
}

// Latest returns the owner's most recently updated notes.
func (r *NoteRepository) Latest(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.Note, error) {
	var notes []models.Note
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("updated_at desc").
		Limit(limit).
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("latest notes: %w", err)
	}
	return notes, nil
}
