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

// EventRepository persists calendar events scoped to an owner.
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository constructs a repository bound to the given DB handle.
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts an event, generating its id when unset.
func (r *EventRepository) Create(ctx context.Context, e *models.CalendarEvent) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// GetByID returns the owner's event or shared.ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.CalendarEvent, error) {
	var e models.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		First(&e, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

// InRange returns the owner's events whose interval intersects
// [start, end] under inclusive bounds: the event starts inside the
// range, ends inside the range, or fully contains it. A positive limit
// caps the result, zero returns everything.
func (r *EventRepository) InRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time, limit int) ([]models.CalendarEvent, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Where(
			r.db.Where("start_date BETWEEN ? AND ?", start, end).
				Or("end_date BETWEEN ? AND ?", start, end).
				Or("start_date <= ? AND end_date >= ?", start, end),
		).
		Order("start_date asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var events []models.CalendarEvent
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events in range: %w", err)
	}
	return events, nil
}

// ListByOwner returns all of the owner's events ordered by start date.
func (r *EventRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("start_date asc").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Upcoming returns events starting at or after now, soonest first.
func (r *EventRepository) Upcoming(ctx context.Context, ownerID uuid.UUID, now time.Time, limit int) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND start_date >= ?", ownerID, now).
		Order("start_date asc").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("upcoming events: %w", err)
	}
	return events, nil
}

// Save persists all fields of an already-loaded event.
func (r *EventRepository) Save(ctx context.Context, e *models.CalendarEvent) error {
	if err := r.db.WithContext(ctx).Save(e).Error; err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}

// Delete removes the owner's event or returns shared.ErrNotFound.
func (r *EventRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", ownerID, id).
		Delete(&models.CalendarEvent{})
	if res.Error != nil {
		return fmt.Errorf("delete event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the owner's total event count.
func (r *EventRepository) Count(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.CalendarEvent{}).
		Where("user_id = ?", ownerID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// CountStartingBetween counts events whose start date falls in
// [start, end].
func (r *EventRepository) CountStartingBetween(ctx context.Context, ownerID uuid.UUID, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.CalendarEvent{}).
		Where("user_id = ? AND start_date BETWEEN ? AND ?", ownerID, start, end).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count events in window: %w", err)
	}
	return n, nil
}
