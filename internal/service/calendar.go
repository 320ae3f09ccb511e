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

// upcomingWindow is how far ahead the upcoming-events view looks, and
// upcomingLimit how many events it shows at most.
const (
	upcomingWindow = 7 * 24 * time.Hour
	upcomingLimit  = 10
)

// NormalizeAllDay snaps an all-day event to day boundaries before
// storage: start floored to 00:00:00, end ceiled to 23:59:59 of its
// day. Timed events pass through unchanged.
func NormalizeAllDay(e *models.CalendarEvent) {
	if !e.AllDay {
		return
	}
	e.StartDate = startOfDay(e.StartDate)
	if e.EndDate != nil {
		end := endOfDay(*e.EndDate)
		e.EndDate = &end
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// CalendarRecord is the calendar-widget-compatible wire shape of an
// event.
type CalendarRecord struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Start         time.Time     `json:"start"`
	End           *time.Time    `json:"end,omitempty"`
	Color         string        `json:"color"`
	AllDay        bool          `json:"allDay"`
	ExtendedProps ExtendedProps `json:"extendedProps"`
}

// ExtendedProps carries the non-positional event fields a calendar
// widget passes through untouched.
type ExtendedProps struct {
	Description string    `json:"description"`
	UserID      uuid.UUID `json:"user_id"`
	IsMultiDay  bool      `json:"is_multi_day"`
}

// NewCalendarRecord maps an event to its widget shape.
func NewCalendarRecord(e *models.CalendarEvent) CalendarRecord {
	return CalendarRecord{
		ID:     e.ID,
		Title:  e.Title,
		Start:  e.StartDate,
		End:    e.EndDate,
		Color:  e.Color,
		AllDay: e.AllDay,
		ExtendedProps: ExtendedProps{
			Description: e.Description,
			UserID:      e.UserID,
			IsMultiDay:  e.IsMultiDay(),
		},
	}
}

// CalendarService owns calendar events and the interval-overlap range
// query.
type CalendarService struct {
	events *repository.EventRepository
	log    logging.Logger
}

// NewCalendarService wires a calendar service from its repository.
func NewCalendarService(events *repository.EventRepository, log logging.Logger) *CalendarService {
	return &CalendarService{events: events, log: log}
}

// EventsOverlapping returns widget records for the owner's events whose
// interval intersects [start, end] inclusively, including events that
// fully contain the window. Zero bounds return every event.
func (s *CalendarService) EventsOverlapping(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]CalendarRecord, error) {
	var (
		events []models.CalendarEvent
		err    error
	)
	if start.IsZero() || end.IsZero() {
		events, err = s.events.ListByOwner(ctx, ownerID)
	} else {
		events, err = s.events.InRange(ctx, ownerID, start, end, 0)
	}
	if err != nil {
		return nil, err
	}
	records := make([]CalendarRecord, 0, len(events))
	for i := range events {
		records = append(records, NewCalendarRecord(&events[i]))
	}
	return records, nil
}

// EventsForDate returns the owner's events overlapping a single
// calendar day.
func (s *CalendarService) EventsForDate(ctx context.Context, ownerID uuid.UUID, date time.Time) ([]models.CalendarEvent, error) {
	return s.events.InRange(ctx, ownerID, startOfDay(date), endOfDay(date), 0)
}

// Upcoming returns up to ten of the owner's events starting within the
// next seven days.
func (s *CalendarService) Upcoming(ctx context.Context, ownerID uuid.UUID) ([]models.CalendarEvent, error) {
	now := time.Now()
	return s.events.InRange(ctx, ownerID, startOfDay(now), endOfDay(now.Add(upcomingWindow)), upcomingLimit)
}

// CreateEventInput carries the fields accepted when creating an event.
type CreateEventInput struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
	Color       string
	AllDay      bool
}

// Create stores a new event, snapping all-day events to day boundaries.
func (s *CalendarService) Create(ctx context.Context, ownerID uuid.UUID, in CreateEventInput) (*models.CalendarEvent, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", shared.ErrValidation)
	}
	if in.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: start_date is required", shared.ErrValidation)
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return nil, fmt.Errorf("%w: end_date before start_date", shared.ErrValidation)
	}
	e := &models.CalendarEvent{
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Color:       in.Color,
		AllDay:      in.AllDay,
		UserID:      ownerID,
	}
	if e.Color == "" {
		e.Color = models.EventColors[0]
	}
	NormalizeAllDay(e)
	if err := s.events.Create(ctx, e); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "event created", "event_id", e.ID)
	return e, nil
}

// Get returns the owner's event.
func (s *CalendarService) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.CalendarEvent, error) {
	return s.events.GetByID(ctx, ownerID, id)
}

// UpdateEventInput carries the optional fields of an event update.
type UpdateEventInput struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Color       *string
	AllDay      *bool
}

// Update applies a partial update, re-normalizing day boundaries when
// the event is (or becomes) all-day.
func (s *CalendarService) Update(ctx context.Context, ownerID, id uuid.UUID, in UpdateEventInput) (*models.CalendarEvent, error) {
	e, err := s.events.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, fmt.Errorf("%w: title is required", shared.ErrValidation)
		}
		e.Title = *in.Title
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.StartDate != nil {
		e.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		e.EndDate = in.EndDate
	}
	if in.Color != nil {
		e.Color = *in.Color
	}
	if in.AllDay != nil {
		e.AllDay = *in.AllDay
	}
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return nil, fmt.Errorf("%w: end_date before start_date", shared.ErrValidation)
	}
	NormalizeAllDay(e)
	if err := s.events.Save(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateDates moves an event, the drag-and-drop path: only dates and
// the all-day flag change.
func (s *CalendarService) UpdateDates(ctx context.Context, ownerID, id uuid.UUID, start time.Time, end *time.Time, allDay *bool) (*models.CalendarEvent, error) {
	if start.IsZero() {
		return nil, fmt.Errorf("%w: start_date is required", shared.ErrValidation)
	}
	return s.Update(ctx, ownerID, id, UpdateEventInput{
		StartDate: &start,
		EndDate:   end,
		AllDay:    allDay,
	})
}

// Delete removes the owner's event.
func (s *CalendarService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.events.Delete(ctx, ownerID, id)
}
