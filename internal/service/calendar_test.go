package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/planora/internal/models"
	"github.com/planora/planora/internal/shared"
)

func TestNormalizeAllDay(t *testing.T) {
	end := date(2026, time.March, 4, 15)
	e := &models.CalendarEvent{
		AllDay:    true,
		StartDate: date(2026, time.March, 3, 9),
		EndDate:   &end,
	}
	NormalizeAllDay(e)

	assert.Equal(t, date(2026, time.March, 3, 0), e.StartDate)
	require.NotNil(t, e.EndDate)
	assert.Equal(t, time.Date(2026, time.March, 4, 23, 59, 59, 0, time.UTC), *e.EndDate)
}

func TestNormalizeAllDay_TimedEventUntouched(t *testing.T) {
	start := date(2026, time.March, 3, 9)
	e := &models.CalendarEvent{AllDay: false, StartDate: start}
	NormalizeAllDay(e)
	assert.Equal(t, start, e.StartDate)
}

func TestEventsOverlapping(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	// Spans day 1 through day 5.
	_, err := f.calendar.Create(t.Context(), owner, CreateEventInput{
		Title:     "conference",
		StartDate: date(2026, time.June, 1, 9),
		EndDate:   ptr(date(2026, time.June, 5, 17)),
	})
	require.NoError(t, err)

	// A window inside the event still matches: the event contains it.
	records, err := f.calendar.EventsOverlapping(t.Context(), owner,
		date(2026, time.June, 3, 0), date(2026, time.June, 4, 0))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "conference", records[0].Title)

	// A window past the event matches nothing.
	records, err = f.calendar.EventsOverlapping(t.Context(), owner,
		date(2026, time.June, 10, 0), date(2026, time.June, 12, 0))
	require.NoError(t, err)
	assert.Empty(t, records)

	// A window overlapping only the tail matches.
	records, err = f.calendar.EventsOverlapping(t.Context(), owner,
		date(2026, time.June, 5, 0), date(2026, time.June, 8, 0))
	require.NoError(t, err)
	assert.Len(t, records, 1)

	// Zero bounds return everything.
	records, err = f.calendar.EventsOverlapping(t.Context(), owner, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestEventsOverlapping_ScopedToOwner(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	other := uuid.New()

	_, err := f.calendar.Create(t.Context(), other, CreateEventInput{
		Title:     "not yours",
		StartDate: date(2026, time.June, 1, 9),
	})
	require.NoError(t, err)

	records, err := f.calendar.EventsOverlapping(t.Context(), owner, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestEventCreate_Validation(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	_, err := f.calendar.Create(t.Context(), owner, CreateEventInput{
		StartDate: date(2026, time.June, 1, 9),
	})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = f.calendar.Create(t.Context(), owner, CreateEventInput{
		Title:     "backwards",
		StartDate: date(2026, time.June, 2, 9),
		EndDate:   ptr(date(2026, time.June, 1, 9)),
	})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestEventCreate_AllDayNormalizedAndDefaultColor(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	event, err := f.calendar.Create(t.Context(), owner, CreateEventInput{
		Title:     "holiday",
		StartDate: date(2026, time.July, 14, 11),
		EndDate:   ptr(date(2026, time.July, 14, 12)),
		AllDay:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, date(2026, time.July, 14, 0), event.StartDate)
	require.NotNil(t, event.EndDate)
	assert.Equal(t, time.Date(2026, time.July, 14, 23, 59, 59, 0, time.UTC), *event.EndDate)
	assert.Equal(t, models.EventColors[0], event.Color)
}

func TestEventUpdateDates(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	event, err := f.calendar.Create(t.Context(), owner, CreateEventInput{
		Title:     "movable",
		StartDate: date(2026, time.July, 1, 10),
		EndDate:   ptr(date(2026, time.July, 1, 11)),
	})
	require.NoError(t, err)

	moved, err := f.calendar.UpdateDates(t.Context(), owner, event.ID,
		date(2026, time.July, 2, 10), ptr(date(2026, time.July, 2, 11)), nil)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.July, 2, 10), moved.StartDate)
}

func TestUpcoming_CapsAtTenSoonestFirst(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	now := time.Now().UTC()
	for i := 1; i <= 15; i++ {
		_, err := f.calendar.Create(t.Context(), owner, CreateEventInput{
			Title:     fmt.Sprintf("event %02d", i),
			StartDate: now.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	events, err := f.calendar.Upcoming(t.Context(), owner)
	require.NoError(t, err)
	require.Len(t, events, 10)
	assert.Equal(t, "event 01", events[0].Title)
	assert.Equal(t, "event 10", events[9].Title)
}

func TestCalendarRecordShape(t *testing.T) {
	end := date(2026, time.May, 2, 10)
	e := &models.CalendarEvent{
		ID:          uuid.New(),
		Title:       "review",
		Description: "quarterly",
		StartDate:   date(2026, time.May, 1, 9),
		EndDate:     &end,
		Color:       "#10B981",
		AllDay:      false,
		UserID:      uuid.New(),
	}

	rec := NewCalendarRecord(e)
	assert.Equal(t, e.ID, rec.ID)
	assert.Equal(t, e.Title, rec.Title)
	assert.Equal(t, e.StartDate, rec.Start)
	assert.Equal(t, e.EndDate, rec.End)
	assert.Equal(t, "quarterly", rec.ExtendedProps.Description)
	assert.Equal(t, e.UserID, rec.ExtendedProps.UserID)
	assert.True(t, rec.ExtendedProps.IsMultiDay)

	sameDay := date(2026, time.May, 1, 10)
	e.EndDate = &sameDay
	assert.False(t, NewCalendarRecord(e).ExtendedProps.IsMultiDay)
}
