package models

import (
	"time"

	"github.com/google/uuid"
)

// CalendarEvent represents a calendar entry. All-day events are stored
// with StartDate floored to the beginning of its day and EndDate (when
// set) ceiled to the end of its day, so date-only range filters match.
type CalendarEvent struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"start_date" gorm:"not null;index:idx_events_user_start,priority:2"`
	EndDate     *time.Time `json:"end_date,omitempty" gorm:"index:idx_events_user_end,priority:2"`
	Color       string     `json:"color" gorm:"type:varchar(7);not null;default:'#3B82F6'"`
	AllDay      bool       `json:"all_day" gorm:"not null;default:false"`
	UserID      uuid.UUID  `json:"user_id" gorm:"not null;type:uuid;index:idx_events_user_start,priority:1;index:idx_events_user_end,priority:1"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsMultiDay reports whether the event spans more than one calendar day.
func (e *CalendarEvent) IsMultiDay() bool {
	if e.EndDate == nil {
		return false
	}
	sy, sm, sd := e.StartDate.Date()
	ey, em, ed := e.EndDate.Date()
	return sy != ey || sm != em || sd != ed
}

// EventColors are the colors offered by the UI for calendar events.
var EventColors = []string{
	"#3B82F6", // blue
	"#EF4444", // red
	"#10B981", // green
	"#F59E0B", // yellow
	"#8B5CF6", // purple
	"#F97316", // orange
	"#06B6D4", // cyan
	"#84CC16", // lime
	"#EC4899", // pink
	"#6B7280", // gray
}
