package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTagColor is applied when a tag is created without a color,
// including tags created on the fly from free-text names.
const DefaultTagColor = "#6B7280"

// Tag represents a per-user label attached to tasks. Name and Slug are
// unique per owner; the same name may exist for different users.
type Tag struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string    `json:"name" gorm:"not null;uniqueIndex:idx_tags_user_name,priority:2"`
	Slug        string    `json:"slug" gorm:"not null;uniqueIndex:idx_tags_user_slug,priority:2"`
	Color       string    `json:"color" gorm:"type:varchar(7);not null;default:'#6B7280'"`
	Description string    `json:"description"`
	UserID      uuid.UUID `json:"user_id" gorm:"not null;type:uuid;uniqueIndex:idx_tags_user_name,priority:1;uniqueIndex:idx_tags_user_slug,priority:1"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Many-to-Many Relations
	Tasks []*Task `json:"tasks,omitempty" gorm:"many2many:task_tags"`
}
