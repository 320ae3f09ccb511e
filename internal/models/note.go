package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultNoteTitle is the placeholder stored for notes created without
// a title. The read path treats it the same as an empty title and
// derives a display title from the content instead.
const DefaultNoteTitle = "Untitled"

// Note represents a free-form rich text note. Content is stored as
// HTML; display fields (title, preview, word count) are derived on
// read. Tags is a comma-separated free-text field, unrelated to the
// task Tag registry.
type Note struct {
	ID             uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	Title          string     `json:"title" gorm:"not null;default:'Untitled'"`
	Content        string     `json:"content" gorm:"type:text"`
	Tags           string     `json:"tags"`
	IsPinned       bool       `json:"is_pinned" gorm:"not null;default:false;index:idx_notes_user_pinned,priority:2"`
	UserID         uuid.UUID  `json:"user_id" gorm:"not null;type:uuid;index:idx_notes_user_pinned,priority:1"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// One-to-Many Relations
	Images []*NoteImage `json:"images,omitempty" gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE"`
}

// NoteImage represents an uploaded image belonging to a note. Path is
// the blob store key under the note's namespace.
type NoteImage struct {
	ID               uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	NoteID           uuid.UUID `json:"note_id" gorm:"not null;type:uuid;index"`
	Path             string    `json:"path" gorm:"not null"`
	Filename         string    `json:"filename" gorm:"not null"`
	OriginalFilename string    `json:"original_filename" gorm:"not null"`
	MimeType         string    `json:"mime_type" gorm:"not null"`
	Size             int64     `json:"size" gorm:"not null"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Foreign Key Relations
	Note *Note `json:"note,omitempty" gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE"`
}
