package service

import (
	"context"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/planora/planora/internal/logging"
	"github.com/planora/planora/internal/models"
	"github.com/planora/planora/internal/repository"
)

const (
	autoTitleLimit = 50
	previewLimit   = 100
)

var stripPolicy = bluemonday.StrictPolicy()

// StripMarkup removes all HTML from rich note content, returning the
// plain text with entities decoded.
func StripMarkup(content string) string {
	return html.UnescapeString(stripPolicy.Sanitize(content))
}

// AutoTitle derives a display title: the stored title when it is set
// and not the "Untitled" placeholder, otherwise the first line of the
// stripped content truncated to 50 characters, falling back to
// "Untitled Note".
func AutoTitle(title, content string) string {
	if title != "" && title != models.DefaultNoteTitle {
		return title
	}
	if content == "" {
		return "Untitled Note"
	}
	text := StripMarkup(content)
	firstLine, _, _ := strings.Cut(text, "\n")
	firstLine = strings.TrimSpace(firstLine)
	firstLine = truncate(firstLine, autoTitleLimit)
	if firstLine == "" {
		return "Untitled Note"
	}
	return firstLine
}

// ContentPreview derives a one-line plain-text preview: markup
// stripped, whitespace collapsed, truncated to 100 characters.
func ContentPreview(content string) string {
	if content == "" {
		return "No content"
	}
	preview := strings.Join(strings.Fields(StripMarkup(content)), " ")
	return truncate(preview, previewLimit)
}

// WordCount counts whitespace-delimited words in the stripped content.
func WordCount(content string) int {
	if content == "" {
		return 0
	}
	return len(strings.Fields(StripMarkup(content)))
}

// ParseTags splits the free-text tag field on commas, trimming each
// segment and dropping empty ones.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// NoteView is the display shape of a note: derived title, preview and
// word count alongside the raw fields.
type NoteView struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	ContentPreview string     `json:"content_preview"`
	Tags           []string   `json:"tags"`
	IsPinned       bool       `json:"is_pinned"`
	WordCount      int        `json:"word_count"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
}

// NewNoteView derives the display fields for a note.
func NewNoteView(n *models.Note) NoteView {
	return NoteView{
		ID:             n.ID,
		Title:          AutoTitle(n.Title, n.Content),
		Content:        n.Content,
		ContentPreview: ContentPreview(n.Content),
		Tags:           ParseTags(n.Tags),
		IsPinned:       n.IsPinned,
		WordCount:      WordCount(n.Content),
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
		LastAccessedAt: n.LastAccessedAt,
	}
}

// NoteService owns note persistence and the derivation of display
// fields.
type NoteService struct {
	notes *repository.NoteRepository
	log   logging.Logger
}

// NewNoteService wires a note service from its repository.
func NewNoteService(notes *repository.NoteRepository, log logging.Logger) *NoteService {
	return &NoteService{notes: notes, log: log}
}

// List returns the owner's notes as view models, optionally filtered by
// a search term over title, content and tags.
func (s *NoteService) List(ctx context.Context, ownerID uuid.UUID, search string) ([]NoteView, error) {
	notes, err := s.notes.ListByOwner(ctx, ownerID, search)
	if err != nil {
		return nil, err
	}
	views := make([]NoteView, 0, len(notes))
	for i := range notes {
		views = append(views, NewNoteView(&notes[i]))
	}
	return views, nil
}

// Get returns a single note for viewing and stamps last_accessed_at.
// List and search do not touch the access time; only opening a note
// does.
func (s *NoteService) Get(ctx context.Context, ownerID, id uuid.UUID) (*NoteView, error) {
	note, err := s.notes.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	note.LastAccessedAt = &now
	if err := s.notes.Save(ctx, note); err != nil {
		return nil, err
	}
	view := NewNoteView(note)
	return &view, nil
}

// CreateNoteInput carries the fields accepted when creating a note.
// Tags is the free-text comma-separated field.
type CreateNoteInput struct {
	Title    string
	Content  string
	Tags     string
	IsPinned bool
}

// Create stores a new note, defaulting an empty title to the
// placeholder.
func (s *NoteService) Create(ctx context.Context, ownerID uuid.UUID, in CreateNoteInput) (*NoteView, error) {
	note := &models.Note{
		Title:    in.Title,
		Content:  in.Content,
		Tags:     in.Tags,
		IsPinned: in.IsPinned,
		UserID:   ownerID,
	}
	if note.Title == "" {
		note.Title = models.DefaultNoteTitle
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "note created", "note_id", note.ID)
	view := NewNoteView(note)
	return &view, nil
}

// CreateEmpty stores a blank placeholder note and returns it.
func (s *NoteService) CreateEmpty(ctx context.Context, ownerID uuid.UUID) (*NoteView, error) {
	return s.Create(ctx, ownerID, CreateNoteInput{Title: models.DefaultNoteTitle})
}

// UpdateNoteInput carries the optional fields of a note update.
type UpdateNoteInput struct {
	Title    *string
	Content  *string
	Tags     *string
	IsPinned *bool
}

// Update applies a partial update and returns the re-derived view.
func (s *NoteService) Update(ctx context.Context, ownerID, id uuid.UUID, in UpdateNoteInput) (*NoteView, error) {
	note, err := s.notes.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		note.Title = *in.Title
		if note.Title == "" {
			note.Title = models.DefaultNoteTitle
		}
	}
	if in.Content != nil {
		note.Content = *in.Content
	}
	if in.Tags != nil {
		note.Tags = *in.Tags
	}
	if in.IsPinned != nil {
		note.IsPinned = *in.IsPinned
	}
	if err := s.notes.Save(ctx, note); err != nil {
		return nil, err
	}
	view := NewNoteView(note)
	return &view, nil
}

// TogglePin flips the pinned flag and returns the new state.
func (s *NoteService) TogglePin(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	note, err := s.notes.GetByID(ctx, ownerID, id)
	if err != nil {
		return false, err
	}
	note.IsPinned = !note.IsPinned
	if err := s.notes.Save(ctx, note); err != nil {
		return false, err
	}
	return note.IsPinned, nil
}

// Delete removes the owner's note.
func (s *NoteService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.notes.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.log.Info(ctx, "note deleted", "note_id", id)
	return nil
}

// Search returns note views matching the query. An empty query returns
// everything, same as List.
func (s *NoteService) Search(ctx context.Context, ownerID uuid.UUID, query string) ([]NoteView, error) {
	return s.List(ctx, ownerID, query)
}
