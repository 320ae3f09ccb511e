package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/planora/internal/models"
	"github.com/planora/planora/internal/shared"
)

func TestAutoTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
		want    string
	}{
		{
			name:  "explicit title wins",
			title: "My Note", content: "<p>whatever</p>",
			want: "My Note",
		},
		{
			name:  "placeholder title falls through to content",
			title: models.DefaultNoteTitle, content: "<p>Hello world</p>\nmore",
			want: "Hello world",
		},
		{
			name:  "empty title uses first content line",
			title: "", content: "first line\nsecond line",
			want: "first line",
		},
		{
			name:  "long first line is truncated",
			title: "", content: strings.Repeat("a", 60),
			want: strings.Repeat("a", 50) + "...",
		},
		{
			name:  "no usable content",
			title: "", content: "",
			want: "Untitled Note",
		},
		{
			name:  "markup-only content",
			title: "", content: "<br>",
			want: "Untitled Note",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AutoTitle(tt.title, tt.content))
		})
	}
}

func TestContentPreview(t *testing.T) {
	long := strings.Repeat("x", 150)
	preview := ContentPreview(long)
	assert.Equal(t, strings.Repeat("x", 100)+"...", preview)

	assert.Equal(t, "No content", ContentPreview(""))
	assert.Equal(t, "No content", ContentPreview("<p></p>"))

	// Markup is stripped and whitespace collapsed.
	assert.Equal(t, "one two three", ContentPreview("<p>one</p>\n\n  two\tthree"))
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 0, WordCount("<p></p>"))
	assert.Equal(t, 3, WordCount("<h1>one</h1> two\nthree"))
}

func TestParseTags(t *testing.T) {
	assert.Empty(t, ParseTags(""))
	assert.Equal(t, []string{"go", "web"}, ParseTags(" go , web , , "))
}

func TestStripMarkup_UnescapesEntities(t *testing.T) {
	assert.Equal(t, "a & b", StripMarkup("<p>a &amp; b</p>"))
}

func TestNoteCreate_DefaultsTitle(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	note, err := f.notes.Create(t.Context(), owner, CreateNoteInput{Content: "body text"})
	require.NoError(t, err)
	// The stored title is the placeholder; the view derives from content.
	assert.Equal(t, "body text", note.Title)
	assert.Equal(t, 2, note.WordCount)
}

func TestNoteUpdate_RederivesView(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	note, err := f.notes.Create(t.Context(), owner, CreateNoteInput{Title: "Draft", Content: "v1"})
	require.NoError(t, err)

	updated, err := f.notes.Update(t.Context(), owner, note.ID, UpdateNoteInput{
		Content: ptr("<p>rewritten body</p>"),
	})
	require.NoError(t, err)
	assert.Equal(t, "rewritten body", updated.ContentPreview)
	assert.Equal(t, 2, updated.WordCount)
}

func TestNoteTogglePin(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	note, err := f.notes.Create(t.Context(), owner, CreateNoteInput{Title: "Pin me"})
	require.NoError(t, err)

	pinned, err := f.notes.TogglePin(t.Context(), owner, note.ID)
	require.NoError(t, err)
	assert.True(t, pinned)

	pinned, err = f.notes.TogglePin(t.Context(), owner, note.ID)
	require.NoError(t, err)
	assert.False(t, pinned)
}

func TestNoteGet_StampsLastAccessed(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	note, err := f.notes.Create(t.Context(), owner, CreateNoteInput{Title: "Read me"})
	require.NoError(t, err)
	assert.Nil(t, note.LastAccessedAt)

	got, err := f.notes.Get(t.Context(), owner, note.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LastAccessedAt)
}

func TestNoteSearch_MatchesTitleContentAndTags(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	_, err := f.notes.Create(t.Context(), owner, CreateNoteInput{Title: "Groceries", Content: "milk, eggs"})
	require.NoError(t, err)
	_, err = f.notes.Create(t.Context(), owner, CreateNoteInput{Title: "Work log", Tags: "standup,meeting"})
	require.NoError(t, err)

	byTitle, err := f.notes.Search(t.Context(), owner, "grocer")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Groceries", byTitle[0].Title)

	byTag, err := f.notes.Search(t.Context(), owner, "standup")
	require.NoError(t, err)
	assert.Len(t, byTag, 1)
}

func TestNoteSearch_IgnoresCase(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	_, err := f.notes.Create(t.Context(), owner, CreateNoteInput{Title: "Groceries", Content: "milk, eggs"})
	require.NoError(t, err)

	byTitle, err := f.notes.Search(t.Context(), owner, "GROCER")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Groceries", byTitle[0].Title)

	byContent, err := f.notes.Search(t.Context(), owner, "MILK")
	require.NoError(t, err)
	assert.Len(t, byContent, 1)
}

func TestNoteDelete_ForeignNoteLooksMissing(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	other := uuid.New()

	note, err := f.notes.Create(t.Context(), other, CreateNoteInput{Title: "Private"})
	require.NoError(t, err)

	err = f.notes.Delete(t.Context(), owner, note.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
