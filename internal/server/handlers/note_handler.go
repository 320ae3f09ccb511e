package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/planora/planora/internal/server/middleware"
	"github.com/planora/planora/internal/service"
)

// NoteHandler serves the note CRUD, pin and search endpoints.
type NoteHandler struct {
	notes *service.NoteService
}

func NewNoteHandler(notes *service.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.notes.List(c.Request.Context(), middleware.Owner(c), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

// CreateNoteInput DTO for creating a note. All fields are optional so
// an empty body produces a placeholder note.
type CreateNoteInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Tags     string `json:"tags"`
	IsPinned bool   `json:"is_pinned"`
}

func (h *NoteHandler) Create(c *gin.Context) {
	var input CreateNoteInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	note, err := h.notes.Create(c.Request.Context(), middleware.Owner(c), service.CreateNoteInput{
		Title:    input.Title,
		Content:  input.Content,
		Tags:     input.Tags,
		IsPinned: input.IsPinned,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

// CreateEmpty stores a blank placeholder note for instant editing.
func (h *NoteHandler) CreateEmpty(c *gin.Context) {
	note, err := h.notes.CreateEmpty(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *NoteHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	note, err := h.notes.Get(c.Request.Context(), middleware.Owner(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// UpdateNoteInput DTO for a partial note update. AutoSave trims the
// response to what a background save needs.
type UpdateNoteInput struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Tags     *string `json:"tags"`
	IsPinned *bool   `json:"is_pinned"`
	AutoSave bool    `json:"auto_save"`
}

func (h *NoteHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input UpdateNoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := h.notes.Update(c.Request.Context(), middleware.Owner(c), id, service.UpdateNoteInput{
		Title:    input.Title,
		Content:  input.Content,
		Tags:     input.Tags,
		IsPinned: input.IsPinned,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if input.AutoSave {
		c.JSON(http.StatusOK, gin.H{
			"id":         note.ID,
			"title":      note.Title,
			"updated_at": note.UpdatedAt,
		})
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *NoteHandler) TogglePin(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	pinned, err := h.notes.TogglePin(c.Request.Context(), middleware.Owner(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_pinned": pinned})
}

func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notes.Delete(c.Request.Context(), middleware.Owner(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "note deleted"})
}

func (h *NoteHandler) Search(c *gin.Context) {
	notes, err := h.notes.Search(c.Request.Context(), middleware.Owner(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}
