package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/planora/planora/internal/server/middleware"
	"github.com/planora/planora/internal/service"
)

// CalendarHandler serves the calendar event endpoints.
type CalendarHandler struct {
	calendar *service.CalendarService
}

func NewCalendarHandler(calendar *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar}
}

// List returns the owner's events overlapping the optional start/end
// query range, shaped as calendar records.
func (h *CalendarHandler) List(c *gin.Context) {
	var start, end time.Time
	if raw := c.Query("start"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be RFC 3339"})
			return
		}
		start = t
	}
	if raw := c.Query("end"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must be RFC 3339"})
			return
		}
		end = t
	}

	records, err := h.calendar.EventsOverlapping(c.Request.Context(), middleware.Owner(c), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// CreateEventInput DTO for creating an event.
type CreateEventInput struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"start_date" binding:"required"`
	EndDate     *time.Time `json:"end_date"`
	Color       string     `json:"color"`
	AllDay      bool       `json:"all_day"`
}

func (h *CalendarHandler) Create(c *gin.Context) {
	var input CreateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.calendar.Create(c.Request.Context(), middleware.Owner(c), service.CreateEventInput{
		Title:       input.Title,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Color:       input.Color,
		AllDay:      input.AllDay,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// Get returns one event in the same record shape the list uses, so the
// multi-day flag travels with it.
func (h *CalendarHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	event, err := h.calendar.Get(c.Request.Context(), middleware.Owner(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.NewCalendarRecord(event))
}

// UpdateEventInput DTO for a partial event update.
type UpdateEventInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Color       *string    `json:"color"`
	AllDay      *bool      `json:"all_day"`
}

func (h *CalendarHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input UpdateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.calendar.Update(c.Request.Context(), middleware.Owner(c), id, service.UpdateEventInput{
		Title:       input.Title,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Color:       input.Color,
		AllDay:      input.AllDay,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// UpdateDatesInput DTO for a drag-and-drop date move.
type UpdateDatesInput struct {
	StartDate time.Time  `json:"start_date" binding:"required"`
	EndDate   *time.Time `json:"end_date"`
	AllDay    *bool      `json:"all_day"`
}

func (h *CalendarHandler) UpdateDates(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input UpdateDatesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.calendar.UpdateDates(c.Request.Context(), middleware.Owner(c), id, input.StartDate, input.EndDate, input.AllDay)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *CalendarHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.calendar.Delete(c.Request.Context(), middleware.Owner(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

// ForDate returns the owner's events touching one calendar day.
func (h *CalendarHandler) ForDate(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	events, err := h.calendar.EventsForDate(c.Request.Context(), middleware.Owner(c), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *CalendarHandler) Upcoming(c *gin.Context) {
	events, err := h.calendar.Upcoming(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}
