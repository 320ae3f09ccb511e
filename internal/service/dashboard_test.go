package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/planora/internal/models"
)

func TestDashboardSummary(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	now := time.Now()

	active := f.mustProject(t, owner, "Active")
	_, err := f.projects.Create(t.Context(), owner, CreateProjectInput{
		Name:   "Shipped",
		Status: models.ProjectStatusCompleted,
	})
	require.NoError(t, err)

	f.mustTask(t, owner, active.ID, "open work")
	closed := f.mustTask(t, owner, active.ID, "closed work")
	_, err = f.tasks.SetStatus(t.Context(), owner, closed.ID, models.TaskStatusCompleted)
	require.NoError(t, err)

	// An unresolved task a day past due and one due tomorrow.
	_, err = f.tasks.Create(t.Context(), owner, CreateTaskInput{
		Title:     "late",
		ProjectID: active.ID,
		DueDate:   ptr(now.Add(-24 * time.Hour)),
	})
	require.NoError(t, err)
	_, err = f.tasks.Create(t.Context(), owner, CreateTaskInput{
		Title:     "imminent",
		ProjectID: active.ID,
		DueDate:   ptr(now.Add(24 * time.Hour)),
	})
	require.NoError(t, err)

	_, err = f.notes.Create(t.Context(), owner, CreateNoteInput{Title: "Pinned", IsPinned: true})
	require.NoError(t, err)
	_, err = f.notes.Create(t.Context(), owner, CreateNoteInput{Title: "Plain"})
	require.NoError(t, err)

	_, err = f.calendar.Create(t.Context(), owner, CreateEventInput{
		Title:     "standup",
		StartDate: now.Add(2 * time.Hour),
	})
	require.NoError(t, err)

	summary, err := f.board.Summary(t.Context(), owner)
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.ProjectStats.Total)
	assert.Equal(t, int64(1), summary.ProjectStats.Active)
	assert.Equal(t, int64(1), summary.ProjectStats.Completed)

	assert.Equal(t, int64(4), summary.TaskStats.Total)
	assert.Equal(t, int64(1), summary.TaskStats.Completed)
	assert.Equal(t, int64(1), summary.TaskStats.Overdue)
	assert.Equal(t, int64(1), summary.TaskStats.DueSoon)

	assert.Equal(t, int64(2), summary.NoteStats.Total)
	assert.Equal(t, int64(1), summary.NoteStats.Pinned)

	assert.Equal(t, int64(1), summary.EventStats.Total)

	assert.Len(t, summary.RecentProjects, 2)
	assert.Len(t, summary.LatestNotes, 2)
	require.Len(t, summary.OverdueTasks, 1)
	assert.Equal(t, "late", summary.OverdueTasks[0].Title)
	require.Len(t, summary.TasksDueSoon, 1)
	assert.Equal(t, "imminent", summary.TasksDueSoon[0].Title)

	// One decimal place on the rates.
	assert.Equal(t, 50.0, summary.CompletionRates.Projects)
	assert.Equal(t, 25.0, summary.CompletionRates.Tasks)

	assert.Equal(t, int64(4), summary.TaskPriorityDistribution[string(models.TaskPriorityMedium)])

	assert.Equal(t, summary.TaskStats.Overdue+summary.TaskStats.DueSoon+summary.EventStats.Today,
		summary.Notifications.Total)
}

func TestDashboardSummary_EmptyOwner(t *testing.T) {
	f := newFixture(t)

	summary, err := f.board.Summary(t.Context(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, int64(0), summary.ProjectStats.Total)
	assert.Equal(t, int64(0), summary.TaskStats.Total)
	assert.Equal(t, 0.0, summary.CompletionRates.Projects)
	assert.Equal(t, 0.0, summary.CompletionRates.Tasks)
	assert.Empty(t, summary.RecentProjects)
	assert.Empty(t, summary.Notifications.Total)
}
