package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/planora/internal/models"
	"github.com/planora/planora/internal/shared"
)

func TestApplyProjectStatusChange(t *testing.T) {
	p := &models.Project{Status: models.ProjectStatusActive}

	ApplyProjectStatusChange(p, models.ProjectStatusCompleted)
	assert.Equal(t, models.ProjectStatusCompleted, p.Status)
	require.NotNil(t, p.CompletedAt)

	ApplyProjectStatusChange(p, models.ProjectStatusArchived)
	assert.Equal(t, models.ProjectStatusArchived, p.Status)
	assert.Nil(t, p.CompletedAt)
}

func TestProjectCreate_Defaults(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	first := f.mustProject(t, owner, "Alpha")
	second := f.mustProject(t, owner, "Beta")

	assert.Equal(t, models.ProjectStatusActive, first.Status)
	assert.Equal(t, models.ProjectPriorityMedium, first.Priority)
	assert.Equal(t, "#3B82F6", first.Color)
	assert.Equal(t, first.SortOrder+1, second.SortOrder)
}

func TestProjectCreate_RequiresName(t *testing.T) {
	f := newFixture(t)

	_, err := f.projects.Create(t.Context(), uuid.New(), CreateProjectInput{})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestProjectCompletionPercentage(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	project := f.mustProject(t, owner, "Alpha")

	// No tasks yet.
	view, err := f.projects.Get(t.Context(), owner, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, view.CompletionPercentage)

	a := f.mustTask(t, owner, project.ID, "a")
	f.mustTask(t, owner, project.ID, "b")
	f.mustTask(t, owner, project.ID, "c")

	_, err = f.tasks.SetStatus(t.Context(), owner, a.ID, models.TaskStatusCompleted)
	require.NoError(t, err)

	view, err = f.projects.Get(t.Context(), owner, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 33.33, view.CompletionPercentage)
}

func TestProjectUpdate_StatusSyncsCompletedAt(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	project := f.mustProject(t, owner, "Alpha")

	updated, err := f.projects.Update(t.Context(), owner, project.ID, UpdateProjectInput{
		Status: ptr(models.ProjectStatusCompleted),
	})
	require.NoError(t, err)
	assert.NotNil(t, updated.CompletedAt)

	updated, err = f.projects.Update(t.Context(), owner, project.ID, UpdateProjectInput{
		Status: ptr(models.ProjectStatusActive),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.CompletedAt)
}

func TestProjectReorder_RejectsForeignProjectWhole(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	other := uuid.New()

	mine := f.mustProject(t, owner, "Mine")
	foreign := f.mustProject(t, other, "Theirs")

	err := f.projects.Reorder(t.Context(), owner, []SortUpdate{
		{ID: mine.ID, SortOrder: 10},
		{ID: foreign.ID, SortOrder: 11},
	})
	require.ErrorIs(t, err, shared.ErrOwnershipMismatch)

	got, err := f.projectRepo.GetByID(t.Context(), owner, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.SortOrder, got.SortOrder)
}

func TestProjectReorder_AppliesAll(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	a := f.mustProject(t, owner, "A")
	b := f.mustProject(t, owner, "B")

	require.NoError(t, f.projects.Reorder(t.Context(), owner, []SortUpdate{
		{ID: a.ID, SortOrder: 2},
		{ID: b.ID, SortOrder: 1},
	}))

	list, err := f.projects.List(t.Context(), owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "B", list[0].Name)
	assert.Equal(t, "A", list[1].Name)
}

func TestProjectDelete_ForeignProjectLooksMissing(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	other := uuid.New()
	project := f.mustProject(t, other, "Theirs")

	err := f.projects.Delete(t.Context(), owner, project.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
