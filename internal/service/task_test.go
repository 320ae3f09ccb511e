package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/planora/internal/models"
	"github.com/planora/planora/internal/shared"
)

func TestApplyStatusChange(t *testing.T) {
	task := &models.Task{Status: models.TaskStatusTodo}

	ApplyStatusChange(task, models.TaskStatusCompleted)
	assert.Equal(t, models.TaskStatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)

	ApplyStatusChange(task, models.TaskStatusInProgress)
	assert.Equal(t, models.TaskStatusInProgress, task.Status)
	assert.Nil(t, task.CompletedAt)

	// Transitions between unresolved states never touch the stamp.
	ApplyStatusChange(task, models.TaskStatusTodo)
	assert.Nil(t, task.CompletedAt)
}

func TestApplyStatusChange_SameStatusIsNoop(t *testing.T) {
	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	task := &models.Task{Status: models.TaskStatusCompleted, CompletedAt: &stamp}

	ApplyStatusChange(task, models.TaskStatusCompleted)

	assert.Equal(t, models.TaskStatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, stamp, *task.CompletedAt)
}

func TestCompletionPercentage(t *testing.T) {
	todo := &models.Task{Status: models.TaskStatusTodo}
	done := &models.Task{Status: models.TaskStatusCompleted}

	assert.Equal(t, 0.0, CompletionPercentage(todo, nil))
	assert.Equal(t, 100.0, CompletionPercentage(done, nil))

	subtasks := []models.Task{
		{Status: models.TaskStatusCompleted},
		{Status: models.TaskStatusTodo},
		{Status: models.TaskStatusInProgress},
	}
	assert.Equal(t, 33.33, CompletionPercentage(todo, subtasks))
}

func TestCreateTask_Defaults(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	project := f.mustProject(t, owner, "Inbox")

	first := f.mustTask(t, owner, project.ID, "first")
	second := f.mustTask(t, owner, project.ID, "second")

	assert.Equal(t, models.TaskStatusTodo, first.Status)
	assert.Equal(t, models.TaskPriorityMedium, first.Priority)
	assert.Nil(t, first.CompletedAt)
	assert.Equal(t, first.SortOrder+1, second.SortOrder)
}

func TestCreateTask_CompletedOnCreate(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	project := f.mustProject(t, owner, "Inbox")

	task, err := f.tasks.Create(t.Context(), owner, CreateTaskInput{
		Title:     "done already",
		ProjectID: project.ID,
		Status:    models.TaskStatusCompleted,
	})
	require.NoError(t, err)
	assert.NotNil(t, task.CompletedAt)
}

func TestCreateTask_ForeignProjectFailsValidation(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	other := uuid.New()
	project := f.mustProject(t, other, "Theirs")

	_, err := f.tasks.Create(t.Context(), owner, CreateTaskInput{
		Title:     "sneaky",
		ProjectID: project.ID,
	})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestToggleCompletion(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	project := f.mustProject(t, owner, "Inbox")
	task := f.mustTask(t, owner, project.ID, "flip me")

	change, err := f.tasks.ToggleCompletion(t.Context(), owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, change.Status)
	assert.Equal(t, models.TaskStatusTodo, change.OldStatus)
	assert.NotNil(t, change.CompletedAt)

	change, err = f.tasks.ToggleCompletion(t.Context(), owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusTodo, change.Status)
	assert.Nil(t, change.CompletedAt)
}

func TestBulkSetStatus_RejectsForeignTaskWhole(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	other := uuid.New()
	mine := f.mustProject(t, owner, "Mine")
	theirs := f.mustProject(t, other, "Theirs")

	a := f.mustTask(t, owner, mine.ID, "a")
	b := f.mustTask(t, owner, mine.ID, "b")
	foreign := f.mustTask(t, other, theirs.ID, "not yours")

	_, err := f.tasks.BulkSetStatus(t.Context(), owner,
		[]uuid.UUID{a.ID, b.ID, foreign.ID}, models.TaskStatusCompleted)
	require.ErrorIs(t, err, shared.ErrOwnershipMismatch)

	// Nothing from the batch may have been applied.
	got, err := f.taskRepo.GetByID(t.Context(), owner, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusTodo, got.Status)
	got, err = f.taskRepo.GetByID(t.Context(), owner, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusTodo, got.Status)
}

func TestBulkSetStatus_AppliesAll(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	project := f.mustProject(t, owner, "Mine")
	a := f.mustTask(t, owner, project.ID, "a")
	b := f.mustTask(t, owner, project.ID, "b")

	changes, err := f.tasks.BulkSetStatus(t.Context(), owner,
		[]uuid.UUID{a.ID, b.ID}, models.TaskStatusInProgress)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	for _, change := range changes {
		assert.Equal(t, models.TaskStatusInProgress, change.Status)
		assert.Equal(t, models.TaskStatusTodo, change.OldStatus)
	}
}

func TestReorder_RejectsForeignTaskWhole(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	other := uuid.New()
	mine := f.mustProject(t, owner, "Mine")
	theirs := f.mustProject(t, other, "Theirs")

	a := f.mustTask(t, owner, mine.ID, "a")
	foreign := f.mustTask(t, other, theirs.ID, "not yours")

	err := f.tasks.Reorder(t.Context(), owner, []SortUpdate{
		{ID: a.ID, SortOrder: 42},
		{ID: foreign.ID, SortOrder: 43},
	})
	require.ErrorIs(t, err, shared.ErrOwnershipMismatch)

	got, err := f.taskRepo.GetByID(t.Context(), owner, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.SortOrder, got.SortOrder)
}

func TestDeleteCascade(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	project := f.mustProject(t, owner, "Inbox")

	parent := f.mustTask(t, owner, project.ID, "parent")
	child, err := f.tasks.Create(t.Context(), owner, CreateTaskInput{
		Title:        "child",
		ProjectID:    project.ID,
		ParentTaskID: &parent.ID,
	})
	require.NoError(t, err)
	grandchild, err := f.tasks.Create(t.Context(), owner, CreateTaskInput{
		Title:        "grandchild",
		ProjectID:    project.ID,
		ParentTaskID: &child.ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.tasks.Delete(t.Context(), owner, parent.ID))

	for _, id := range []uuid.UUID{parent.ID, child.ID, grandchild.ID} {
		_, err := f.taskRepo.GetByID(t.Context(), owner, id)
		assert.True(t, errors.Is(err, shared.ErrNotFound), "task %s should be gone", id)
	}
}

func TestCreateTask_NewTagsAreSluggedAndDeduped(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	project := f.mustProject(t, owner, "Inbox")

	task, err := f.tasks.Create(t.Context(), owner, CreateTaskInput{
		Title:     "tagged",
		ProjectID: project.ID,
		NewTags:   []string{" Work ", "work"},
	})
	require.NoError(t, err)

	got, err := f.taskRepo.GetByID(t.Context(), owner, task.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "Work", got.Tags[0].Name)
	assert.Equal(t, "work", got.Tags[0].Slug)

	// Reusing the name on another task must not create a second tag.
	_, err = f.tasks.Create(t.Context(), owner, CreateTaskInput{
		Title:     "also tagged",
		ProjectID: project.ID,
		NewTags:   []string{"Work"},
	})
	require.NoError(t, err)

	tags, err := f.tags.List(t.Context(), owner)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestUpdateTask_StatusChangeSyncsCompletedAt(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	project := f.mustProject(t, owner, "Inbox")
	task := f.mustTask(t, owner, project.ID, "work item")

	updated, err := f.tasks.Update(t.Context(), owner, task.ID, UpdateTaskInput{
		Status: ptr(models.TaskStatusCompleted),
	})
	require.NoError(t, err)
	assert.NotNil(t, updated.CompletedAt)

	updated, err = f.tasks.Update(t.Context(), owner, task.ID, UpdateTaskInput{
		Status: ptr(models.TaskStatusTodo),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.CompletedAt)
}

func TestTaskGet_ForeignTaskLooksMissing(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	other := uuid.New()
	theirs := f.mustProject(t, other, "Theirs")
	task := f.mustTask(t, other, theirs.ID, "hidden")

	_, err := f.tasks.Get(t.Context(), owner, task.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
