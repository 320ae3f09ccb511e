package service

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/planora/planora/internal/logging"
	"github.com/planora/planora/internal/models"
	"github.com/planora/planora/internal/repository"
)

// newTestDB opens a throwaway sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planora.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	return db
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fixture bundles the repositories and services under test.
type fixture struct {
	db       *gorm.DB
	projects *ProjectService
	tasks    *TaskService
	tags     *TagService
	notes    *NoteService
	calendar *CalendarService
	board    *DashboardService

	projectRepo *repository.ProjectRepository
	taskRepo    *repository.TaskRepository
	tagRepo     *repository.TagRepository
	noteRepo    *repository.NoteRepository
	eventRepo   *repository.EventRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	log := testLogger()

	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tagRepo := repository.NewTagRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	eventRepo := repository.NewEventRepository(db)

	return &fixture{
		db:          db,
		projects:    NewProjectService(projectRepo, taskRepo, log),
		tasks:       NewTaskService(taskRepo, tagRepo, projectRepo, log),
		tags:        NewTagService(tagRepo),
		notes:       NewNoteService(noteRepo, log),
		calendar:    NewCalendarService(eventRepo, log),
		board:       NewDashboardService(projectRepo, taskRepo, noteRepo, eventRepo),
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		tagRepo:     tagRepo,
		noteRepo:    noteRepo,
		eventRepo:   eventRepo,
	}
}

// mustProject inserts a project for the owner and returns it.
func (f *fixture) mustProject(t *testing.T, ownerID uuid.UUID, name string) *models.Project {
	t.Helper()
	project, err := f.projects.Create(t.Context(), ownerID, CreateProjectInput{Name: name})
	require.NoError(t, err)
	return project
}

// mustTask inserts a task into the project and returns it.
func (f *fixture) mustTask(t *testing.T, ownerID, projectID uuid.UUID, title string) *models.Task {
	t.Helper()
	task, err := f.tasks.Create(t.Context(), ownerID, CreateTaskInput{
		Title:     title,
		ProjectID: projectID,
	})
	require.NoError(t, err)
	return task
}

func ptr[T any](v T) *T { return &v }

func date(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}
