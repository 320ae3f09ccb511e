package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/planora/planora/internal/models"
	"github.com/planora/planora/internal/repository"
)

// DashboardService is the read-only fan-out over the other components.
// It issues counts and small recency lists; every invariant it relies
// on is enforced by the write paths it reads from.
type DashboardService struct {
	projects *repository.ProjectRepository
	tasks    *repository.TaskRepository
	notes    *repository.NoteRepository
	events   *repository.EventRepository
}

// NewDashboardService wires a dashboard service from the read
// repositories.
func NewDashboardService(projects *repository.ProjectRepository, tasks *repository.TaskRepository, notes *repository.NoteRepository, events *repository.EventRepository) *DashboardService {
	return &DashboardService{projects: projects, tasks: tasks, notes: notes, events: events}
}

// ProjectStats counts the owner's projects by status.
type ProjectStats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Paused    int64 `json:"paused"`
	Archived  int64 `json:"archived"`
}

// DashboardTaskStats counts the owner's tasks by status plus the
// overdue and due-soon sets.
type DashboardTaskStats struct {
	Total      int64 `json:"total"`
	Todo       int64 `json:"todo"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
	Overdue    int64 `json:"overdue"`
	DueSoon    int64 `json:"due_soon"`
}

// NoteStats counts the owner's notes.
type NoteStats struct {
	Total  int64 `json:"total"`
	Pinned int64 `json:"pinned"`
	Recent int64 `json:"recent"`
}

// EventStats counts the owner's calendar events.
type EventStats struct {
	Total    int64 `json:"total"`
	Today    int64 `json:"today"`
	ThisWeek int64 `json:"this_week"`
}

// PriorityDistribution maps priority name to count.
type PriorityDistribution map[string]int64

// CompletionRates are percentage-of-total completion figures, one
// decimal place.
type CompletionRates struct {
	Projects float64 `json:"projects"`
	Tasks    float64 `json:"tasks"`
}

// Notifications totals the attention-worthy items.
type Notifications struct {
	Total        int64 `json:"total"`
	OverdueTasks int64 `json:"overdue_tasks"`
	DueSoonTasks int64 `json:"due_soon_tasks"`
	TodayEvents  int64 `json:"today_events"`
}

// DashboardSummary is the full dashboard payload.
type DashboardSummary struct {
	ProjectStats                ProjectStats           `json:"project_stats"`
	TaskStats                   DashboardTaskStats     `json:"task_stats"`
	NoteStats                   NoteStats              `json:"note_stats"`
	EventStats                  EventStats             `json:"event_stats"`
	RecentProjects              []models.Project       `json:"recent_projects"`
	RecentTasks                 []models.Task          `json:"recent_tasks"`
	LatestNotes                 []NoteView             `json:"latest_notes"`
	UpcomingEvents              []models.CalendarEvent `json:"upcoming_events"`
	OverdueTasks                []models.Task          `json:"overdue_tasks"`
	TasksDueSoon                []models.Task          `json:"tasks_due_soon"`
	ProjectPriorityDistribution PriorityDistribution   `json:"project_priority_distribution"`
	TaskPriorityDistribution    PriorityDistribution   `json:"task_priority_distribution"`
	CompletionRates             CompletionRates        `json:"completion_rates"`
	Notifications               Notifications          `json:"notifications"`
}

// Summary assembles the owner's dashboard.
func (s *DashboardService) Summary(ctx context.Context, ownerID uuid.UUID) (*DashboardSummary, error) {
	now := time.Now()
	out := &DashboardSummary{}
	var err error

	if out.ProjectStats, err = s.projectStats(ctx, ownerID); err != nil {
		return nil, err
	}
	if out.TaskStats, err = s.taskStats(ctx, ownerID, now); err != nil {
		return nil, err
	}
	if out.NoteStats, err = s.noteStats(ctx, ownerID, now); err != nil {
		return nil, err
	}
	if out.EventStats, err = s.eventStats(ctx, ownerID, now); err != nil {
		return nil, err
	}

	if out.RecentProjects, err = s.projects.Recent(ctx, ownerID, 5); err != nil {
		return nil, err
	}
	if out.RecentTasks, err = s.tasks.Recent(ctx, ownerID, 10); err != nil {
		return nil, err
	}
	latest, err := s.notes.Latest(ctx, ownerID, 5)
	if err != nil {
		return nil, err
	}
	out.LatestNotes = make([]NoteView, 0, len(latest))
	for i := range latest {
		out.LatestNotes = append(out.LatestNotes, NewNoteView(&latest[i]))
	}
	if out.UpcomingEvents, err = s.events.Upcoming(ctx, ownerID, now, 5); err != nil {
		return nil, err
	}
	if out.OverdueTasks, err = s.tasks.Overdue(ctx, ownerID, now, 5); err != nil {
		return nil, err
	}
	if out.TasksDueSoon, err = s.tasks.DueSoon(ctx, ownerID, now, now.Add(dueSoonWindow), 5); err != nil {
		return nil, err
	}

	out.ProjectPriorityDistribution = PriorityDistribution{}
	for _, p := range []models.ProjectPriority{models.ProjectPriorityHigh, models.ProjectPriorityMedium, models.ProjectPriorityLow} {
		n, err := s.projects.CountByPriority(ctx, ownerID, p)
		if err != nil {
			return nil, err
		}
		out.ProjectPriorityDistribution[string(p)] = n
	}
	out.TaskPriorityDistribution = PriorityDistribution{}
	for _, p := range []models.TaskPriority{models.TaskPriorityUrgent, models.TaskPriorityHigh, models.TaskPriorityMedium, models.TaskPriorityLow} {
		n, err := s.tasks.CountByPriority(ctx, ownerID, p)
		if err != nil {
			return nil, err
		}
		out.TaskPriorityDistribution[string(p)] = n
	}

	out.CompletionRates = CompletionRates{
		Projects: rate(out.ProjectStats.Completed, out.ProjectStats.Total),
		Tasks:    rate(out.TaskStats.Completed, out.TaskStats.Total),
	}
	out.Notifications = Notifications{
		Total:        out.TaskStats.Overdue + out.TaskStats.DueSoon + out.EventStats.Today,
		OverdueTasks: out.TaskStats.Overdue,
		DueSoonTasks: out.TaskStats.DueSoon,
		TodayEvents:  out.EventStats.Today,
	}
	return out, nil
}

func (s *DashboardService) projectStats(ctx context.Context, ownerID uuid.UUID) (ProjectStats, error) {
	var st ProjectStats
	var err error
	if st.Total, err = s.projects.Count(ctx, ownerID); err != nil {
		return st, err
	}
	if st.Active, err = s.projects.CountByStatus(ctx, ownerID, models.ProjectStatusActive); err != nil {
		return st, err
	}
	if st.Completed, err = s.projects.CountByStatus(ctx, ownerID, models.ProjectStatusCompleted); err != nil {
		return st, err
	}
	if st.Paused, err = s.projects.CountByStatus(ctx, ownerID, models.ProjectStatusPaused); err != nil {
		return st, err
	}
	if st.Archived, err = s.projects.CountByStatus(ctx, ownerID, models.ProjectStatusArchived); err != nil {
		return st, err
	}
	return st, nil
}

func (s *DashboardService) taskStats(ctx context.Context, ownerID uuid.UUID, now time.Time) (DashboardTaskStats, error) {
	var st DashboardTaskStats
	var err error
	if st.Total, err = s.tasks.Count(ctx, ownerID); err != nil {
		return st, err
	}
	if st.Todo, err = s.tasks.CountByStatus(ctx, ownerID, models.TaskStatusTodo); err != nil {
		return st, err
	}
	if st.InProgress, err = s.tasks.CountByStatus(ctx, ownerID, models.TaskStatusInProgress); err != nil {
		return st, err
	}
	if st.Completed, err = s.tasks.CountByStatus(ctx, ownerID, models.TaskStatusCompleted); err != nil {
		return st, err
	}
	if st.Cancelled, err = s.tasks.CountByStatus(ctx, ownerID, models.TaskStatusCancelled); err != nil {
		return st, err
	}
	if st.Overdue, err = s.tasks.CountOverdue(ctx, ownerID, now); err != nil {
		return st, err
	}
	if st.DueSoon, err = s.tasks.CountDueSoon(ctx, ownerID, now, now.Add(dueSoonWindow)); err != nil {
		return st, err
	}
	return st, nil
}

func (s *DashboardService) noteStats(ctx context.Context, ownerID uuid.UUID, now time.Time) (NoteStats, error) {
	var st NoteStats
	var err error
	if st.Total, err = s.notes.Count(ctx, ownerID); err != nil {
		return st, err
	}
	if st.Pinned, err = s.notes.CountPinned(ctx, ownerID); err != nil {
		return st, err
	}
	if st.Recent, err = s.notes.CountCreatedSince(ctx, ownerID, now.AddDate(0, 0, -7)); err != nil {
		return st, err
	}
	return st, nil
}

func (s *DashboardService) eventStats(ctx context.Context, ownerID uuid.UUID, now time.Time) (EventStats, error) {
	var st EventStats
	var err error
	if st.Total, err = s.events.Count(ctx, ownerID); err != nil {
		return st, err
	}
	if st.Today, err = s.events.CountStartingBetween(ctx, ownerID, startOfDay(now), endOfDay(now)); err != nil {
		return st, err
	}
	weekStart := startOfDay(now.AddDate(0, 0, -int(now.Weekday())))
	weekEnd := endOfDay(weekStart.AddDate(0, 0, 6))
	if st.ThisWeek, err = s.events.CountStartingBetween(ctx, ownerID, weekStart, weekEnd); err != nil {
		return st, err
	}
	return st, nil
}

// rate is completed/total as a percentage with one decimal place.
func rate(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}
