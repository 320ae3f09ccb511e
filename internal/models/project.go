package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus represents the lifecycle state of a project
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusPaused    ProjectStatus = "paused"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

// Valid reports whether s is one of the known project statuses.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusPaused, ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

// ProjectPriority represents the priority of a project
type ProjectPriority string

const (
	ProjectPriorityLow    ProjectPriority = "low"
	ProjectPriorityMedium ProjectPriority = "medium"
	ProjectPriorityHigh   ProjectPriority = "high"
)

// Valid reports whether p is one of the known project priorities.
func (p ProjectPriority) Valid() bool {
	switch p {
	case ProjectPriorityLow, ProjectPriorityMedium, ProjectPriorityHigh:
		return true
	}
	return false
}

// Project represents a project owned by a single user. CompletedAt is
// non-nil exactly when Status is completed; the write path keeps the
// two in sync via service.ApplyProjectStatusChange.
type Project struct {
	ID          uuid.UUID       `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description"`
	Color       string          `json:"color" gorm:"type:varchar(7);not null;default:'#3B82F6'"`
	Status      ProjectStatus   `json:"status" gorm:"type:varchar(20);not null;default:'active';index:idx_projects_user_status,priority:2"`
	Priority    ProjectPriority `json:"priority" gorm:"type:varchar(10);not null;default:'medium'"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	DueDate     *time.Time      `json:"due_date,omitempty" gorm:"index:idx_projects_user_due,priority:2"`
	UserID      uuid.UUID       `json:"user_id" gorm:"not null;type:uuid;index:idx_projects_user_status,priority:1;index:idx_projects_user_due,priority:1"`
	SortOrder   int             `json:"sort_order" gorm:"not null;default:0"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// One-to-Many Relations
	Tasks []*Task `json:"tasks,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// IsCompleted reports whether the project has the completed status.
func (p *Project) IsCompleted() bool {
	return p.Status == ProjectStatusCompleted
}
