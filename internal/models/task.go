package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Valid reports whether p is one of the known task priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// Task represents a task in the system. A task may nest one level under
// a parent task; deleting a parent removes its subtasks first.
// CompletedAt mirrors the project rule: non-nil exactly when Status is
// completed.
type Task struct {
	ID           uuid.UUID    `json:"id" gorm:"primaryKey;type:uuid"`
	Title        string       `json:"title" gorm:"not null"`
	Description  string       `json:"description"`
	Status       TaskStatus   `json:"status" gorm:"type:varchar(20);not null;default:'todo';index:idx_tasks_project_status,priority:2;index:idx_tasks_user_status,priority:2"`
	Priority     TaskPriority `json:"priority" gorm:"type:varchar(10);not null;default:'medium'"`
	StartDate    *time.Time   `json:"start_date,omitempty"`
	DueDate      *time.Time   `json:"due_date,omitempty" gorm:"index"`
	ProjectID    uuid.UUID    `json:"project_id" gorm:"not null;type:uuid;index:idx_tasks_project_status,priority:1"`
	UserID       uuid.UUID    `json:"user_id" gorm:"not null;type:uuid;index:idx_tasks_user_status,priority:1"`
	AssignedTo   *uuid.UUID   `json:"assigned_to,omitempty" gorm:"type:uuid"`
	ParentTaskID *uuid.UUID   `json:"parent_task_id,omitempty" gorm:"type:uuid;index"`
	SortOrder    int          `json:"sort_order" gorm:"not null;default:0"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Foreign Key Relations
	Project    *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	ParentTask *Task    `json:"parent_task,omitempty" gorm:"foreignKey:ParentTaskID"`

	// One-to-Many Relations
	Subtasks []*Task `json:"subtasks,omitempty" gorm:"foreignKey:ParentTaskID"`

	// Many-to-Many Relations
	Tags []*Tag `json:"tags,omitempty" gorm:"many2many:task_tags"`
}

// IsCompleted reports whether the task has the completed status.
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}
