// Package model defines domain entities for the application.
package model

import "time"

// TaskStatus is a flat progress label on a task.
// Transitions are free-form: an update may set any value from any value.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// IsValid checks if the status is a known value.
func (s TaskStatus) IsValid() bool {
	return s == TaskStatusPending || s == TaskStatusInProgress || s == TaskStatusCompleted
}

// Task represents a unit of work assigned to a user.
// OwnerID is the single ownership key used for scoping; OwnerEmail is
// denormalized for display and kept in sync at creation time.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	LastDate    time.Time  `json:"last_date"`
	Status      TaskStatus `json:"status"`
	OwnerID     string     `json:"owner_id"`
	OwnerEmail  string     `json:"owner_email"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskWithOwner pairs a task with the resolved owner identity for
// admin listings.
type TaskWithOwner struct {
	Task
	OwnerName string `json:"owner_name"`
}
