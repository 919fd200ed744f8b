package dto

import (
	"errors"
	"time"

	"github.com/taskdeck/taskdeck/internal/model"
)

// ErrInvalidDate indicates a date field could not be parsed.
var ErrInvalidDate = errors.New("invalid date format")

// dateFormats are the accepted lastDate encodings: full RFC 3339
// timestamps or a bare calendar date.
var dateFormats = []string{time.RFC3339, "2006-01-02"}

// CreateTaskRequest represents the request body for creating a task.
// Email optionally assigns the task to another user (admin only).
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	LastDate    string `json:"lastDate"`
	Status      string `json:"status,omitempty"`
	Email       string `json:"email,omitempty"`
}

// UpdateTaskRequest represents the request body for updating a task.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	LastDate    *string `json:"lastDate,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	LastDate    time.Time `json:"last_date"`
	Status      string    `json:"status"`
	OwnerID     string    `json:"owner_id"`
	OwnerEmail  string    `json:"owner_email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskWithOwnerResponse pairs a task with its resolved owner identity.
type TaskWithOwnerResponse struct {
	TaskResponse
	OwnerName string `json:"owner_name,omitempty"`
}

// TaskListResponse represents a list of tasks.
type TaskListResponse struct {
	Data []TaskResponse `json:"data"`
}

// TaskWithOwnerListResponse represents the admin task listing.
type TaskWithOwnerListResponse struct {
	Data []TaskWithOwnerResponse `json:"data"`
}

// ParseDate parses a date string in any accepted format.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// ToTaskResponse converts a Task model to TaskResponse DTO.
func ToTaskResponse(task *model.Task) *TaskResponse {
	return &TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		LastDate:    task.LastDate,
		Status:      string(task.Status),
		OwnerID:     task.OwnerID,
		OwnerEmail:  task.OwnerEmail,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskListResponse converts a slice of Task models to TaskListResponse.
// Always serializes an array, never null.
func ToTaskListResponse(tasks []*model.Task) *TaskListResponse {
	responses := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = *ToTaskResponse(task)
	}
	return &TaskListResponse{Data: responses}
}

// ToTaskWithOwnerListResponse converts the admin listing.
func ToTaskWithOwnerListResponse(tasks []*model.TaskWithOwner) *TaskWithOwnerListResponse {
	responses := make([]TaskWithOwnerResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = TaskWithOwnerResponse{
			TaskResponse: *ToTaskResponse(&task.Task),
			OwnerName:    task.OwnerName,
		}
	}
	return &TaskWithOwnerListResponse{Data: responses}
}
