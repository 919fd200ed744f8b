package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/taskdeck/taskdeck/internal/metrics"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/repository"
)

// Task service errors.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrInvalidStatus    = errors.New("invalid task status")
	ErrLastDateRequired = errors.New("lastDate is required")
)

// TaskStore is the task store consumed by TaskService.
// Implemented by *repository.Repository.
type TaskStore interface {
	CreateTask(ctx context.Context, task *model.Task) error
	GetTaskByID(ctx context.Context, id string) (*model.Task, error)
	ListTasksByOwner(ctx context.Context, ownerID string) ([]*model.Task, error)
	ListTasksWithOwners(ctx context.Context) ([]*model.TaskWithOwner, error)
	UpdateTask(ctx context.Context, task *model.Task) error
	DeleteTask(ctx context.Context, id string) error
}

// TaskService handles task business logic and ownership policy.
type TaskService struct {
	tasks   TaskStore
	users   UserStore
	metrics metrics.Recorder
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks TaskStore, users UserStore, recorder metrics.Recorder) *TaskService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TaskService{
		tasks:   tasks,
		users:   users,
		metrics: recorder,
	}
}

// CreateTaskInput defines input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	LastDate    time.Time
	Status      string
	// TargetEmail optionally assigns the task to another user.
	// Honored only for admin callers; ignored otherwise.
	TargetEmail string
}

// CreateTask creates a task owned by the caller. An admin caller may
// supply a target email; the email must resolve to an existing user,
// who then becomes the owner. Title and lastDate are required
// regardless of who the caller is.
func (s *TaskService) CreateTask(ctx context.Context, caller *model.AuthContext, input CreateTaskInput) (*model.Task, error) {
	if err := ValidateTitle(input.Title); err != nil {
		return nil, err
	}
	if err := ValidateDescription(input.Description); err != nil {
		return nil, err
	}
	if input.LastDate.IsZero() {
		return nil, ErrLastDateRequired
	}

	status := model.TaskStatusPending
	if input.Status != "" {
		status = model.TaskStatus(input.Status)
		if !status.IsValid() {
			return nil, ErrInvalidStatus
		}
	}

	ownerID := caller.UserID
	ownerEmail := caller.Email

	if input.TargetEmail != "" && caller.Role == model.RoleAdmin {
		target, err := s.users.GetUserByEmail(ctx, NormalizeEmail(input.TargetEmail))
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("resolve target email: %w", err)
		}
		ownerID = target.ID
		ownerEmail = target.Email
	}

	now := time.Now().UTC()
	task := &model.Task{
		ID:          ulid.Make().String(),
		Title:       input.Title,
		Description: input.Description,
		LastDate:    input.LastDate,
		Status:      status,
		OwnerID:     ownerID,
		OwnerEmail:  ownerEmail,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.metrics.IncTaskCreated()

	return task, nil
}

// ListMine retrieves the tasks owned by the caller and nothing else.
// Ownership is scoped uniformly by owner ID.
func (s *TaskService) ListMine(ctx context.Context, caller *model.AuthContext) ([]*model.Task, error) {
	tasks, err := s.tasks.ListTasksByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("list tasks by owner: %w", err)
	}
	return tasks, nil
}

// ListAll retrieves every task with owner identity resolved.
// Callers must already have passed the admin role gate.
func (s *TaskService) ListAll(ctx context.Context) ([]*model.TaskWithOwner, error) {
	tasks, err := s.tasks.ListTasksWithOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks with owners: %w", err)
	}
	return tasks, nil
}

// UpdateTaskInput defines input for updating a task.
// Nil fields are left unchanged.
type UpdateTaskInput struct {
	ID          string
	Title       *string
	Description *string
	LastDate    *time.Time
	Status      *string
}

// UpdateTask applies a partial update to a task. Status transitions
// are unrestricted among the valid labels.
func (s *TaskService) UpdateTask(ctx context.Context, input UpdateTaskInput) (*model.Task, error) {
	task, err := s.tasks.GetTaskByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task by ID: %w", err)
	}

	if input.Title != nil {
		if err := ValidateTitle(*input.Title); err != nil {
			return nil, err
		}
		task.Title = *input.Title
	}

	if input.Description != nil {
		if err := ValidateDescription(*input.Description); err != nil {
			return nil, err
		}
		task.Description = *input.Description
	}

	if input.LastDate != nil {
		if input.LastDate.IsZero() {
			return nil, ErrLastDateRequired
		}
		task.LastDate = *input.LastDate
	}

	if input.Status != nil {
		status := model.TaskStatus(*input.Status)
		if !status.IsValid() {
			return nil, ErrInvalidStatus
		}
		task.Status = status
	}

	task.UpdatedAt = time.Now().UTC()

	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.metrics.IncTaskUpdated()

	return task, nil
}

// DeleteTask removes a task by ID.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.tasks.DeleteTask(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}

	s.metrics.IncTaskDeleted()

	return nil
}
