package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taskdeck/taskdeck/internal/model"
)

// ErrTaskNotFound indicates no task matched the given ID.
var ErrTaskNotFound = errors.New("task not found")

// CreateTask inserts a new task into the database.
func (r *Repository) CreateTask(ctx context.Context, task *model.Task) error {
	query := `
		INSERT INTO tasks (id, title, description, last_date, status, owner_id, owner_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.LastDate,
		task.Status,
		task.OwnerID,
		task.OwnerEmail,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetTaskByID retrieves a task by its ID.
func (r *Repository) GetTaskByID(ctx context.Context, id string) (*model.Task, error) {
	query := `
		SELECT id, title, description, last_date, status, owner_id, owner_email, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`

	var task model.Task
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.LastDate,
		&task.Status,
		&task.OwnerID,
		&task.OwnerEmail,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task by ID: %w", err)
	}

	return &task, nil
}

// ListTasksByOwner retrieves all tasks owned by the given user ID.
func (r *Repository) ListTasksByOwner(ctx context.Context, ownerID string) ([]*model.Task, error) {
	query := `
		SELECT id, title, description, last_date, status, owner_id, owner_email, created_at, updated_at
		FROM tasks
		WHERE owner_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks by owner: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// ListTasksWithOwners retrieves every task joined with its owner's
// identity for admin listings. Tasks whose owner record has been
// deleted are still returned; the owner name is empty.
func (r *Repository) ListTasksWithOwners(ctx context.Context) ([]*model.TaskWithOwner, error) {
	query := `
		SELECT t.id, t.title, t.description, t.last_date, t.status, t.owner_id, t.owner_email,
		       t.created_at, t.updated_at, COALESCE(u.name, '')
		FROM tasks t
		LEFT JOIN users u ON u.id = t.owner_id
		ORDER BY t.created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks with owners: %w", err)
	}
	defer rows.Close()

	var tasks []*model.TaskWithOwner
	for rows.Next() {
		var t model.TaskWithOwner
		if err := rows.Scan(
			&t.ID,
			&t.Title,
			&t.Description,
			&t.LastDate,
			&t.Status,
			&t.OwnerID,
			&t.OwnerEmail,
			&t.CreatedAt,
			&t.UpdatedAt,
			&t.OwnerName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task with owner: %w", err)
		}
		tasks = append(tasks, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// UpdateTask updates a task's mutable fields.
func (r *Repository) UpdateTask(ctx context.Context, task *model.Task) error {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, last_date = $4, status = $5, updated_at = $6
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.LastDate,
		task.Status,
		task.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// DeleteTask removes a task by ID.
func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// scanTasks collects task rows into a slice.
func scanTasks(rows pgx.Rows) ([]*model.Task, error) {
	var tasks []*model.Task
	for rows.Next() {
		var task model.Task
		if err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.LastDate,
			&task.Status,
			&task.OwnerID,
			&task.OwnerEmail,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}
