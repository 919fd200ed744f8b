// Package testutil provides helpers and fakes shared across tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/repository"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 730731

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops and recreates a numbered migration for tests.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool, name string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	downPath := filepath.Join(root, "migrations", name+".down.sql")
	upPath := filepath.Join(root, "migrations", name+".up.sql")

	downSQL, err := os.ReadFile(downPath)
	if err != nil {
		return fmt.Errorf("read down migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
		return fmt.Errorf("apply down migration: %w", err)
	}

	upSQL, err := os.ReadFile(upPath)
	if err != nil {
		return fmt.Errorf("read up migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		return fmt.Errorf("apply up migration: %w", err)
	}

	return nil
}

// ResetUsersSchema drops and recreates the users schema for tests.
func ResetUsersSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return ResetSchema(ctx, pool, "000001_users")
}

// ResetTasksSchema drops and recreates the tasks schema for tests.
func ResetTasksSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return ResetSchema(ctx, pool, "000002_tasks")
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	now := time.Now().UTC()
	return &model.User{
		ID:           fmt.Sprintf("user-%d", now.UnixNano()),
		Name:         "Test User",
		Email:        email,
		PasswordHash: fmt.Sprintf("hash-%d", now.UnixNano()),
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTestAdmin creates a test user holding the admin role.
func NewTestAdmin(t testing.TB, email string) *model.User {
	t.Helper()
	user := NewTestUser(t, email)
	user.Role = model.RoleAdmin
	return user
}

// NewTestTask creates a test task owned by the given user.
func NewTestTask(t testing.TB, owner *model.User, title string) *model.Task {
	t.Helper()
	now := time.Now().UTC()
	return &model.Task{
		ID:         fmt.Sprintf("task-%d", now.UnixNano()),
		Title:      title,
		LastDate:   now.Add(72 * time.Hour),
		Status:     model.TaskStatusPending,
		OwnerID:    owner.ID,
		OwnerEmail: owner.Email,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// ============================================================================
// In-memory store fakes
// ============================================================================

// FakeUserStore is an in-memory UserStore for unit tests.
type FakeUserStore struct {
	mu    sync.Mutex
	users map[string]*model.User
}

// NewFakeUserStore creates an empty in-memory user store.
func NewFakeUserStore() *FakeUserStore {
	return &FakeUserStore{users: make(map[string]*model.User)}
}

// Seed adds users directly, bypassing uniqueness checks.
func (f *FakeUserStore) Seed(users ...*model.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range users {
		cp := *u
		f.users[u.ID] = &cp
	}
}

func (f *FakeUserStore) CreateUser(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *FakeUserStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (f *FakeUserStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *FakeUserStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]*model.User, 0, len(f.users))
	for _, user := range f.users {
		cp := *user
		users = append(users, &cp)
	}
	return users, nil
}

func (f *FakeUserStore) UpdateUser(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	for id, existing := range f.users {
		if id != user.ID && existing.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *FakeUserStore) DeleteUser(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

// FakeTaskStore is an in-memory TaskStore for unit tests.
type FakeTaskStore struct {
	mu    sync.Mutex
	tasks map[string]*model.Task
	users *FakeUserStore
}

// NewFakeTaskStore creates an empty in-memory task store.
// The user store, when non-nil, resolves owner names for listings.
func NewFakeTaskStore(users *FakeUserStore) *FakeTaskStore {
	return &FakeTaskStore{
		tasks: make(map[string]*model.Task),
		users: users,
	}
}

func (f *FakeTaskStore) CreateTask(ctx context.Context, task *model.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *task
	f.tasks[task.ID] = &cp
	return nil
}

func (f *FakeTaskStore) GetTaskByID(ctx context.Context, id string) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	cp := *task
	return &cp, nil
}

func (f *FakeTaskStore) ListTasksByOwner(ctx context.Context, ownerID string) ([]*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tasks []*model.Task
	for _, task := range f.tasks {
		if task.OwnerID == ownerID {
			cp := *task
			tasks = append(tasks, &cp)
		}
	}
	return tasks, nil
}

func (f *FakeTaskStore) ListTasksWithOwners(ctx context.Context) ([]*model.TaskWithOwner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tasks []*model.TaskWithOwner
	for _, task := range f.tasks {
		entry := &model.TaskWithOwner{Task: *task}
		if f.users != nil {
			if owner, err := f.users.GetUserByID(ctx, task.OwnerID); err == nil {
				entry.OwnerName = owner.Name
			}
		}
		tasks = append(tasks, entry)
	}
	return tasks, nil
}

func (f *FakeTaskStore) UpdateTask(ctx context.Context, task *model.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[task.ID]; !ok {
		return repository.ErrTaskNotFound
	}
	cp := *task
	f.tasks[task.ID] = &cp
	return nil
}

func (f *FakeTaskStore) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		return repository.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}
