// Package service provides business logic for the application.
package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/metrics"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/repository"
)

// Service errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
)

// UserStore is the credential store consumed by the services.
// Implemented by *repository.Repository.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id string) error
}

// UserInvalidator evicts cached user records after mutations.
// Implemented by *cache.Cache; may be nil.
type UserInvalidator interface {
	DeleteUser(ctx context.Context, id string) error
}

// BootstrapCredentials are the fixed operator credentials for
// POST /admin/login. When empty, admin login always rejects.
type BootstrapCredentials struct {
	Email    string
	Password string
}

// UserService handles registration, login, and account management.
type UserService struct {
	users     UserStore
	cache     UserInvalidator
	tokens    *auth.TokenService
	bootstrap BootstrapCredentials
	metrics   metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, cache UserInvalidator, tokens *auth.TokenService, bootstrap BootstrapCredentials, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		users:     users,
		cache:     cache,
		tokens:    tokens,
		bootstrap: bootstrap,
		metrics:   recorder,
	}
}

// RegisterInput defines input for registering an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates an account and issues a session token.
// Duplicate emails surface as ErrEmailExists; the store's unique index
// makes this safe under concurrent registrations.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, string, error) {
	if err := ValidateName(input.Name); err != nil {
		return nil, "", err
	}
	email := NormalizeEmail(input.Email)
	if err := ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           ulid.Make().String(),
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, "", ErrEmailExists
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, token, nil
}

// Login verifies credentials and issues a session token.
// An unknown email is ErrUserNotFound; a wrong password is
// ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLoginFailure()
			return nil, "", ErrUserNotFound
		}
		return nil, "", fmt.Errorf("get user by email: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		s.metrics.IncLoginFailure()
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncLoginSuccess()

	return user, token, nil
}

// AdminLogin verifies the fixed bootstrap credentials and issues a
// token carrying the break-glass admin identity. The identity is not
// backed by any users row; the role gate recognizes it by sentinel.
func (s *UserService) AdminLogin(ctx context.Context, email, password string) (string, error) {
	if s.bootstrap.Email == "" || s.bootstrap.Password == "" {
		return "", ErrInvalidCredentials
	}

	emailMatch := subtle.ConstantTimeCompare([]byte(email), []byte(s.bootstrap.Email)) == 1
	passwordMatch := subtle.ConstantTimeCompare([]byte(password), []byte(s.bootstrap.Password)) == 1
	if !emailMatch || !passwordMatch {
		s.metrics.IncLoginFailure()
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(model.BootstrapAdminID, s.bootstrap.Email, model.RoleAdmin)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncLoginSuccess()

	return token, nil
}

// Profile retrieves the account behind an authenticated identity.
func (s *UserService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by ID: %w", err)
	}
	return user, nil
}

// ListUsers retrieves all accounts.
func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUser retrieves a single account by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.Profile(ctx, id)
}

// UpdateUserInput defines input for updating an account.
// Nil fields are left unchanged.
type UpdateUserInput struct {
	ID       string
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

// UpdateUser applies a partial update to an account and evicts its
// cache entry so role changes take effect promptly.
func (s *UserService) UpdateUser(ctx context.Context, input UpdateUserInput) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by ID: %w", err)
	}

	if input.Name != nil {
		if err := ValidateName(*input.Name); err != nil {
			return nil, err
		}
		user.Name = *input.Name
	}

	if input.Email != nil {
		email := NormalizeEmail(*input.Email)
		if err := ValidateEmail(email); err != nil {
			return nil, err
		}
		user.Email = email
	}

	if input.Password != nil {
		if err := ValidatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if input.Role != nil {
		if !model.IsValidRole(*input.Role) {
			return nil, ErrInvalidRole
		}
		user.Role = *input.Role
	}

	user.UpdatedAt = time.Now().UTC()

	if err := s.users.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrEmailExists):
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.invalidate(ctx, user.ID)

	return user, nil
}

// DeleteUser removes an account. Tasks keep their owner back-reference.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// invalidate evicts a cached user record. Cache failures are ignored;
// the entry expires on its own TTL.
func (s *UserService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		_ = s.cache.DeleteUser(ctx, id)
	}
}
