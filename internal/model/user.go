// Package model defines domain entities for the application.
package model

import "time"

// Role constants for user authorization.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// BootstrapAdminID is the sentinel identity of the break-glass admin.
// It is never backed by a users row; the role gate recognizes it before
// any store lookup so the system can be administered before the first
// real admin account exists.
const BootstrapAdminID = "admin"

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleUser, RoleAdmin}

// IsValidRole checks if the role is a known value.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AuthContext holds authenticated request identity.
// This is injected into the request context by the auth middleware
// from verified token claims; it never reflects a store lookup.
type AuthContext struct {
	UserID string
	Email  string
	Role   string
}

// IsBootstrapAdmin reports whether the identity is the break-glass
// admin sentinel rather than a persisted account.
func (a *AuthContext) IsBootstrapAdmin() bool {
	return a.Role == RoleAdmin && a.UserID == BootstrapAdminID
}
