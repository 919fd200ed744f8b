package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/repository"
)

// UserGetter looks up a user record by ID.
// Implemented by *repository.Repository.
type UserGetter interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// UserCache is a read-through cache of user records.
// Implemented by *cache.Cache; may be nil to disable caching.
type UserCache interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	SetUser(ctx context.Context, user *model.User) error
}

// AdminConfig holds configuration for the admin role gate.
type AdminConfig struct {
	Logger *slog.Logger
	Users  UserGetter
	Cache  UserCache
}

// RequireAdmin returns a middleware that enforces admin-only access.
// Must be applied after Auth.
//
// The bootstrap admin sentinel is recognized before any store lookup:
// it is a break-glass identity with no users row behind it. Every
// other caller is resolved against the credential store; an unknown
// user is 404, a non-admin is 403.
func RequireAdmin(cfg AdminConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx := auth.AuthFromContext(r.Context())
			if authCtx == nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			if authCtx.IsBootstrapAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			user, err := cfg.lookupUser(r.Context(), authCtx.UserID)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
					return
				}
				cfg.Logger.Error("store error during admin check",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
				return
			}

			if !user.IsAdmin() {
				cfg.Logger.Warn("admin access denied",
					slog.String("user_id", authCtx.UserID),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// lookupUser resolves a user cache-first, falling back to the store.
// Cache failures degrade to a store lookup; they are never surfaced.
func (cfg AdminConfig) lookupUser(ctx context.Context, id string) (*model.User, error) {
	if cfg.Cache != nil {
		if cached, _ := cfg.Cache.GetUser(ctx, id); cached != nil {
			return cached, nil
		}
	}

	user, err := cfg.Users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cfg.Cache != nil {
		_ = cfg.Cache.SetUser(ctx, user)
	}

	return user, nil
}
