package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/taskdeck/taskdeck/internal/model"
)

const (
	// userCachePrefix is the Redis key prefix for cached user records.
	userCachePrefix = "user:id:"
	// userCacheTTL is the time-to-live for cached user records.
	// The role gate tolerates this much staleness after a role change.
	userCacheTTL = 5 * time.Minute
)

// cachedUser is the user record as stored in Redis.
// The password hash is deliberately excluded: the cache only serves
// identity and role lookups, never credential verification.
type cachedUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// GetUser retrieves a cached user record by ID.
// Returns nil on a cache miss; misses are not errors.
func (c *Cache) GetUser(ctx context.Context, id string) (*model.User, error) {
	data, err := c.client.Get(ctx, userCachePrefix+id).Bytes()
	if err != nil {
		return nil, nil //nolint:nilerr
	}

	var cached cachedUser
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.User{
		ID:    cached.ID,
		Name:  cached.Name,
		Email: cached.Email,
		Role:  cached.Role,
	}, nil
}

// SetUser caches a user record by ID.
func (c *Cache) SetUser(ctx context.Context, user *model.User) error {
	cached := cachedUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	return c.client.Set(ctx, userCachePrefix+user.ID, data, userCacheTTL).Err()
}

// DeleteUser removes a cached user record.
// Called after any user mutation so role changes take effect promptly.
func (c *Cache) DeleteUser(ctx context.Context, id string) error {
	return c.client.Del(ctx, userCachePrefix+id).Err()
}
