package storage

import (
	"context"

	"github.com/jsonhaven/jsonhaven/internal/models"
)

// UserStorage defines interface for user account persistence
// Uniqueness of email and username is enforced by the store itself
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrEmailTaken or ErrUsernameTaken on unique constraint violation
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves user by email (case-sensitive match)
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// ListUsers retrieves users ordered by creation time with offset/limit
	// Returns empty slice if no users fall into the window
	ListUsers(ctx context.Context, skip, limit int) ([]*models.User, error)

	// UpdateUser updates user information
	// Returns ErrUserNotFound if user doesn't exist,
	// ErrEmailTaken or ErrUsernameTaken on unique constraint violation
	UpdateUser(ctx context.Context, user *models.User) error

	// DeleteUser deletes user by ID
	// Returns ErrUserNotFound if user doesn't exist
	DeleteUser(ctx context.Context, userID string) error
}
