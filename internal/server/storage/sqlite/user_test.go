package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonhaven/jsonhaven/internal/models"
	"github.com/jsonhaven/jsonhaven/internal/server/storage"
)

func testUser(email, username string) *models.User {
	now := time.Now()
	return &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: "$2a$10$testhash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserStorage_CreateUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := testUser("a@x.com", "alice")
	require.NoError(t, s.CreateUser(ctx, user))

	retrieved, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, retrieved.ID)
	assert.Equal(t, user.Email, retrieved.Email)
	assert.Equal(t, user.Username, retrieved.Username)
	assert.Equal(t, user.PasswordHash, retrieved.PasswordHash)
}

func TestUserStorage_CreateUser_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	require.NoError(t, s.CreateUser(ctx, testUser("a@x.com", "alice")))

	err := s.CreateUser(ctx, testUser("a@x.com", "bob"))
	assert.ErrorIs(t, err, storage.ErrEmailTaken)
}

func TestUserStorage_CreateUser_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	require.NoError(t, s.CreateUser(ctx, testUser("a@x.com", "alice")))

	err := s.CreateUser(ctx, testUser("b@x.com", "alice"))
	assert.ErrorIs(t, err, storage.ErrUsernameTaken)
}

func TestUserStorage_CreateUser_DistinctEmails(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	// Регистрация с разными email и username всегда независимо успешна
	require.NoError(t, s.CreateUser(ctx, testUser("a@x.com", "alice")))
	require.NoError(t, s.CreateUser(ctx, testUser("b@x.com", "bob")))
}

func TestUserStorage_GetUserByEmail(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := testUser("a@x.com", "alice")
	require.NoError(t, s.CreateUser(ctx, user))

	retrieved, err := s.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, retrieved.ID)

	// Сравнение email case-sensitive
	_, err = s.GetUserByEmail(ctx, "A@X.COM")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUserStorage_GetUser_NotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.GetUserByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	_, err = s.GetUserByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUserStorage_ListUsers(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	for i := 0; i < 5; i++ {
		user := testUser(fmt.Sprintf("user%d@x.com", i), fmt.Sprintf("user%d", i))
		user.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		require.NoError(t, s.CreateUser(ctx, user))
	}

	users, err := s.ListUsers(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, users, 5)

	users, err = s.ListUsers(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "user2@x.com", users[0].Email)
	assert.Equal(t, "user3@x.com", users[1].Email)

	users, err = s.ListUsers(ctx, 100, 100)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUserStorage_UpdateUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := testUser("a@x.com", "alice")
	require.NoError(t, s.CreateUser(ctx, user))

	user.Email = "new@x.com"
	user.Username = "alice2"
	user.PasswordHash = "$2a$10$otherhash"
	user.UpdatedAt = time.Now()
	require.NoError(t, s.UpdateUser(ctx, user))

	retrieved, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", retrieved.Email)
	assert.Equal(t, "alice2", retrieved.Username)
	assert.Equal(t, "$2a$10$otherhash", retrieved.PasswordHash)
}

func TestUserStorage_UpdateUser_NotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	err := s.UpdateUser(ctx, testUser("a@x.com", "alice"))
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUserStorage_UpdateUser_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	require.NoError(t, s.CreateUser(ctx, testUser("a@x.com", "alice")))

	user := testUser("b@x.com", "bob")
	require.NoError(t, s.CreateUser(ctx, user))

	user.Email = "a@x.com"
	err := s.UpdateUser(ctx, user)
	assert.ErrorIs(t, err, storage.ErrEmailTaken)
}

func TestUserStorage_DeleteUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := testUser("a@x.com", "alice")
	require.NoError(t, s.CreateUser(ctx, user))

	require.NoError(t, s.DeleteUser(ctx, user.ID))

	_, err := s.GetUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	err = s.DeleteUser(ctx, user.ID)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}
