package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonhaven/jsonhaven/internal/auth"
	"github.com/jsonhaven/jsonhaven/internal/models"
	"github.com/jsonhaven/jsonhaven/internal/server/storage"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors in tests
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users       map[string]*models.User // email -> User
	createError error
	getError    error
	updateError error
	deleteError error
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[string]*models.User)}
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.users[user.Email]; exists {
		return storage.ErrEmailTaken
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return storage.ErrUsernameTaken
		}
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	user, ok := m.users[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, user := range m.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) ListUsers(ctx context.Context, skip, limit int) ([]*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	all := make([]*models.User, 0, len(m.users))
	for _, user := range m.users {
		all = append(all, user)
	}
	if skip >= len(all) {
		return []*models.User{}, nil
	}
	all = all[skip:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *mockUserStorage) UpdateUser(ctx context.Context, user *models.User) error {
	if m.updateError != nil {
		return m.updateError
	}
	for email, u := range m.users {
		if u.ID == user.ID {
			delete(m.users, email)
			m.users[user.Email] = user
			return nil
		}
	}
	return storage.ErrUserNotFound
}

func (m *mockUserStorage) DeleteUser(ctx context.Context, userID string) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	for email, u := range m.users {
		if u.ID == userID {
			delete(m.users, email)
			return nil
		}
	}
	return storage.ErrUserNotFound
}

// jsonDecode декодирует тело записанного ответа
func jsonDecode(w *httptest.ResponseRecorder, v interface{}) error {
	return json.NewDecoder(w.Body).Decode(v)
}

func testTokenService() *auth.TokenService {
	return auth.NewTokenService("test-secret", 30*time.Minute)
}

func addTestUser(t *testing.T, users *mockUserStorage, email, username, password string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	now := time.Now()
	user := &models.User{
		ID:           "user-" + username,
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	users.users[email] = user
	return user
}

func loginRequest(email, password string) *http.Request {
	form := "username=" + email + "&password=" + password
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestAuthHandler_Login_Success(t *testing.T) {
	logger := setupTestLogger()
	users := newMockUserStorage()
	tokens := testTokenService()
	addTestUser(t, users, "a@x.com", "alice", "secret123")

	handler := NewAuthHandler(logger, users, tokens)

	w := httptest.NewRecorder()
	handler.Login(w, loginRequest("a@x.com", "secret123"))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, jsonDecode(w, &resp))

	assert.Equal(t, "bearer", resp.TokenType)

	// Выданный токен проверяется и несет email как subject
	subject, err := tokens.Verify(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", subject)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	logger := setupTestLogger()
	users := newMockUserStorage()
	addTestUser(t, users, "a@x.com", "alice", "secret123")

	handler := NewAuthHandler(logger, users, testTokenService())

	w := httptest.NewRecorder()
	handler.Login(w, loginRequest("a@x.com", "wrongpass"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestAuthHandler_Login_UnknownEmail(t *testing.T) {
	logger := setupTestLogger()
	users := newMockUserStorage()

	handler := NewAuthHandler(logger, users, testTokenService())

	w := httptest.NewRecorder()
	handler.Login(w, loginRequest("missing@x.com", "secret123"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestAuthHandler_Login_FailuresIndistinguishable(t *testing.T) {
	logger := setupTestLogger()
	users := newMockUserStorage()
	addTestUser(t, users, "a@x.com", "alice", "secret123")

	handler := NewAuthHandler(logger, users, testTokenService())

	// Неверный пароль
	wrongPass := httptest.NewRecorder()
	handler.Login(wrongPass, loginRequest("a@x.com", "wrongpass"))

	// Несуществующий email
	unknownUser := httptest.NewRecorder()
	handler.Login(unknownUser, loginRequest("missing@x.com", "secret123"))

	// Ответы байт-в-байт одинаковы, чтобы не раскрывать существование аккаунта
	assert.Equal(t, wrongPass.Code, unknownUser.Code)
	assert.Equal(t, wrongPass.Body.Bytes(), unknownUser.Body.Bytes())
	assert.Equal(t, wrongPass.Header(), unknownUser.Header())
}

func TestAuthHandler_Login_InvalidForm(t *testing.T) {
	logger := setupTestLogger()
	handler := NewAuthHandler(logger, newMockUserStorage(), testTokenService())

	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader("%zz"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	handler.Login(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login_StorageError(t *testing.T) {
	logger := setupTestLogger()
	users := newMockUserStorage()
	users.getError = assert.AnError

	handler := NewAuthHandler(logger, users, testTokenService())

	w := httptest.NewRecorder()
	handler.Login(w, loginRequest("a@x.com", "secret123"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
