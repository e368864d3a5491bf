package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jsonhaven/jsonhaven/internal/auth"
	"github.com/jsonhaven/jsonhaven/internal/models"
	"github.com/jsonhaven/jsonhaven/internal/server/storage"
	"github.com/jsonhaven/jsonhaven/internal/validation"
	"github.com/jsonhaven/jsonhaven/pkg/api"
)

// UsersHandler обрабатывает запросы управления учетными записями
type UsersHandler struct {
	logger *slog.Logger
	users  storage.UserStorage
}

// NewUsersHandler создает новый handler для пользователей
func NewUsersHandler(logger *slog.Logger, users storage.UserStorage) *UsersHandler {
	return &UsersHandler{
		logger: logger,
		users:  users,
	}
}

// userResponse конвертирует модель в API представление (без хеша пароля)
func userResponse(user *models.User) api.UserResponse {
	return api.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// Register обрабатывает POST /users
// Регистрация нового пользователя, пароль хешируется до записи
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateEmail(req.Email); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.users.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrEmailTaken):
			h.logger.WarnContext(ctx, "registration with taken email")
			sendError(h.logger, w, "Email already registered", http.StatusBadRequest)
		case errors.Is(err, storage.ErrUsernameTaken):
			h.logger.WarnContext(ctx, "registration with taken username", slog.String("username", req.Username))
			sendError(h.logger, w, "Username already taken", http.StatusBadRequest)
		default:
			h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username))

	sendJSON(h.logger, w, userResponse(user), http.StatusCreated)
}

// List обрабатывает GET /users
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	skip, limit, err := parseListWindow(r)
	if err != nil {
		sendError(h.logger, w, "invalid skip or limit parameter", http.StatusBadRequest)
		return
	}

	users, err := h.users.ListUsers(ctx, skip, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list users", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]api.UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, userResponse(user))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Get обрабатывает GET /users/{id}
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.users.GetUserByID(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "User not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, userResponse(user), http.StatusOK)
}

// Update обрабатывает PUT /users/{id}
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.users.GetUserByID(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "User not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.applyUpdate(w, r, user)
}

// Delete обрабатывает DELETE /users/{id}
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.deleteUser(w, r, r.PathValue("id"))
}

// Me обрабатывает GET /users/me
// Возвращает идентичность, разрешенную auth middleware
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	sendJSON(h.logger, w, userResponse(user), http.StatusOK)
}

// UpdateMe обрабатывает PUT /users/me
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	h.applyUpdate(w, r, user)
}

// DeleteMe обрабатывает DELETE /users/me
func (h *UsersHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	h.deleteUser(w, r, user.ID)
}

// applyUpdate применяет частичное обновление к загруженному пользователю
// Поле меняется только если присутствует в теле запроса и не null;
// при наличии пароля хеш пересчитывается
func (h *UsersHandler) applyUpdate(w http.ResponseWriter, r *http.Request, user *models.User) {
	ctx := r.Context()

	var req api.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode update request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email != nil {
		if err := validation.ValidateEmail(*req.Email); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		user.Email = *req.Email
	}

	if req.Username != nil {
		if err := validation.ValidateUsername(*req.Username); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		user.Username = *req.Username
	}

	if req.Password != nil {
		if err := validation.ValidatePassword(*req.Password); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}

		passwordHash, err := auth.HashPassword(*req.Password)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
			return
		}
		user.PasswordHash = passwordHash
	}

	user.UpdatedAt = time.Now()

	if err := h.users.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrUserNotFound):
			sendError(h.logger, w, "User not found", http.StatusNotFound)
		case errors.Is(err, storage.ErrEmailTaken):
			sendError(h.logger, w, "Email already registered", http.StatusBadRequest)
		case errors.Is(err, storage.ErrUsernameTaken):
			sendError(h.logger, w, "Username already taken", http.StatusBadRequest)
		default:
			h.logger.ErrorContext(ctx, "failed to update user", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.logger.InfoContext(ctx, "user updated", slog.String("user_id", user.ID))

	sendJSON(h.logger, w, userResponse(user), http.StatusOK)
}

// deleteUser удаляет пользователя по ID
func (h *UsersHandler) deleteUser(w http.ResponseWriter, r *http.Request, userID string) {
	ctx := r.Context()

	if err := h.users.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "User not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user deleted", slog.String("user_id", userID))

	sendJSON(h.logger, w, api.MessageResponse{Message: "User deleted successfully"}, http.StatusOK)
}
