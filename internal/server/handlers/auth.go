package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jsonhaven/jsonhaven/internal/auth"
	"github.com/jsonhaven/jsonhaven/internal/server/storage"
	"github.com/jsonhaven/jsonhaven/pkg/api"
)

// AuthHandler обрабатывает запросы аутентификации
type AuthHandler struct {
	logger *slog.Logger
	users  storage.UserStorage
	tokens *auth.TokenService
}

// NewAuthHandler создает новый handler для аутентификации
func NewAuthHandler(logger *slog.Logger, users storage.UserStorage, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		users:  users,
		tokens: tokens,
	}
}

// Login обрабатывает POST /token
// Принимает form-encoded поля username (email) и password,
// возвращает bearer токен доступа
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		h.logger.WarnContext(ctx, "failed to parse login form", slog.Any("error", err))
		sendError(h.logger, w, "invalid form data", http.StatusBadRequest)
		return
	}

	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	// Неизвестный email и неверный пароль дают один и тот же ответ,
	// чтобы нельзя было проверить существование аккаунта
	user, err := h.users.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, storage.ErrUserNotFound) {
			h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
			return
		}
		h.logger.WarnContext(ctx, "login failed", slog.Any("error", auth.ErrInvalidCredentials))
		h.unauthorized(w)
		return
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		h.logger.WarnContext(ctx, "login failed", slog.Any("error", auth.ErrInvalidCredentials))
		h.unauthorized(w)
		return
	}

	accessToken, _, err := h.tokens.Issue(user.Email)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue access token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username))

	resp := api.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// unauthorized отправляет единый ответ о неуспешном логине
func (h *AuthHandler) unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	sendError(h.logger, w, "Incorrect username or password", http.StatusUnauthorized)
}
