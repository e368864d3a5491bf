package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jsonhaven/jsonhaven/internal/auth"
	"github.com/jsonhaven/jsonhaven/internal/server/handlers"
	"github.com/jsonhaven/jsonhaven/internal/server/storage"
	"github.com/jsonhaven/jsonhaven/pkg/api"
)

// Auth создает middleware для проверки bearer токена
// Проверяет подпись и срок действия токена, разрешает subject в пользователя
// и кладет его в контекст запроса. Любой сбой дает единый opaque ответ 401
// до того, как защищенный обработчик будет вызван; причина остается в логах
func Auth(logger *slog.Logger, tokens *auth.TokenService, users storage.UserStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.WarnContext(ctx, "missing Authorization header")
				unauthorized(logger, w)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.WarnContext(ctx, "invalid Authorization header format")
				unauthorized(logger, w)
				return
			}

			subject, err := tokens.Verify(parts[1])
			if err != nil {
				logger.WarnContext(ctx, "token verification failed", slog.Any("error", err))
				unauthorized(logger, w)
				return
			}

			// Разрешаем subject токена в существующего пользователя
			user, err := users.GetUserByEmail(ctx, subject)
			if err != nil {
				if errors.Is(err, storage.ErrUserNotFound) {
					logger.WarnContext(ctx, "token resolution failed", slog.Any("error", auth.ErrUnknownSubject))
					unauthorized(logger, w)
					return
				}
				logger.ErrorContext(ctx, "failed to resolve token subject", slog.Any("error", err))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			logger.DebugContext(ctx, "user authenticated",
				slog.String("user_id", user.ID),
				slog.String("username", user.Username))

			next.ServeHTTP(w, r.WithContext(handlers.ContextWithUser(ctx, user)))
		})
	}
}

// unauthorized отправляет единый для всех причин отказа ответ 401
// Внутренние различия (malformed/signature/expired/unknown subject)
// клиенту не раскрываются
func unauthorized(logger *slog.Logger, w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	resp := api.ErrorResponse{
		Error:   http.StatusText(http.StatusUnauthorized),
		Message: "Could not validate credentials",
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("failed to encode unauthorized response", slog.Any("error", err))
	}
}
