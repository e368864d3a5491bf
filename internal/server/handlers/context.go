package handlers

import (
	"context"

	"github.com/jsonhaven/jsonhaven/internal/models"
)

// contextKey тип для ключей контекста
type contextKey string

// userContextKey ключ для хранения аутентифицированного пользователя в контексте
const userContextKey contextKey = "user"

// ContextWithUser возвращает контекст с разрешенной идентичностью пользователя
// Используется auth middleware после успешной проверки токена
func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext извлекает аутентифицированного пользователя из контекста запроса
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}
