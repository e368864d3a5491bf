package api

import "time"

// CreateUserRequest представляет запрос на регистрацию нового пользователя
type CreateUserRequest struct {
	Email    string `json:"email"`    // уникальный email
	Username string `json:"username"` // уникальный username
	Password string `json:"password"` // пароль в открытом виде, хешируется на сервере
}

// UpdateUserRequest представляет запрос на частичное обновление пользователя
// Поле применяется только если присутствует в JSON и не равно null;
// явный null трактуется так же, как отсутствие поля
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty"`
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"` // при наличии хеш пересчитывается
}

// UserResponse представляет пользователя в ответах API
// Хеш пароля никогда не сериализуется
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
