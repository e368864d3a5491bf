package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword хеширует пароль с использованием bcrypt
// Соль генерируется автоматически, тег алгоритма и cost-фактор
// хранятся внутри самого хеша ($2a$10$...), что позволяет
// повышать work factor без изменения схемы хранения
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// CheckPassword проверяет, соответствует ли пароль сохраненному bcrypt хешу
// Сравнение внутри bcrypt выполняется за константное время
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
