package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL время жизни access token по умолчанию
const DefaultAccessTokenTTL = 30 * time.Minute

// tokenIssuer значение claim "iss" в выпускаемых токенах
const tokenIssuer = "jsonhaven"

// TokenService выпускает и проверяет JWT access токены (HS256)
// Токены stateless: сервер не хранит выданные токены, единственный
// механизм инвалидации — истечение срока действия
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService создает новый сервис токенов
// secret должен быть криптографически стойкой случайной строкой,
// задается конфигурацией при старте процесса
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl == 0 {
		ttl = DefaultAccessTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue выпускает подписанный токен для указанного subject (email пользователя)
// Возвращает строку токена и время жизни в секундах
// Выпуск чистый: зависит только от секрета и текущего времени,
// несколько токенов для одного subject независимо валидны до своего истечения
func (s *TokenService) Issue(subject string) (string, int64, error) {
	now := s.now()

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, int64(s.ttl.Seconds()), nil
}

// Verify проверяет токен и возвращает его subject
// Ошибки различаются для логирования и тестов:
// ErrMalformedToken, ErrBadSignature, ErrTokenExpired
// Токен с exp равным текущему моменту считается истекшим
func (s *TokenService) Verify(tokenString string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &jwt.RegisteredClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrBadSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrMalformedToken
		default:
			return "", fmt.Errorf("%w: %w", ErrMalformedToken, err)
		}
	}

	if !token.Valid || claims.Subject == "" {
		return "", ErrMalformedToken
	}

	return claims.Subject, nil
}
