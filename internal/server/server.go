// Package server собирает HTTP сервер: маршрутизацию, middleware
// и жизненный цикл с graceful shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jsonhaven/jsonhaven/internal/auth"
	"github.com/jsonhaven/jsonhaven/internal/config"
	"github.com/jsonhaven/jsonhaven/internal/server/handlers"
	"github.com/jsonhaven/jsonhaven/internal/server/middleware"
	"github.com/jsonhaven/jsonhaven/internal/server/storage"
)

// shutdownTimeout время на завершение активных запросов при остановке
const shutdownTimeout = 10 * time.Second

// Server представляет HTTP сервер приложения
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	limiter    *middleware.RateLimiter
}

// Storage объединяет хранилища, необходимые серверу
type Storage interface {
	storage.UserStorage
	storage.DocumentStorage
	handlers.Pinger
}

// New создает сервер со всеми маршрутами и middleware
func New(logger *slog.Logger, cfg *config.Config, store Storage, version string) *Server {
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL)

	s := &Server{
		logger:  logger,
		limiter: middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow, logger),
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.buildHandler(logger, tokens, store, version),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// buildHandler собирает маршрутизацию и цепочку middleware
func (s *Server) buildHandler(logger *slog.Logger, tokens *auth.TokenService, store Storage, version string) http.Handler {
	authHandler := handlers.NewAuthHandler(logger, store, tokens)
	usersHandler := handlers.NewUsersHandler(logger, store)
	documentsHandler := handlers.NewDocumentsHandler(logger, store)
	healthHandler := handlers.NewHealthHandler(logger, store, version)

	// Авторизация выполняется до бизнес-логики защищенных маршрутов
	protect := middleware.Auth(logger, tokens, store)
	protected := func(h http.HandlerFunc) http.Handler {
		return protect(h)
	}

	mux := http.NewServeMux()

	// Открытые маршруты
	mux.HandleFunc("GET /{$}", healthHandler.Root)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("POST /token", s.limiter.Middleware(http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /users", s.limiter.Middleware(http.HandlerFunc(usersHandler.Register)))

	// Учетные записи
	mux.Handle("GET /users", protected(usersHandler.List))
	mux.Handle("GET /users/me", protected(usersHandler.Me))
	mux.Handle("PUT /users/me", protected(usersHandler.UpdateMe))
	mux.Handle("DELETE /users/me", protected(usersHandler.DeleteMe))
	mux.Handle("GET /users/{id}", protected(usersHandler.Get))
	mux.Handle("PUT /users/{id}", protected(usersHandler.Update))
	mux.Handle("DELETE /users/{id}", protected(usersHandler.Delete))

	// Документы
	mux.Handle("POST /documents", protected(documentsHandler.Create))
	mux.Handle("GET /documents", protected(documentsHandler.List))
	mux.Handle("GET /documents/{id}", protected(documentsHandler.Get))
	mux.Handle("PUT /documents/{id}", protected(documentsHandler.Update))
	mux.Handle("DELETE /documents/{id}", protected(documentsHandler.Delete))

	var handler http.Handler = mux
	handler = middleware.LoggingWithSkip(logger, []string{"/health"})(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}

// Handler возвращает корневой http.Handler (используется в тестах)
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run запускает сервер и блокируется до отмены контекста
// При отмене выполняет graceful shutdown активных запросов
func (s *Server) Run(ctx context.Context) error {
	errC := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server starting", slog.String("address", s.httpServer.Addr))
		errC <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.limiter.Stop()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errC:
		s.limiter.Stop()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
