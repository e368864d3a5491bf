package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jsonhaven/jsonhaven/pkg/api"
)

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger  *slog.Logger
	db      Pinger
	version string
}

// NewHealthHandler создает новый handler для health check
func NewHealthHandler(logger *slog.Logger, db Pinger, version string) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		db:      db,
		version: version,
	}
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// Health обрабатывает GET /health
// Health check endpoint для мониторинга, проверяет доступность базы данных
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			h.logger.ErrorContext(ctx, "health check failed", slog.Any("error", err))
			sendJSON(h.logger, w, HealthResponse{Status: "unavailable"}, http.StatusServiceUnavailable)
			return
		}
	}

	sendJSON(h.logger, w, HealthResponse{Status: "ok", Version: h.version}, http.StatusOK)
}

// Root обрабатывает GET /
// Приветственный баннер API
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	sendJSON(h.logger, w, api.MessageResponse{Message: "Welcome to JSON Haven API"}, http.StatusOK)
}
