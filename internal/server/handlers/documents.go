package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jsonhaven/jsonhaven/internal/models"
	"github.com/jsonhaven/jsonhaven/internal/server/storage"
	"github.com/jsonhaven/jsonhaven/pkg/api"
)

// DocumentsHandler обрабатывает запросы к хранилищу документов
// Все операции защищены auth middleware
type DocumentsHandler struct {
	logger    *slog.Logger
	documents storage.DocumentStorage
}

// NewDocumentsHandler создает новый handler для документов
func NewDocumentsHandler(logger *slog.Logger, documents storage.DocumentStorage) *DocumentsHandler {
	return &DocumentsHandler{
		logger:    logger,
		documents: documents,
	}
}

// documentResponse конвертирует модель в API представление
func documentResponse(doc *models.Document) api.DocumentResponse {
	return api.DocumentResponse{
		ID:        doc.ID,
		Key:       doc.Key,
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

// Create обрабатывает POST /documents
func (h *DocumentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode create document request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Key == "" {
		sendError(h.logger, w, "key is required", http.StatusBadRequest)
		return
	}

	now := time.Now()
	doc := &models.Document{
		ID:        uuid.New().String(),
		Key:       req.Key,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.documents.CreateDocument(ctx, doc); err != nil {
		if errors.Is(err, storage.ErrDocumentKeyTaken) {
			sendError(h.logger, w, "Document key already exists", http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create document", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "document created",
		slog.String("document_id", doc.ID),
		slog.String("key", doc.Key))

	sendJSON(h.logger, w, documentResponse(doc), http.StatusCreated)
}

// List обрабатывает GET /documents
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	skip, limit, err := parseListWindow(r)
	if err != nil {
		sendError(h.logger, w, "invalid skip or limit parameter", http.StatusBadRequest)
		return
	}

	docs, err := h.documents.ListDocuments(ctx, skip, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list documents", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]api.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, documentResponse(doc))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Get обрабатывает GET /documents/{id}
func (h *DocumentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc, err := h.documents.GetDocumentByID(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrDocumentNotFound) {
			sendError(h.logger, w, "Document not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get document", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, documentResponse(doc), http.StatusOK)
}

// Update обрабатывает PUT /documents/{id}
// Поле меняется только если присутствует в теле запроса и не null
func (h *DocumentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc, err := h.documents.GetDocumentByID(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrDocumentNotFound) {
			sendError(h.logger, w, "Document not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get document", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	var req api.UpdateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode update document request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Key != nil {
		if *req.Key == "" {
			sendError(h.logger, w, "key cannot be empty", http.StatusBadRequest)
			return
		}
		doc.Key = *req.Key
	}

	if req.Content != nil {
		doc.Content = *req.Content
	}

	doc.UpdatedAt = time.Now()

	if err := h.documents.UpdateDocument(ctx, doc); err != nil {
		switch {
		case errors.Is(err, storage.ErrDocumentNotFound):
			sendError(h.logger, w, "Document not found", http.StatusNotFound)
		case errors.Is(err, storage.ErrDocumentKeyTaken):
			sendError(h.logger, w, "Document key already exists", http.StatusBadRequest)
		default:
			h.logger.ErrorContext(ctx, "failed to update document", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.logger.InfoContext(ctx, "document updated", slog.String("document_id", doc.ID))

	sendJSON(h.logger, w, documentResponse(doc), http.StatusOK)
}

// Delete обрабатывает DELETE /documents/{id}
func (h *DocumentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	docID := r.PathValue("id")

	if err := h.documents.DeleteDocument(ctx, docID); err != nil {
		if errors.Is(err, storage.ErrDocumentNotFound) {
			sendError(h.logger, w, "Document not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete document", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "document deleted", slog.String("document_id", docID))

	sendJSON(h.logger, w, api.MessageResponse{Message: "Document deleted successfully"}, http.StatusOK)
}
