package storage

import (
	"context"

	"github.com/jsonhaven/jsonhaven/internal/models"
)

// DocumentStorage defines interface for document persistence
// Uniqueness of the document key is enforced by the store itself
type DocumentStorage interface {
	// CreateDocument creates a new document in the storage
	// Returns ErrDocumentKeyTaken on unique constraint violation
	CreateDocument(ctx context.Context, doc *models.Document) error

	// GetDocumentByID retrieves document by ID
	// Returns ErrDocumentNotFound if document doesn't exist
	GetDocumentByID(ctx context.Context, docID string) (*models.Document, error)

	// ListDocuments retrieves documents ordered by creation time with offset/limit
	// Returns empty slice if no documents fall into the window
	ListDocuments(ctx context.Context, skip, limit int) ([]*models.Document, error)

	// UpdateDocument updates document information
	// Returns ErrDocumentNotFound if document doesn't exist,
	// ErrDocumentKeyTaken on unique constraint violation
	UpdateDocument(ctx context.Context, doc *models.Document) error

	// DeleteDocument deletes document by ID
	// Returns ErrDocumentNotFound if document doesn't exist
	DeleteDocument(ctx context.Context, docID string) error
}
