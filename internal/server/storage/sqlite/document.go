package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jsonhaven/jsonhaven/internal/models"
	"github.com/jsonhaven/jsonhaven/internal/server/storage"
)

// documentUniqueError переводит нарушение unique constraint в sentinel ошибку
func documentUniqueError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, "documents.key") {
		return storage.ErrDocumentKeyTaken
	}
	return nil
}

// CreateDocument creates a new document in the storage
func (s *Storage) CreateDocument(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (id, key, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		doc.ID,
		doc.Key,
		doc.Content,
		doc.CreatedAt,
		doc.UpdatedAt,
	)

	if err != nil {
		if uniqueErr := documentUniqueError(err); uniqueErr != nil {
			return uniqueErr
		}
		return fmt.Errorf("failed to insert document: %w", err)
	}

	return nil
}

// GetDocumentByID retrieves document by ID
func (s *Storage) GetDocumentByID(ctx context.Context, docID string) (*models.Document, error) {
	query := `
		SELECT id, key, content, created_at, updated_at
		FROM documents
		WHERE id = ?
	`

	doc := &models.Document{}

	err := s.db.QueryRowContext(ctx, query, docID).Scan(
		&doc.ID,
		&doc.Key,
		&doc.Content,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return doc, nil
}

// ListDocuments retrieves documents ordered by creation time with offset/limit
func (s *Storage) ListDocuments(ctx context.Context, skip, limit int) ([]*models.Document, error) {
	query := `
		SELECT id, key, content, created_at, updated_at
		FROM documents
		ORDER BY created_at, id
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := []*models.Document{}
	for rows.Next() {
		doc := &models.Document{}
		err := rows.Scan(
			&doc.ID,
			&doc.Key,
			&doc.Content,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return docs, nil
}

// UpdateDocument updates document information
func (s *Storage) UpdateDocument(ctx context.Context, doc *models.Document) error {
	query := `
		UPDATE documents
		SET key = ?, content = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		doc.Key,
		doc.Content,
		doc.UpdatedAt,
		doc.ID,
	)

	if err != nil {
		if uniqueErr := documentUniqueError(err); uniqueErr != nil {
			return uniqueErr
		}
		return fmt.Errorf("failed to update document: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrDocumentNotFound
	}

	return nil
}

// DeleteDocument deletes document by ID
func (s *Storage) DeleteDocument(ctx context.Context, docID string) error {
	query := `DELETE FROM documents WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, docID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrDocumentNotFound
	}

	return nil
}
