package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonhaven/jsonhaven/internal/models"
	"github.com/jsonhaven/jsonhaven/internal/server/storage"
)

func testDocument(key, content string) *models.Document {
	now := time.Now()
	return &models.Document{
		ID:        uuid.New().String(),
		Key:       key,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestDocumentStorage_CreateDocument(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	doc := testDocument("settings", `{"theme":"dark"}`)
	require.NoError(t, s.CreateDocument(ctx, doc))

	retrieved, err := s.GetDocumentByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, retrieved.ID)
	assert.Equal(t, doc.Key, retrieved.Key)
	assert.Equal(t, doc.Content, retrieved.Content)
}

func TestDocumentStorage_CreateDocument_DuplicateKey(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	require.NoError(t, s.CreateDocument(ctx, testDocument("settings", "{}")))

	err := s.CreateDocument(ctx, testDocument("settings", `{"other":true}`))
	assert.ErrorIs(t, err, storage.ErrDocumentKeyTaken)
}

func TestDocumentStorage_GetDocument_NotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.GetDocumentByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, storage.ErrDocumentNotFound)
}

func TestDocumentStorage_ListDocuments(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	for i := 0; i < 5; i++ {
		doc := testDocument(fmt.Sprintf("doc%d", i), "{}")
		doc.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		require.NoError(t, s.CreateDocument(ctx, doc))
	}

	docs, err := s.ListDocuments(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, docs, 5)

	docs, err = s.ListDocuments(ctx, 3, 10)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc3", docs[0].Key)
	assert.Equal(t, "doc4", docs[1].Key)

	docs, err = s.ListDocuments(ctx, 100, 100)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentStorage_UpdateDocument(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	doc := testDocument("settings", "{}")
	require.NoError(t, s.CreateDocument(ctx, doc))

	doc.Key = "settings-v2"
	doc.Content = `{"theme":"light"}`
	doc.UpdatedAt = time.Now()
	require.NoError(t, s.UpdateDocument(ctx, doc))

	retrieved, err := s.GetDocumentByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "settings-v2", retrieved.Key)
	assert.Equal(t, `{"theme":"light"}`, retrieved.Content)
}

func TestDocumentStorage_UpdateDocument_NotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	err := s.UpdateDocument(ctx, testDocument("missing", "{}"))
	assert.ErrorIs(t, err, storage.ErrDocumentNotFound)
}

func TestDocumentStorage_UpdateDocument_DuplicateKey(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	require.NoError(t, s.CreateDocument(ctx, testDocument("first", "{}")))

	doc := testDocument("second", "{}")
	require.NoError(t, s.CreateDocument(ctx, doc))

	doc.Key = "first"
	err := s.UpdateDocument(ctx, doc)
	assert.ErrorIs(t, err, storage.ErrDocumentKeyTaken)
}

func TestDocumentStorage_DeleteDocument(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	doc := testDocument("settings", "{}")
	require.NoError(t, s.CreateDocument(ctx, doc))

	require.NoError(t, s.DeleteDocument(ctx, doc.ID))

	_, err := s.GetDocumentByID(ctx, doc.ID)
	assert.ErrorIs(t, err, storage.ErrDocumentNotFound)

	err = s.DeleteDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, storage.ErrDocumentNotFound)
}
