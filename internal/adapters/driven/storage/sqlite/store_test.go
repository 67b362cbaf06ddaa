package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "retrieva-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func TestNewStoreCreatesDatabase(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := os.Stat(store.Path())
	assert.NoError(t, err)
	assert.Equal(t, "chunks.db", filepath.Base(store.Path()))
}

func TestMigrationsAreIdempotent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "retrieva-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopen against the same file; migrations must not re-apply.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestInsertAndListByDocument(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	embeddings := [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for i, emb := range embeddings {
		chunk, err := store.Insert(ctx, domain.Chunk{
			DocumentID: "doc-1",
			ChunkIndex: i,
			Content:    "chunk",
			Embedding:  emb,
			Metadata:   map[string]any{"source": "test"},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, chunk.ID)
	}

	chunks, err := store.ListByDocument(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, i, c.ChunkIndex)
		assert.Equal(t, embeddings[i], c.Embedding)
		assert.Equal(t, "test", c.Metadata["source"])
	}
}

func TestInsertRejectsDuplicateChunkIndex(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.Insert(ctx, domain.Chunk{DocumentID: "doc-1", ChunkIndex: 0, Content: "first"})
	require.NoError(t, err)

	// Same (document, index) pair must not produce a second row.
	_, err = store.Insert(ctx, domain.Chunk{DocumentID: "doc-1", ChunkIndex: 0, Content: "second"})
	require.Error(t, err)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// A different document may reuse the index.
	_, err = store.Insert(ctx, domain.Chunk{DocumentID: "doc-2", ChunkIndex: 0})
	assert.NoError(t, err)
}

func TestEmbeddingRoundTripPrecision(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	// Values that expose float mangling if the blob codec is wrong.
	embedding := []float32{0.1, -0.25, 3.14159, 1e-7, -1e7}
	_, err := store.Insert(ctx, domain.Chunk{
		DocumentID: "doc-1",
		Embedding:  embedding,
	})
	require.NoError(t, err)

	chunks, err := store.ListByDocument(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, embedding, chunks[0].Embedding)
}

func TestAllChunksInsertionOrder(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	// Interleave two documents; AllChunks must keep global insertion order.
	_, err := store.Insert(ctx, domain.Chunk{DocumentID: "doc-1", ChunkIndex: 0, Content: "a"})
	require.NoError(t, err)
	_, err = store.Insert(ctx, domain.Chunk{DocumentID: "doc-2", ChunkIndex: 0, Content: "b"})
	require.NoError(t, err)
	_, err = store.Insert(ctx, domain.Chunk{DocumentID: "doc-1", ChunkIndex: 1, Content: "c"})
	require.NoError(t, err)

	chunks, err := store.AllChunks(ctx, "")
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "a", chunks[0].Content)
	assert.Equal(t, "b", chunks[1].Content)
	assert.Equal(t, "c", chunks[2].Content)

	filtered, err := store.AllChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, "a", filtered[0].Content)
	assert.Equal(t, "c", filtered[1].Content)
}

func TestDeleteByDocumentIsIdempotent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.Insert(ctx, domain.Chunk{DocumentID: "doc-1"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteByDocument(ctx, "doc-1"))
	require.NoError(t, store.DeleteByDocument(ctx, "doc-1"))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCountByDocument(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := store.Insert(ctx, domain.Chunk{DocumentID: "doc-1", ChunkIndex: i})
		require.NoError(t, err)
	}
	_, err := store.Insert(ctx, domain.Chunk{DocumentID: "doc-2"})
	require.NoError(t, err)

	count, err := store.CountByDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	total, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestSaveDocumentUpsert(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	doc := &domain.Document{ID: "doc-1", Title: "First", URI: "/tmp/a.txt"}
	require.NoError(t, store.SaveDocument(ctx, doc))
	createdAt := doc.CreatedAt

	doc.Title = "Second"
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Second", got.Title)
	assert.Equal(t, createdAt.Unix(), got.CreatedAt.Unix())
}

func TestGetDocumentNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentMetadataRoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	doc := &domain.Document{
		ID:       "doc-1",
		Metadata: map[string]any{"lang": "en", "pages": float64(12)},
	}
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "en", got.Metadata["lang"])
	assert.Equal(t, float64(12), got.Metadata["pages"])
}

func TestDeleteDocumentRemovesChunks(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1"}))
	_, err := store.Insert(ctx, domain.Chunk{DocumentID: "doc-1"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	_, err = store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDeleteAll(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1"}))
	_, err := store.Insert(ctx, domain.Chunk{DocumentID: "doc-1"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteAll(ctx))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
