package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/retrieva-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

// seedChunks inserts chunks with the given embeddings in order, all under
// the same document unless documentIDs is provided.
func seedChunks(t *testing.T, store *memory.ChunkStore, embeddings [][]float32, documentIDs ...string) {
	t.Helper()
	ctx := context.Background()
	for i, emb := range embeddings {
		docID := "doc-1"
		if len(documentIDs) > i {
			docID = documentIDs[i]
		}
		_, err := store.Insert(ctx, domain.Chunk{
			DocumentID: docID,
			ChunkIndex: i,
			Content:    "chunk " + string(rune('a'+i)),
			Embedding:  emb,
		})
		require.NoError(t, err)
	}
}

func TestQueryVectorRanksBySimilarity(t *testing.T) {
	store := memory.NewChunkStore()
	seedChunks(t, store, [][]float32{
		{0, 1, 0}, // orthogonal
		{1, 0, 0}, // exact match
		{1, 1, 0}, // partial match
	})
	svc := NewQueryService(store, nil)

	results, err := svc.QueryVector(context.Background(), []float32{1, 0, 0}, domain.QueryOptions{K: 3})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 1, results[0].ChunkIndex)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-9)
	assert.Equal(t, 2, results[1].ChunkIndex)
	assert.Equal(t, 0, results[2].ChunkIndex)
	assert.InDelta(t, 0.0, results[2].Similarity, 1e-9)
}

func TestQueryVectorTieKeepsInsertionOrder(t *testing.T) {
	store := memory.NewChunkStore()
	seedChunks(t, store, [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{2, 0, 0}, // same direction as chunk 0, identical similarity
	})
	svc := NewQueryService(store, nil)

	results, err := svc.QueryVector(context.Background(), []float32{1, 0, 0}, domain.QueryOptions{K: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 0, results[0].ChunkIndex)
	assert.Equal(t, 2, results[1].ChunkIndex)
	assert.Equal(t, results[0].Similarity, results[1].Similarity)
}

func TestQueryVectorDefaultTopK(t *testing.T) {
	store := memory.NewChunkStore()
	embeddings := make([][]float32, 8)
	for i := range embeddings {
		embeddings[i] = []float32{1, float32(i)}
	}
	seedChunks(t, store, embeddings)
	svc := NewQueryService(store, nil)

	results, err := svc.QueryVector(context.Background(), []float32{1, 0}, domain.QueryOptions{})
	require.NoError(t, err)
	assert.Len(t, results, DefaultTopK)
}

func TestQueryVectorKLargerThanStore(t *testing.T) {
	store := memory.NewChunkStore()
	seedChunks(t, store, [][]float32{{1, 0}, {0, 1}})
	svc := NewQueryService(store, nil)

	results, err := svc.QueryVector(context.Background(), []float32{1, 0}, domain.QueryOptions{K: 10})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestQueryVectorEmptyStore(t *testing.T) {
	svc := NewQueryService(memory.NewChunkStore(), nil)

	results, err := svc.QueryVector(context.Background(), []float32{1, 0}, domain.QueryOptions{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestQueryVectorDimensionMismatch(t *testing.T) {
	store := memory.NewChunkStore()
	seedChunks(t, store, [][]float32{{1, 0, 0}})
	svc := NewQueryService(store, nil)

	_, err := svc.QueryVector(context.Background(), []float32{1, 0}, domain.QueryOptions{})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestQueryVectorZeroVectorScoresZero(t *testing.T) {
	store := memory.NewChunkStore()
	seedChunks(t, store, [][]float32{
		{0, 0, 0}, // zero norm, similarity defined as 0
		{1, 0, 0},
	})
	svc := NewQueryService(store, nil)

	results, err := svc.QueryVector(context.Background(), []float32{1, 0, 0}, domain.QueryOptions{K: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].ChunkIndex)
	assert.Equal(t, 0.0, results[1].Similarity)
}

func TestQueryVectorDocumentFilter(t *testing.T) {
	store := memory.NewChunkStore()
	seedChunks(t, store, [][]float32{
		{1, 0},
		{1, 0},
		{1, 0},
	}, "doc-1", "doc-2", "doc-1")
	svc := NewQueryService(store, nil)

	results, err := svc.QueryVector(context.Background(), []float32{1, 0}, domain.QueryOptions{K: 10, DocumentID: "doc-1"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "doc-1", r.DocumentID)
	}
}

func TestQueryEmbedsText(t *testing.T) {
	store := memory.NewChunkStore()
	seedChunks(t, store, [][]float32{
		{0, 1},
		{1, 0},
	})
	embedder := &mockEmbeddingService{embedding: []float32{1, 0}, dims: 2}
	svc := NewQueryService(store, embedder)

	results, err := svc.Query(context.Background(), "find me", domain.QueryOptions{K: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].ChunkIndex)
}

func TestQueryEmptyTextReturnsEmpty(t *testing.T) {
	svc := NewQueryService(memory.NewChunkStore(), &mockEmbeddingService{embedding: []float32{1}, dims: 1})

	results, err := svc.Query(context.Background(), "   ", domain.QueryOptions{})
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestQueryWithoutProvider(t *testing.T) {
	svc := NewQueryService(memory.NewChunkStore(), nil)

	_, err := svc.Query(context.Background(), "find me", domain.QueryOptions{})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}
