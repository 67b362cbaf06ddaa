// Package memory provides in-memory implementations of the storage ports.
// Used by tests and ephemeral deployments that do not need persistence.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
// Chunks are held in one flat slice in insertion order, which is also
// the order AllChunks hands to the retriever.
type ChunkStore struct {
	mu        sync.RWMutex
	chunks    []domain.Chunk
	documents map[string]domain.Document
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		documents: make(map[string]domain.Document),
	}
}

// Insert writes a chunk record and assigns a fresh ID.
// (DocumentID, ChunkIndex) must be unique, as in the SQLite store.
func (s *ChunkStore) Insert(_ context.Context, chunk domain.Chunk) (domain.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.chunks {
		if c.DocumentID == chunk.DocumentID && c.ChunkIndex == chunk.ChunkIndex {
			return domain.Chunk{}, fmt.Errorf("inserting chunk: chunk %d of %s already exists",
				chunk.ChunkIndex, chunk.DocumentID)
		}
	}
	chunk.ID = uuid.New().String()
	s.chunks = append(s.chunks, chunk)
	return chunk, nil
}

// ListByDocument returns a document's chunks ordered by ChunkIndex ascending.
func (s *ChunkStore) ListByDocument(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Chunk
	for _, c := range s.chunks {
		if c.DocumentID == documentID {
			result = append(result, c)
		}
	}
	// Insertion order matches chunk order for a single ingestion, but a
	// re-ingested document may interleave, so sort explicitly.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ChunkIndex < result[j].ChunkIndex
	})
	return result, nil
}

// DeleteByDocument removes all chunks for a document. Idempotent.
func (s *ChunkStore) DeleteByDocument(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.chunks[:0]
	for _, c := range s.chunks {
		if c.DocumentID != documentID {
			kept = append(kept, c)
		}
	}
	s.chunks = kept
	return nil
}

// DeleteAll clears every chunk and document.
func (s *ChunkStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	s.documents = make(map[string]domain.Document)
	return nil
}

// Count returns the total number of stored chunks.
func (s *ChunkStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// CountByDocument returns the number of chunks stored for a document.
func (s *ChunkStore) CountByDocument(_ context.Context, documentID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.chunks {
		if c.DocumentID == documentID {
			n++
		}
	}
	return n, nil
}

// AllChunks returns every chunk in insertion order, optionally filtered
// to one document.
func (s *ChunkStore) AllChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Chunk, 0, len(s.chunks))
	for _, c := range s.chunks {
		if documentID == "" || c.DocumentID == documentID {
			result = append(result, c)
		}
	}
	return result, nil
}

// SaveDocument stores or updates document bookkeeping.
func (s *ChunkStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document by ID.
func (s *ChunkStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns all registered documents.
func (s *ChunkStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Document, 0, len(s.documents))
	for id := range s.documents {
		result = append(result, s.documents[id])
	}
	return result, nil
}

// DeleteDocument removes a document and all of its chunks.
func (s *ChunkStore) DeleteDocument(ctx context.Context, id string) error {
	if err := s.DeleteByDocument(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	return nil
}

// Close releases resources.
func (s *ChunkStore) Close() error {
	return nil
}
