package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/retrieva-cli/internal/chunker"
	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driving"
	"github.com/custodia-labs/retrieva-cli/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// DefaultEmbedRate is the default throttle for outbound embedding calls,
// in requests per second. Hosted providers rate limit aggressively during
// bulk ingestion.
const DefaultEmbedRate = 5.0

// IndexService glues chunker, embedding provider and chunk store together
// for one document at a time.
//
// Ingestion is sequential in chunk order. A provider failure aborts the
// remaining chunks and surfaces the error; chunks inserted before the
// failure remain in place. Concurrent ingestion of two different documents
// is safe; ingesting and deleting the same document concurrently must be
// serialized by the caller.
type IndexService struct {
	chunkStore       driven.ChunkStore
	embeddingService driven.EmbeddingService
	chunker          *chunker.Chunker
	limiter          *rate.Limiter
}

// NewIndexService creates a new index service. The limiter throttles
// embedding calls; pass nil to use DefaultEmbedRate.
func NewIndexService(
	chunkStore driven.ChunkStore,
	embeddingService driven.EmbeddingService,
	c *chunker.Chunker,
	limiter *rate.Limiter,
) *IndexService {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Limit(DefaultEmbedRate), 1)
	}
	return &IndexService{
		chunkStore:       chunkStore,
		embeddingService: embeddingService,
		chunker:          c,
		limiter:          limiter,
	}
}

// Ingest chunks the text, embeds each chunk in order and stores the records.
func (s *IndexService) Ingest(ctx context.Context, req driving.IngestRequest) (*driving.IngestResult, error) {
	if s.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if req.Text == "" {
		return nil, fmt.Errorf("%w: empty document text", domain.ErrInvalidInput)
	}

	documentID := req.DocumentID
	if documentID == "" {
		documentID = uuid.New().String()
	}

	logger.Section("Ingestion")
	logger.Debug("Document: %s (%q)", documentID, req.Title)

	chunks := s.chunker.Split(req.Text)
	logger.Info("Chunked into %d windows (size=%d, overlap=%d)",
		len(chunks), s.chunker.ChunkSize(), s.chunker.Overlap())

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:        documentID,
		Title:     req.Title,
		URI:       req.URI,
		Metadata:  req.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing, err := s.chunkStore.GetDocument(ctx, documentID); err == nil {
		doc.CreatedAt = existing.CreatedAt
		// Replace, never accumulate: a known document's previous chunks
		// are cleared before the new set goes in.
		if err := s.chunkStore.DeleteByDocument(ctx, documentID); err != nil {
			return nil, fmt.Errorf("clear chunks of %s: %w", documentID, err)
		}
	}
	if err := s.chunkStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	dims := 0
	for i, content := range chunks {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}

		embedding, err := s.embeddingService.Embed(ctx, content)
		if err != nil {
			// Abort remaining chunks; no silent partial success.
			// Already-inserted chunks stay, the caller may roll back
			// with Delete.
			return nil, fmt.Errorf("embed chunk %d of %s: %w", i, documentID, err)
		}
		if dims == 0 {
			dims = len(embedding)
		} else if len(embedding) != dims {
			return nil, fmt.Errorf("chunk %d of %s: %w: got %d, expected %d",
				i, documentID, domain.ErrDimensionMismatch, len(embedding), dims)
		}

		if _, err := s.chunkStore.Insert(ctx, domain.Chunk{
			DocumentID: documentID,
			ChunkIndex: i,
			Content:    content,
			Embedding:  embedding,
			Metadata:   req.Metadata,
		}); err != nil {
			return nil, fmt.Errorf("store chunk %d of %s: %w", i, documentID, err)
		}
	}

	logger.Info("Ingested %d chunks for %s", len(chunks), documentID)
	return &driving.IngestResult{
		DocumentID: documentID,
		ChunkCount: len(chunks),
		Dimensions: dims,
	}, nil
}

// Reindex deletes a document's chunks and re-ingests its source text.
// The source text is re-read from the document's URI, so a shrunken
// document never leaves stale higher-index chunks behind.
func (s *IndexService) Reindex(ctx context.Context, documentID string) (*driving.IngestResult, error) {
	doc, err := s.chunkStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("reindex %s: %w", documentID, err)
	}
	if doc.URI == "" {
		return nil, fmt.Errorf("%w: document %s has no source URI", domain.ErrInvalidInput, documentID)
	}

	text, err := os.ReadFile(doc.URI)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", doc.URI, err)
	}

	if err := s.chunkStore.DeleteByDocument(ctx, documentID); err != nil {
		return nil, fmt.Errorf("delete chunks of %s: %w", documentID, err)
	}

	return s.Ingest(ctx, driving.IngestRequest{
		DocumentID: documentID,
		Title:      doc.Title,
		URI:        doc.URI,
		Text:       string(text),
		Metadata:   doc.Metadata,
	})
}

// Reset clears the entire store.
func (s *IndexService) Reset(ctx context.Context) error {
	if err := s.chunkStore.DeleteAll(ctx); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	logger.Info("Store cleared")
	return nil
}

// Count returns the total number of stored chunks.
func (s *IndexService) Count(ctx context.Context) (int, error) {
	return s.chunkStore.Count(ctx)
}

// CountByDocument returns the number of chunks for one document.
func (s *IndexService) CountByDocument(ctx context.Context, documentID string) (int, error) {
	return s.chunkStore.CountByDocument(ctx, documentID)
}

// Documents lists the registered documents.
func (s *IndexService) Documents(ctx context.Context) ([]domain.Document, error) {
	return s.chunkStore.ListDocuments(ctx)
}

// Delete removes a document and its chunks.
func (s *IndexService) Delete(ctx context.Context, documentID string) error {
	if err := s.chunkStore.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}
	return nil
}
