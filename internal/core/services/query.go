package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driving"
	"github.com/custodia-labs/retrieva-cli/internal/logger"
	"github.com/custodia-labs/retrieva-cli/internal/vector"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// DefaultTopK is the number of chunks returned when the caller does not
// specify one.
const DefaultTopK = 5

// QueryService ranks stored chunks against a query by cosine similarity.
//
// The scan is intentionally brute force: O(N*D) per query over the
// store's current snapshot, which is fine at the corpus sizes this
// system targets (hundreds to low thousands of chunks). Retrieval is
// read-committed at call time, not transactionally isolated.
type QueryService struct {
	chunkStore       driven.ChunkStore
	embeddingService driven.EmbeddingService
}

// NewQueryService creates a new query service.
// The embeddingService parameter may be nil; Query then fails with
// domain.ErrEmbeddingUnavailable while QueryVector still works.
func NewQueryService(chunkStore driven.ChunkStore, embeddingService driven.EmbeddingService) *QueryService {
	return &QueryService{
		chunkStore:       chunkStore,
		embeddingService: embeddingService,
	}
}

// Query embeds the query text and returns the most similar stored chunks.
func (s *QueryService) Query(ctx context.Context, queryText string, opts domain.QueryOptions) ([]domain.RetrievedChunk, error) {
	queryText = strings.TrimSpace(queryText)
	if queryText == "" {
		return []domain.RetrievedChunk{}, nil
	}

	if s.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	logger.Section("Query Execution")
	logger.Debug("Query: %q", queryText)

	queryVector, err := s.embeddingService.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	return s.QueryVector(ctx, queryVector, opts)
}

// QueryVector ranks stored chunks against an already-computed vector.
func (s *QueryService) QueryVector(ctx context.Context, queryVector []float32, opts domain.QueryOptions) ([]domain.RetrievedChunk, error) {
	k := opts.K
	if k <= 0 {
		k = DefaultTopK
	}

	candidates, err := s.chunkStore.AllChunks(ctx, opts.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	logger.Debug("Candidates: %d chunks, k=%d", len(candidates), k)

	scored := make([]domain.RetrievedChunk, 0, len(candidates))
	for i := range candidates {
		sim, err := vector.Cosine(queryVector, candidates[i].Embedding)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", candidates[i].ID, err)
		}
		scored = append(scored, domain.RetrievedChunk{
			Content:    candidates[i].Content,
			DocumentID: candidates[i].DocumentID,
			ChunkIndex: candidates[i].ChunkIndex,
			Similarity: sim,
			Metadata:   candidates[i].Metadata,
		})
	}

	// Stable sort so equal scores keep the store's insertion order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if k < len(scored) {
		scored = scored[:k]
	}

	logger.Debug("Returning %d results", len(scored))
	return scored, nil
}
