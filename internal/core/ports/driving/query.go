package driving

import (
	"context"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

// QueryService answers similarity queries over the stored chunks.
type QueryService interface {
	// Query embeds the query text and returns the K stored chunks most
	// similar to it, ranked by cosine similarity descending. Ties keep
	// insertion order. Fewer than K candidates returns all of them.
	Query(ctx context.Context, queryText string, opts domain.QueryOptions) ([]domain.RetrievedChunk, error)

	// QueryVector ranks against an already-computed query vector.
	QueryVector(ctx context.Context, vector []float32, opts domain.QueryOptions) ([]domain.RetrievedChunk, error)
}
