package driven

import (
	"context"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

// ChunkStore persists chunk records and their owning documents.
// Backed by SQLite for durable deployments; an in-memory implementation
// exists for tests and ephemeral use.
//
// The store is deliberately primitive: the retriever scans every record
// via AllChunks and ranks in process. An indexed store (ANN) can replace
// the scan behind this same interface without changing the query contract.
type ChunkStore interface {
	// Insert writes a chunk record, assigns a fresh ID and returns the
	// stored record. Safe to call repeatedly for one document during
	// incremental ingestion.
	Insert(ctx context.Context, chunk domain.Chunk) (domain.Chunk, error)

	// ListByDocument returns a document's chunks ordered by ChunkIndex ascending.
	ListByDocument(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// DeleteByDocument removes all chunks for a document.
	// Idempotent: deleting a document with no chunks is not an error.
	DeleteByDocument(ctx context.Context, documentID string) error

	// DeleteAll clears every chunk and document. Used for a full re-index.
	DeleteAll(ctx context.Context) error

	// Count returns the total number of stored chunks.
	Count(ctx context.Context) (int, error)

	// CountByDocument returns the number of chunks stored for a document.
	CountByDocument(ctx context.Context, documentID string) (int, error)

	// AllChunks returns every chunk record for the retriever to scan.
	// When documentID is non-empty the candidate set is restricted to
	// that document. Records are returned in insertion order.
	AllChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// SaveDocument stores or updates document bookkeeping.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all registered documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document and all of its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
