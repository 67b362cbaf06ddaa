package driving

import (
	"context"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

// IndexService ingests documents into the chunk store.
type IndexService interface {
	// Ingest chunks the text, embeds each chunk in order and stores the
	// records. A provider failure aborts the remaining chunks and surfaces
	// the error; chunks inserted before the failure remain in place.
	// Callers needing atomicity delete the document on error.
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)

	// Reindex deletes a document's chunks and re-ingests its source text.
	Reindex(ctx context.Context, documentID string) (*IngestResult, error)

	// Reset clears the entire store for a full re-index.
	Reset(ctx context.Context) error

	// Count returns the total number of stored chunks.
	Count(ctx context.Context) (int, error)

	// CountByDocument returns the number of chunks for one document.
	CountByDocument(ctx context.Context, documentID string) (int, error)

	// Documents lists the registered documents.
	Documents(ctx context.Context) ([]domain.Document, error)

	// Delete removes a document and its chunks.
	Delete(ctx context.Context, documentID string) error
}

// IngestRequest describes one document to ingest.
type IngestRequest struct {
	// DocumentID identifies the document. Generated when empty.
	DocumentID string

	// Title is the human-readable document title.
	Title string

	// URI is the source location, kept so Reindex can re-read the text.
	URI string

	// Text is the full document text to chunk and embed.
	Text string

	// Metadata is applied uniformly to every chunk of this document.
	Metadata map[string]any
}

// IngestResult reports what an ingestion produced.
type IngestResult struct {
	DocumentID string
	ChunkCount int
	Dimensions int
}
