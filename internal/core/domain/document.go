package domain

import "time"

// Document represents a source text registered for retrieval.
// It records where the text came from so a document can be re-indexed later.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Title is the human-readable title.
	Title string

	// URI is the original location of the source text (file path, URL, etc).
	URI string

	// Metadata contains arbitrary key-value pairs applied to every chunk
	// produced from this document.
	Metadata map[string]any

	// CreatedAt is when the document was first indexed.
	CreatedAt time.Time

	// UpdatedAt is when the document was last re-indexed.
	UpdatedAt time.Time
}

// Chunk represents an embedded text span within a document.
// Chunks are immutable once stored; re-indexing a document replaces
// its entire chunk set.
type Chunk struct {
	// ID is the unique identifier for the chunk, assigned on insert.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// ChunkIndex is the zero-based position within the document's
	// chunk sequence. (DocumentID, ChunkIndex) is unique.
	ChunkIndex int

	// Content is the literal text span this embedding represents.
	Content string

	// Embedding is the vector representation for similarity search.
	// All chunks that are queried together must share one dimensionality.
	Embedding []float32

	// Metadata contains chunk-level key-value pairs. The retriever
	// never interprets it.
	Metadata map[string]any
}

// RetrievedChunk is a chunk returned from a similarity query,
// annotated with its cosine similarity score.
type RetrievedChunk struct {
	// Content is the chunk text.
	Content string

	// DocumentID identifies the owning document.
	DocumentID string

	// ChunkIndex is the chunk's position within its document.
	ChunkIndex int

	// Similarity is the cosine similarity against the query vector,
	// in [-1, 1]. Zero vectors always score 0.
	Similarity float64

	// Metadata is the stored chunk metadata, if any.
	Metadata map[string]any
}

// QueryOptions configures a similarity query.
type QueryOptions struct {
	// K is the maximum number of chunks to return. Defaults to 5.
	K int

	// DocumentID restricts the candidate set to one document when non-empty.
	DocumentID string
}
