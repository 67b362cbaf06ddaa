package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch indicates a similarity comparison between
	// vectors of different lengths. This is always a caller or
	// configuration bug, never recovered silently.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrInvalidChunking indicates chunking parameters that cannot
	// terminate: non-positive chunk size, or overlap >= chunk size.
	ErrInvalidChunking = errors.New("invalid chunking parameters")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Ingestion and similarity queries are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
