// Package sqlite provides the SQLite-backed implementation of the
// ChunkStore port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Chunk embeddings are stored as little-endian float32
// BLOBs; chunk and document metadata is stored as JSON text.
//
// # Data Location
//
// By default, the database is stored at ~/.retrieva/data/chunks.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
