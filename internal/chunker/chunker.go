// Package chunker provides fixed-size word-window text chunking.
package chunker

import (
	"strings"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of words per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping words between
// consecutive chunks.
const DefaultOverlap = 100

// Chunker splits text into overlapping word windows suitable for
// independent embedding.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in words.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		c.chunkSize = size
	}
}

// WithOverlap sets the overlap between consecutive chunks in words.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		c.overlap = overlap
	}
}

// New creates a chunker with the given options.
// A non-positive chunk size, negative overlap, or overlap >= chunk size
// fails with domain.ErrInvalidChunking: such a window can never advance.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.chunkSize <= 0 || c.overlap < 0 || c.overlap >= c.chunkSize {
		return nil, domain.ErrInvalidChunking
	}

	return c, nil
}

// ChunkSize returns the configured window size in words.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap in words.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split splits text into overlapping word windows. The window start
// advances by chunkSize-overlap words each step, so consecutive chunks
// share exactly overlap words while enough words remain. The final
// window may be shorter. Whitespace-only input produces no chunks.
//
// Split is a pure function of its inputs: the same text always yields
// the same sequence.
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := c.chunkSize - c.overlap
	chunks := make([]string, 0, (len(words)/step)+1)

	for start := 0; start < len(words); start += step {
		end := start + c.chunkSize
		if end > len(words) {
			end = len(words)
		}

		chunks = append(chunks, strings.Join(words[start:end], " "))

		if end == len(words) {
			break
		}
	}

	return chunks
}
