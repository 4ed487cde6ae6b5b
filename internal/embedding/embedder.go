// Package embedding provides text embedding for the FAQ retrieval pipeline.
package embedding

import "context"

// Embedder produces fixed-length vector embeddings for text.
// Implementations must be deterministic for a fitted model and must return a
// zero vector (not an error) for empty or whitespace-only input.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
