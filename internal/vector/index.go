// Package vector provides the similarity index over corpus question embeddings.
package vector

import (
	"context"

	"github.com/krishisaathi/krishisaathi/internal/models"
)

// Index holds one embedding per corpus question, index-aligned with the
// corpus, and answers nearest-neighbor queries by cosine similarity.
type Index interface {
	// Build replaces the index contents with the given vectors. Position i
	// corresponds to corpus record i.
	Build(ctx context.Context, vectors [][]float32) error
	// Query returns up to topK candidates with score strictly above threshold,
	// ordered by descending score, ties broken by lower corpus index.
	// An empty index yields an empty result; topK <= 0 is an error.
	Query(ctx context.Context, query []float32, topK int, threshold float64) ([]models.Candidate, error)
	Save(path string) error
	Load(path string) error
	Size() int
	Close() error
}
