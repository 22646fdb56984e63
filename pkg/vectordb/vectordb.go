// Package vectordb defines the vector database abstraction used to
// store and search embeddings.
package vectordb

import "context"

// Point is one embedding with its payload.
type Point struct {
	ID      uint64         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload,omitempty"`
}

// PayloadScore is one search result.
type PayloadScore struct {
	Score   float64        `json:"score"`
	ID      uint64         `json:"id"`
	Payload map[string]any `json:"payload,omitempty"`
}

// VectorDB stores embeddings and searches them by similarity.
type VectorDB interface {
	// Setup creates the backing collection. It is idempotent: an
	// already existing collection is not an error.
	Setup(ctx context.Context) error
	// Insert upserts the given points.
	Insert(ctx context.Context, points []Point) error
	// Search returns the stored points most similar to the query
	// vector, ordered by descending score.
	Search(ctx context.Context, query []float32, limit int) ([]PayloadScore, error)
	// LargestID returns the largest stored point ID, or 0 when the
	// collection is empty.
	LargestID(ctx context.Context) (uint64, error)
}
