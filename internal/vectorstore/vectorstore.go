// ABOUTME: Vector store abstraction shared by the qdrant, charm, and memory backends
// ABOUTME: Stores document chunks keyed by deterministic point IDs for idempotent re-ingestion
package vectorstore

import (
	"context"

	"github.com/maitre-ai/maitre/internal/models"
)

// Point is one embedded chunk ready for storage. ID must be the chunk's
// deterministic PointID so re-ingesting a document overwrites in place.
type Point struct {
	ID     string
	Vector []float32
	Chunk  models.DocumentChunk
}

// Match is a retrieved chunk with its similarity score, higher is closer.
type Match struct {
	Chunk models.DocumentChunk
	Score float32
}

// Store persists embedded chunks and answers nearest-neighbor queries.
type Store interface {
	// EnsureCollection creates the backing collection if it does not exist.
	EnsureCollection(ctx context.Context) error
	// Upsert writes points, replacing any with the same ID.
	Upsert(ctx context.Context, points []Point) error
	// DeleteByDocument removes every point belonging to a document.
	DeleteByDocument(ctx context.Context, documentID string) error
	// Query returns up to topK closest matches for the vector, best first.
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
}
