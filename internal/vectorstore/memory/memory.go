// ABOUTME: In-memory vector store backend for tests and single-process runs
// ABOUTME: Brute-force cosine scan, fine at the scale of a personal document set
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/maitre-ai/maitre/internal/vectorstore"
)

// Store keeps points in a map guarded by a mutex.
type Store struct {
	mu        sync.RWMutex
	dimension int
	points    map[string]vectorstore.Point
}

// New creates an in-memory store expecting vectors of the given dimension.
func New(dimension int) (*Store, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("vector dimension must be positive, got %d", dimension)
	}
	return &Store{
		dimension: dimension,
		points:    make(map[string]vectorstore.Point),
	}, nil
}

func (s *Store) EnsureCollection(_ context.Context) error {
	return nil
}

func (s *Store) Upsert(_ context.Context, points []vectorstore.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range points {
		if len(p.Vector) != s.dimension {
			return fmt.Errorf("point %s has dimension %d, store expects %d", p.ID, len(p.Vector), s.dimension)
		}
		s.points[p.ID] = p
	}
	return nil
}

func (s *Store) DeleteByDocument(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.points {
		if p.Chunk.DocumentID == documentID {
			delete(s.points, id)
		}
	}
	return nil
}

func (s *Store) Query(_ context.Context, vector []float32, topK int) ([]vectorstore.Match, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("query vector has dimension %d, store expects %d", len(vector), s.dimension)
	}
	if topK <= 0 {
		topK = 5
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]vectorstore.Match, 0, len(s.points))
	for _, p := range s.points {
		matches = append(matches, vectorstore.Match{
			Chunk: p.Chunk,
			Score: vectorstore.CosineSimilarity(vector, p.Vector),
		})
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Len reports the number of stored points.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}
