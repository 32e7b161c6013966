// ABOUTME: Charm KV backend for the vector store interface
// ABOUTME: Cloud-synced storage with a brute-force cosine scan over chunk keys
package charmkv

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/maitre-ai/maitre/internal/charm"
	"github.com/maitre-ai/maitre/internal/models"
	"github.com/maitre-ai/maitre/internal/vectorstore"
)

// ChunkPrefix namespaces chunk point keys in the shared KV database.
const ChunkPrefix = "chunk:"

// kvClient is the subset of the charm client this store uses.
type kvClient interface {
	SetJSON(key string, value interface{}) error
	GetJSON(key string, dest interface{}) error
	Delete(key string) error
	ListKeys(prefix string) ([]string, error)
}

// storedPoint is the JSON shape written to KV.
type storedPoint struct {
	ID        string    `json:"id"`
	Vector    []float32 `json:"vector"`
	Document  string    `json:"document_id"`
	Index     int       `json:"chunk_index"`
	Text      string    `json:"text"`
	Filename  string    `json:"filename"`
	Uploaded  time.Time `json:"uploaded_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists embedded chunks in Charm KV.
type Store struct {
	kv        kvClient
	dimension int
}

// New creates a Charm-backed vector store.
func New(client *charm.Client, dimension int) (*Store, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("vector dimension must be positive, got %d", dimension)
	}
	return &Store{kv: client, dimension: dimension}, nil
}

func chunkKey(pointID string) string {
	return ChunkPrefix + pointID
}

func (s *Store) EnsureCollection(_ context.Context) error {
	return nil
}

func (s *Store) Upsert(_ context.Context, points []vectorstore.Point) error {
	for _, p := range points {
		if len(p.Vector) != s.dimension {
			return fmt.Errorf("point %s has dimension %d, store expects %d", p.ID, len(p.Vector), s.dimension)
		}
		sp := storedPoint{
			ID:        p.ID,
			Vector:    p.Vector,
			Document:  p.Chunk.DocumentID,
			Index:     p.Chunk.Index,
			Text:      p.Chunk.Text,
			Filename:  p.Chunk.Metadata.Filename,
			Uploaded:  p.Chunk.Metadata.UploadedAt,
			CreatedAt: time.Now(),
		}
		if err := s.kv.SetJSON(chunkKey(p.ID), sp); err != nil {
			return fmt.Errorf("storing point %s: %w", p.ID, err)
		}
	}
	return nil
}

func (s *Store) DeleteByDocument(_ context.Context, documentID string) error {
	keys, err := s.kv.ListKeys(ChunkPrefix)
	if err != nil {
		return fmt.Errorf("listing chunk keys: %w", err)
	}

	for _, key := range keys {
		var sp storedPoint
		if err := s.kv.GetJSON(key, &sp); err != nil {
			continue
		}
		if sp.Document != documentID {
			continue
		}
		if err := s.kv.Delete(key); err != nil {
			return fmt.Errorf("deleting %s: %w", key, err)
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

	keys, err := s.kv.ListKeys(ChunkPrefix)
	if err != nil {
		return nil, fmt.Errorf("listing chunk keys: %w", err)
	}

	var matches []vectorstore.Match
	for _, key := range keys {
		var sp storedPoint
		if err := s.kv.GetJSON(key, &sp); err != nil {
			continue
		}
		matches = append(matches, vectorstore.Match{
			Chunk: models.DocumentChunk{
				DocumentID: sp.Document,
				Index:      sp.Index,
				Text:       sp.Text,
				Metadata: models.ChunkMetadata{
					Filename:   sp.Filename,
					UploadedAt: sp.Uploaded,
				},
			},
			Score: vectorstore.CosineSimilarity(vector, sp.Vector),
		})
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}
