// ABOUTME: Qdrant REST backend for the vector store interface
// ABOUTME: Deletes by document_id payload filter so re-ingestion never strands stale points
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/maitre-ai/maitre/internal/models"
	"github.com/maitre-ai/maitre/internal/util"
	"github.com/maitre-ai/maitre/internal/vectorstore"
)

// Store is a minimal REST client to Qdrant assuming cosine distance.
type Store struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	maxRetries int
	retryDelay time.Duration
	client     *http.Client
}

// Config holds connection settings for a Qdrant store.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Dimension  int
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// New creates a Qdrant-backed vector store.
func New(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant URL is required")
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("collection name is required")
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("vector dimension must be positive, got %d", cfg.Dimension)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}

	return &Store{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
		maxRetries: cfg.MaxRetries,
		retryDelay: retryDelay,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

// EnsureCollection creates the collection when it does not exist yet.
// Qdrant rejects an unconditional create with 409 Conflict once the
// collection is there, so existence is probed first. A 409 from the
// create itself means another process won the race; that counts as done.
func (s *Store) EnsureCollection(ctx context.Context) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     s.dimension,
			"distance": "Cosine",
		},
	}
	url := fmt.Sprintf("%s/collections/%s", s.url, s.collection)
	return s.withRetry(ctx, func() error {
		exists, err := s.collectionExists(ctx, url)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		err = s.call(ctx, http.MethodPut, url, body, nil)
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusConflict {
			return nil
		}
		return err
	})
}

// collectionExists probes the collection with a GET. 404 means absent.
func (s *Store) collectionExists(ctx context.Context, url string) (bool, error) {
	err := s.call(ctx, http.MethodGet, url, nil, nil)
	if err == nil {
		return true, nil
	}
	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusNotFound {
		return false, nil
	}
	return false, err
}

// Upsert writes points with wait=true so a following query sees them.
func (s *Store) Upsert(ctx context.Context, points []vectorstore.Point) error {
	if len(points) == 0 {
		return nil
	}

	qdrantPoints := make([]map[string]any, len(points))
	for i, p := range points {
		if len(p.Vector) != s.dimension {
			return fmt.Errorf("point %s has dimension %d, collection expects %d", p.ID, len(p.Vector), s.dimension)
		}
		qdrantPoints[i] = map[string]any{
			"id":     p.ID,
			"vector": p.Vector,
			"payload": map[string]any{
				"document_id": p.Chunk.DocumentID,
				"chunk_index": p.Chunk.Index,
				"text":        p.Chunk.Text,
				"filename":    p.Chunk.Metadata.Filename,
				"uploaded_at": p.Chunk.Metadata.UploadedAt.Format(time.RFC3339),
			},
		}
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection)
	return s.withRetry(ctx, func() error {
		return s.call(ctx, http.MethodPut, url, map[string]any{"points": qdrantPoints}, nil)
	})
}

// DeleteByDocument removes all points whose payload document_id matches.
func (s *Store) DeleteByDocument(ctx context.Context, documentID string) error {
	body := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{
					"key":   "document_id",
					"match": map[string]any{"value": documentID},
				},
			},
		},
	}

	url := fmt.Sprintf("%s/collections/%s/points/delete?wait=true", s.url, s.collection)
	return s.withRetry(ctx, func() error {
		return s.call(ctx, http.MethodPost, url, body, nil)
	})
}

// Query searches for the topK nearest points by cosine similarity.
func (s *Store) Query(ctx context.Context, vector []float32, topK int) ([]vectorstore.Match, error) {
	if topK <= 0 {
		topK = 5
	}

	body := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}

	var resp struct {
		Result []struct {
			Score   float32        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection)
	err := s.withRetry(ctx, func() error {
		return s.call(ctx, http.MethodPost, url, body, &resp)
	})
	if err != nil {
		return nil, err
	}

	matches := make([]vectorstore.Match, 0, len(resp.Result))
	for _, r := range resp.Result {
		chunk := models.DocumentChunk{}
		if v, ok := r.Payload["document_id"].(string); ok {
			chunk.DocumentID = v
		}
		if v, ok := r.Payload["chunk_index"].(float64); ok {
			chunk.Index = int(v)
		}
		if v, ok := r.Payload["text"].(string); ok {
			chunk.Text = v
		}
		if v, ok := r.Payload["filename"].(string); ok {
			chunk.Metadata.Filename = v
		}
		if v, ok := r.Payload["uploaded_at"].(string); ok {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				chunk.Metadata.UploadedAt = t
			}
		}
		matches = append(matches, vectorstore.Match{Chunk: chunk, Score: r.Score})
	}
	return matches, nil
}

func (s *Store) withRetry(ctx context.Context, fn func() error) error {
	return util.Do(ctx, s.maxRetries, s.retryDelay, fn)
}

// statusError carries the HTTP status code for callers that branch on it.
type statusError struct {
	code int
	msg  string
}

func (e *statusError) Error() string { return e.msg }

// call issues one JSON request. Client errors other than 429 are marked
// permanent so the retry loop gives up immediately.
func (s *Store) call(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return util.Permanent(fmt.Errorf("encoding request: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return util.Permanent(fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := &statusError{
			code: resp.StatusCode,
			msg:  fmt.Sprintf("qdrant %s %s: %s: %s", method, url, resp.Status, bytes.TrimSpace(msg)),
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return util.Permanent(err)
		}
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
