// ABOUTME: Document assistant covering ingestion and grounded question answering
// ABOUTME: Delete-before-upsert with deterministic point IDs makes re-ingestion idempotent
package rag

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maitre-ai/maitre/internal/chunker"
	"github.com/maitre-ai/maitre/internal/extract"
	"github.com/maitre-ai/maitre/internal/models"
	"github.com/maitre-ai/maitre/internal/vectorstore"
)

// NoDocumentsReply is returned when retrieval finds nothing to ground an
// answer on. The assistant never invents document content.
const NoDocumentsReply = "I don't have any stored document content relevant to that. Try adding a document first."

const answerSystemPrompt = `You are a document assistant. Answer the question using ONLY the provided document excerpts.
If the excerpts do not contain the answer, say you don't know. Never invent content that is not in the excerpts.
Cite the source filename when it helps.`

// Embedder turns text into a vector. Satisfied by llm.Client.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Synthesizer produces a grounded completion. Satisfied by llm.Client.
type Synthesizer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// TextExtractor converts a staged file into normalized text. Satisfied by
// extract.Extractor.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
	Supported(filename string) bool
}

// IngestResult reports what one ingestion stored.
type IngestResult struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Chunks     int    `json:"chunks"`
	Replaced   bool   `json:"replaced"`
}

// Assistant owns the ingest and answer pipelines over one vector store.
type Assistant struct {
	embedder  Embedder
	synth     Synthesizer
	extractor TextExtractor
	staging   *extract.Staging
	chunker   *chunker.Chunker
	store     vectorstore.Store
	topK      int
}

// Config assembles an Assistant's collaborators.
type Config struct {
	Embedder  Embedder
	Synth     Synthesizer
	Extractor TextExtractor
	Staging   *extract.Staging
	Chunker   *chunker.Chunker
	Store     vectorstore.Store
	TopK      int
}

// New creates a document assistant.
func New(cfg Config) (*Assistant, error) {
	if cfg.Embedder == nil || cfg.Store == nil || cfg.Chunker == nil {
		return nil, fmt.Errorf("embedder, store, and chunker are required")
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = 5
	}
	return &Assistant{
		embedder:  cfg.Embedder,
		synth:     cfg.Synth,
		extractor: cfg.Extractor,
		staging:   cfg.Staging,
		chunker:   cfg.Chunker,
		store:     cfg.Store,
		topK:      topK,
	}, nil
}

// IngestFile reads the user's file and ingests it. The original file is
// only read, never moved or removed.
func (a *Assistant) IngestFile(ctx context.Context, path string) (*IngestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return a.IngestDocument(ctx, data, filepath.Base(path))
}

// IngestDocument stages the bytes, extracts and chunks the text, embeds
// every chunk, and replaces any previous version of the same document in
// the store. The staged copy is removed on every exit path.
func (a *Assistant) IngestDocument(ctx context.Context, data []byte, filename string) (*IngestResult, error) {
	if a.extractor == nil || a.staging == nil {
		return nil, fmt.Errorf("ingestion is not configured")
	}
	if !a.extractor.Supported(filename) {
		return nil, fmt.Errorf("%s: %w", filepath.Ext(filename), extract.ErrUnsupportedType)
	}

	staged, cleanup, err := a.staging.Stage(data, filename)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	text, err := a.extractor.Extract(ctx, staged)
	if err != nil {
		return nil, err
	}

	segments := a.chunker.Chunk(text)
	if len(segments) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, extract.ErrEmptyText)
	}

	docID := documentID(filename)
	uploadedAt := time.Now()
	points := make([]vectorstore.Point, 0, len(segments))
	for i, segment := range segments {
		vector, err := a.embedder.EmbedText(ctx, segment)
		if err != nil {
			return nil, fmt.Errorf("embedding chunk %d of %s: %w", i, filename, err)
		}
		chunk := models.DocumentChunk{
			DocumentID: docID,
			Index:      i,
			Text:       segment,
			Metadata: models.ChunkMetadata{
				Filename:   filename,
				UploadedAt: uploadedAt,
			},
		}
		points = append(points, vectorstore.Point{
			ID:     chunk.PointID(),
			Vector: vector,
			Chunk:  chunk,
		})
	}

	// Old chunks from a longer previous version must not survive.
	if err := a.store.DeleteByDocument(ctx, docID); err != nil {
		return nil, fmt.Errorf("clearing previous version of %s: %w", filename, err)
	}
	if err := a.store.Upsert(ctx, points); err != nil {
		return nil, fmt.Errorf("storing %s: %w", filename, err)
	}

	return &IngestResult{
		DocumentID: docID,
		Filename:   filename,
		Chunks:     len(points),
	}, nil
}

// Retrieve returns the topK closest chunks for a query.
func (a *Assistant) Retrieve(ctx context.Context, query string, topK int) ([]vectorstore.Match, error) {
	if topK <= 0 {
		topK = a.topK
	}
	vector, err := a.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return a.store.Query(ctx, vector, topK)
}

// Answer retrieves the closest chunks and synthesizes a grounded reply.
// With nothing retrieved it declines rather than guessing.
func (a *Assistant) Answer(ctx context.Context, question string) (string, error) {
	matches, err := a.Retrieve(ctx, question, a.topK)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return NoDocumentsReply, nil
	}

	if a.synth == nil {
		return formatMatches(matches), nil
	}

	var b strings.Builder
	b.WriteString("Document excerpts:\n\n")
	for i, m := range matches {
		fmt.Fprintf(&b, "[%d] %s (chunk %d)\n%s\n\n", i+1, m.Chunk.Metadata.Filename, m.Chunk.Index, m.Chunk.Text)
	}
	fmt.Fprintf(&b, "Question: %s", question)

	reply, err := a.synth.Complete(ctx, answerSystemPrompt, b.String())
	if err != nil {
		return "", fmt.Errorf("synthesizing answer: %w", err)
	}
	return reply, nil
}

// formatMatches is the no-LLM fallback: raw excerpts, best first.
func formatMatches(matches []vectorstore.Match) string {
	var b strings.Builder
	b.WriteString("Closest document excerpts:\n")
	for i, m := range matches {
		fmt.Fprintf(&b, "\n%d. %s (score %.2f)\n%s\n", i+1, m.Chunk.Metadata.Filename, m.Score, m.Chunk.Text)
	}
	return b.String()
}

// documentID normalizes a filename into a stable document identity so
// re-ingesting the same name replaces rather than duplicates.
func documentID(filename string) string {
	return strings.ToLower(strings.TrimSpace(filename))
}
