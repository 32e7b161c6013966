// ABOUTME: Document chunk types and identity for the RAG pipeline
// ABOUTME: Chunks are immutable once stored; identity derives from (document, index)
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChunkMetadata travels with every stored chunk payload.
type ChunkMetadata struct {
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// DocumentChunk is one ordered segment of an ingested document.
// Ordering is significant: Index is 0-based and preserved end-to-end
// from extraction through storage.
type DocumentChunk struct {
	DocumentID string        `json:"document_id"`
	Index      int           `json:"chunk_index"`
	Text       string        `json:"text"`
	Metadata   ChunkMetadata `json:"metadata"`
}

// PointID returns the deterministic vector-store ID for this chunk.
// Re-ingesting a document produces the same IDs, so upserts overwrite
// instead of duplicating.
func (c DocumentChunk) PointID() string {
	name := fmt.Sprintf("%s:%d", c.DocumentID, c.Index)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
