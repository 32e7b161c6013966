// ABOUTME: MCP tool handler implementations for the maitre server
// ABOUTME: Thin adapters from tool arguments to the orchestrator and assistants
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/maitre-ai/maitre/internal/contextstore"
	"github.com/maitre-ai/maitre/internal/models"
	"github.com/maitre-ai/maitre/internal/rag"
	"github.com/maitre-ai/maitre/internal/vectorstore"
)

// DefaultSessionID is used when a tool call does not name a session.
const DefaultSessionID = "mcp-default"

// Router handles a full chat turn. Satisfied by orchestrator.Orchestrator.
type Router interface {
	Handle(ctx context.Context, sessionID, message string) string
}

// Ingestor adds documents to the store. Satisfied by rag.Assistant.
type Ingestor interface {
	IngestFile(ctx context.Context, path string) (*rag.IngestResult, error)
}

// Retriever searches stored chunks. Satisfied by rag.Assistant.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]vectorstore.Match, error)
}

// LiveAnswerer answers live queries. Satisfied by livesearch.Assistant.
type LiveAnswerer interface {
	Answer(ctx context.Context, query string) string
}

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	router    Router
	ingestor  Ingestor
	retriever Retriever
	live      LiveAnswerer
	contexts  *contextstore.Store
}

// NewHandlers assembles the MCP handlers.
func NewHandlers(router Router, ingestor Ingestor, retriever Retriever, live LiveAnswerer, contexts *contextstore.Store) *Handlers {
	return &Handlers{
		router:    router,
		ingestor:  ingestor,
		retriever: retriever,
		live:      live,
		contexts:  contexts,
	}
}

// Chat handles the chat tool
func (h *Handlers) Chat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message argument is required and must be a string"), nil
	}
	sessionID := request.GetString("session_id", DefaultSessionID)

	reply := h.router.Handle(ctx, sessionID, message)
	return mcp.NewToolResultText(reply), nil
}

// IngestDocument handles the ingest_document tool
func (h *Handlers) IngestDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path argument is required and must be a string"), nil
	}

	res, err := h.ingestor.IngestFile(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ingestion failed: %v", err)), nil
	}

	data, err := json.Marshal(res)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// QueryDocuments handles the query_documents tool
func (h *Handlers) QueryDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	topK := request.GetInt("top_k", 5)

	matches, err := h.retriever.Retrieve(ctx, query, topK)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("retrieval failed: %v", err)), nil
	}
	if len(matches) == 0 {
		return mcp.NewToolResultText("No matching document content found."), nil
	}

	type hit struct {
		DocumentID string  `json:"document_id"`
		ChunkIndex int     `json:"chunk_index"`
		Filename   string  `json:"filename"`
		Text       string  `json:"text"`
		Score      float32 `json:"score"`
	}
	hits := make([]hit, len(matches))
	for i, m := range matches {
		hits[i] = hit{
			DocumentID: m.Chunk.DocumentID,
			ChunkIndex: m.Chunk.Index,
			Filename:   m.Chunk.Metadata.Filename,
			Text:       m.Chunk.Text,
			Score:      m.Score,
		}
	}

	data, err := json.Marshal(hits)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// LiveSearch handles the live_search tool
func (h *Handlers) LiveSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	return mcp.NewToolResultText(h.live.Answer(ctx, query)), nil
}

// GetUserContext handles the get_user_context tool
func (h *Handlers) GetUserContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", DefaultSessionID)
	attribute := strings.TrimSpace(request.GetString("attribute", ""))

	if attribute == "" {
		return mcp.NewToolResultText(h.contexts.Describe(sessionID)), nil
	}

	attr := models.ContextAttribute(strings.ToLower(attribute))
	if !models.KnownAttribute(attr) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown attribute %q: must be one of name, age, location, interests, preferences", attribute)), nil
	}

	value, err := h.contexts.Get(sessionID, attr)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("%s is not set", attr)), nil
	}
	return mcp.NewToolResultText(value), nil
}

// SetUserContext handles the set_user_context tool
func (h *Handlers) SetUserContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	attribute, err := request.RequireString("attribute")
	if err != nil {
		return mcp.NewToolResultError("attribute argument is required and must be a string"), nil
	}
	value, err := request.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError("value argument is required and must be a string"), nil
	}
	sessionID := request.GetString("session_id", DefaultSessionID)
	key := request.GetString("key", "")

	attr := models.ContextAttribute(strings.ToLower(strings.TrimSpace(attribute)))
	if err := h.contexts.Set(sessionID, attr, key, value); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Stored %s for session %s", attr, sessionID)), nil
}
