// ABOUTME: MCP tool definitions and registration for the maitre server
// ABOUTME: Defines JSON schemas for chat, document, search, and context tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, handlers *Handlers) {
	// 1. chat - route a message through the orchestrator
	server.AddTool(mcp.Tool{
		Name:        "chat",
		Description: "Send a chat message. The orchestrator routes it to document Q&A, live web search, or the user context store and returns the reply.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message": map[string]interface{}{
					"type":        "string",
					"description": "The user message to handle",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session identifier. Omit to use the default session.",
				},
			},
			Required: []string{"message"},
		},
	}, handlers.Chat)

	// 2. ingest_document - add a file to the document store
	server.AddTool(mcp.Tool{
		Name:        "ingest_document",
		Description: "Extract, chunk, embed, and store a document file (PDF, DOCX, plain text, or image) so it can be queried later. Re-ingesting a file replaces its previous version.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the document file",
				},
			},
			Required: []string{"path"},
		},
	}, handlers.IngestDocument)

	// 3. query_documents - retrieve the closest stored chunks
	server.AddTool(mcp.Tool{
		Name:        "query_documents",
		Description: "Search stored documents by semantic similarity and return the closest chunks with scores.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural-language search query",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of chunks to return (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.QueryDocuments)

	// 4. live_search - answer a time-sensitive query from the web
	server.AddTool(mcp.Tool{
		Name:        "live_search",
		Description: "Answer a time-sensitive question using live web search. Always returns a readable reply, even when the search provider is down.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The question to search for",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.LiveSearch)

	// 5. get_user_context - read stored personal details
	server.AddTool(mcp.Tool{
		Name:        "get_user_context",
		Description: "Get the stored user context for a session: name, age, location, interests, and preferences.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session identifier. Omit to use the default session.",
				},
				"attribute": map[string]interface{}{
					"type":        "string",
					"description": "One of name, age, location, interests, preferences. Omit for the full record.",
				},
			},
		},
	}, handlers.GetUserContext)

	// 6. set_user_context - store one personal detail
	server.AddTool(mcp.Tool{
		Name:        "set_user_context",
		Description: "Store one user context attribute for a session. Attribute must be one of name, age, location, interests, preferences.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session identifier. Omit to use the default session.",
				},
				"attribute": map[string]interface{}{
					"type":        "string",
					"description": "One of name, age, location, interests, preferences",
				},
				"value": map[string]interface{}{
					"type":        "string",
					"description": "The value to store",
				},
				"key": map[string]interface{}{
					"type":        "string",
					"description": "Preference key, required when attribute is preferences",
				},
			},
			Required: []string{"attribute", "value"},
		},
	}, handlers.SetUserContext)
}
