// ABOUTME: Tests for the MCP tool handlers with fake collaborators
// ABOUTME: Exercises argument validation and result shaping per tool
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/maitre-ai/maitre/internal/contextstore"
	"github.com/maitre-ai/maitre/internal/models"
	"github.com/maitre-ai/maitre/internal/rag"
	"github.com/maitre-ai/maitre/internal/vectorstore"
)

type fakeRouter struct {
	lastSession string
	lastMessage string
}

func (f *fakeRouter) Handle(_ context.Context, sessionID, message string) string {
	f.lastSession = sessionID
	f.lastMessage = message
	return "routed: " + message
}

type fakeIngestor struct {
	err error
}

func (f *fakeIngestor) IngestFile(_ context.Context, path string) (*rag.IngestResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &rag.IngestResult{DocumentID: "doc", Filename: "report.pdf", Chunks: 3}, nil
}

type fakeRetriever struct {
	matches []vectorstore.Match
	err     error
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ string, _ int) ([]vectorstore.Match, error) {
	return f.matches, f.err
}

type fakeLive struct{}

func (fakeLive) Answer(_ context.Context, query string) string {
	return "live: " + query
}

func newTestHandlers() (*Handlers, *fakeRouter) {
	router := &fakeRouter{}
	h := NewHandlers(router, &fakeIngestor{}, &fakeRetriever{}, fakeLive{}, contextstore.New())
	return h, router
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestChat(t *testing.T) {
	h, router := newTestHandlers()

	result, err := h.Chat(context.Background(), callRequest(map[string]any{
		"message":    "hello",
		"session_id": "s1",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(t, result); got != "routed: hello" {
		t.Errorf("result = %q", got)
	}
	if router.lastSession != "s1" {
		t.Errorf("session = %q", router.lastSession)
	}
}

func TestChat_DefaultSession(t *testing.T) {
	h, router := newTestHandlers()

	if _, err := h.Chat(context.Background(), callRequest(map[string]any{"message": "hi"})); err != nil {
		t.Fatal(err)
	}
	if router.lastSession != DefaultSessionID {
		t.Errorf("session = %q, want %q", router.lastSession, DefaultSessionID)
	}
}

func TestChat_MissingMessage(t *testing.T) {
	h, _ := newTestHandlers()

	result, err := h.Chat(context.Background(), callRequest(map[string]any{}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("missing message did not produce a tool error")
	}
}

func TestIngestDocument(t *testing.T) {
	h, _ := newTestHandlers()

	result, err := h.IngestDocument(context.Background(), callRequest(map[string]any{"path": "/tmp/report.pdf"}))
	if err != nil {
		t.Fatal(err)
	}

	var res rag.IngestResult
	if err := json.Unmarshal([]byte(resultText(t, result)), &res); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if res.Filename != "report.pdf" || res.Chunks != 3 {
		t.Errorf("result = %+v", res)
	}
}

func TestIngestDocument_Failure(t *testing.T) {
	h, _ := newTestHandlers()
	h.ingestor = &fakeIngestor{err: errors.New("corrupt file")}

	result, err := h.IngestDocument(context.Background(), callRequest(map[string]any{"path": "/tmp/x.pdf"}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("failed ingestion did not produce a tool error")
	}
}

func TestQueryDocuments(t *testing.T) {
	h, _ := newTestHandlers()
	h.retriever = &fakeRetriever{matches: []vectorstore.Match{
		{
			Chunk: models.DocumentChunk{DocumentID: "doc", Index: 1, Text: "chunk text",
				Metadata: models.ChunkMetadata{Filename: "a.pdf"}},
			Score: 0.9,
		},
	}}

	result, err := h.QueryDocuments(context.Background(), callRequest(map[string]any{"query": "q"}))
	if err != nil {
		t.Fatal(err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "chunk text") || !strings.Contains(text, "a.pdf") {
		t.Errorf("result = %q", text)
	}
}

func TestQueryDocuments_Empty(t *testing.T) {
	h, _ := newTestHandlers()

	result, err := h.QueryDocuments(context.Background(), callRequest(map[string]any{"query": "q"}))
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(t, result); !strings.Contains(got, "No matching") {
		t.Errorf("result = %q", got)
	}
}

func TestLiveSearch(t *testing.T) {
	h, _ := newTestHandlers()

	result, err := h.LiveSearch(context.Background(), callRequest(map[string]any{"query": "weather"}))
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(t, result); got != "live: weather" {
		t.Errorf("result = %q", got)
	}
}

func TestSetAndGetUserContext(t *testing.T) {
	h, _ := newTestHandlers()
	ctx := context.Background()

	result, err := h.SetUserContext(ctx, callRequest(map[string]any{
		"session_id": "s1",
		"attribute":  "name",
		"value":      "Alice",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("set failed: %q", resultText(t, result))
	}

	result, err = h.GetUserContext(ctx, callRequest(map[string]any{
		"session_id": "s1",
		"attribute":  "name",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(t, result); got != "Alice" {
		t.Errorf("get = %q", got)
	}
}

func TestGetUserContext_FullRecord(t *testing.T) {
	h, _ := newTestHandlers()

	result, err := h.GetUserContext(context.Background(), callRequest(map[string]any{"session_id": "s1"}))
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(t, result); !strings.Contains(got, "User Info:") {
		t.Errorf("result = %q", got)
	}
}

func TestSetUserContext_UnknownAttribute(t *testing.T) {
	h, _ := newTestHandlers()

	result, err := h.SetUserContext(context.Background(), callRequest(map[string]any{
		"attribute": "email",
		"value":     "x@y.z",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("unknown attribute did not produce a tool error")
	}
}

func TestGetUserContext_UnknownAttribute(t *testing.T) {
	h, _ := newTestHandlers()

	result, err := h.GetUserContext(context.Background(), callRequest(map[string]any{"attribute": "email"}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("unknown attribute did not produce a tool error")
	}
}
