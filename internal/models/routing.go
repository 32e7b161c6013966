// ABOUTME: Routing decision types for the orchestrator
// ABOUTME: Closed enumeration; every message maps to exactly one route
package models

// Route labels the assistant an incoming message is dispatched to.
type Route string

const (
	// RouteDocumentIngest - message carries an attachment to add to the store
	RouteDocumentIngest Route = "document_ingest"

	// RouteDocumentQuery - question about stored document content
	RouteDocumentQuery Route = "document_query"

	// RouteLiveSearch - time-sensitive factual query for live web search
	RouteLiveSearch Route = "live_search"

	// RouteContextSet - the user stated personal information to remember
	RouteContextSet Route = "context_set"

	// RouteContextGet - the user asked for stored personal information
	RouteContextGet Route = "context_get"

	// RouteOther - catch-all fallback for everything else
	RouteOther Route = "other"
)

// ContextOp is one parsed context mutation ("my name is Alice").
// A single message can carry several.
type ContextOp struct {
	Attribute ContextAttribute `json:"attribute"`
	Key       string           `json:"key,omitempty"` // preference key
	Value     string           `json:"value"`
}

// RoutingDecision is derived per message and never persisted.
type RoutingDecision struct {
	Route      Route            `json:"route"`
	Attachment string           `json:"attachment,omitempty"` // file path for ingestion
	SetOps     []ContextOp      `json:"set_ops,omitempty"`
	GetAttr    ContextAttribute `json:"get_attr,omitempty"` // empty means full record
}
