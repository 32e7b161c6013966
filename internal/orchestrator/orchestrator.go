// ABOUTME: Orchestrator dispatching each chat turn to the matching assistant
// ABOUTME: Failures are isolated per dispatch; a bad turn never takes the session down
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/maitre-ai/maitre/internal/contextstore"
	"github.com/maitre-ai/maitre/internal/extract"
	"github.com/maitre-ai/maitre/internal/models"
	"github.com/maitre-ai/maitre/internal/rag"
	"github.com/maitre-ai/maitre/internal/session"
)

const chatSystemPrompt = `You are a helpful chat assistant. You can also add documents, answer questions about stored documents, search the web for current information, and remember personal details, but for this message just reply conversationally.`

// FallbackReply answers unmatched messages when no chat model is configured.
const FallbackReply = "I can answer questions about your documents, search the web for current information, or remember details about you. What would you like to do?"

// DocumentAssistant covers ingestion and grounded answering. Satisfied by
// rag.Assistant.
type DocumentAssistant interface {
	IngestFile(ctx context.Context, path string) (*rag.IngestResult, error)
	Answer(ctx context.Context, question string) (string, error)
}

// LiveAssistant answers time-sensitive queries. Satisfied by
// livesearch.Assistant.
type LiveAssistant interface {
	Answer(ctx context.Context, query string) string
}

// Synthesizer handles small talk. Satisfied by llm.Client.
type Synthesizer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Orchestrator routes each message, applies context operations, and records
// the turn. One instance serves all sessions.
type Orchestrator struct {
	classifier *Classifier
	docs       DocumentAssistant
	live       LiveAssistant
	contexts   *contextstore.Store
	sessions   *session.Manager
	synth      Synthesizer
}

// Config assembles an Orchestrator.
type Config struct {
	Classifier *Classifier
	Documents  DocumentAssistant
	Live       LiveAssistant
	Contexts   *contextstore.Store
	Sessions   *session.Manager
	Synth      Synthesizer
}

// New creates an orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Documents == nil || cfg.Live == nil {
		return nil, fmt.Errorf("document and live assistants are required")
	}
	if cfg.Classifier == nil {
		cfg.Classifier = NewClassifier(nil)
	}
	if cfg.Contexts == nil {
		cfg.Contexts = contextstore.New()
	}
	if cfg.Sessions == nil {
		cfg.Sessions = session.NewManager()
	}
	return &Orchestrator{
		classifier: cfg.Classifier,
		docs:       cfg.Documents,
		live:       cfg.Live,
		contexts:   cfg.Contexts,
		sessions:   cfg.Sessions,
		synth:      cfg.Synth,
	}, nil
}

// Handle processes one user turn. The reply is always a displayable string;
// assistant failures degrade the turn, never the session.
func (o *Orchestrator) Handle(ctx context.Context, sessionID, message string) string {
	sess := o.sessions.GetOrCreate(sessionID)
	decision := o.classifier.Classify(ctx, message)
	reply := o.dispatch(ctx, sess.ID, message, decision)
	sess.Record(message, reply, decision.Route)
	return reply
}

// EndSession discards a session's transcript and context record.
func (o *Orchestrator) EndSession(sessionID string) bool {
	o.contexts.Drop(sessionID)
	return o.sessions.End(sessionID)
}

func (o *Orchestrator) dispatch(ctx context.Context, sessionID, message string, decision models.RoutingDecision) string {
	switch decision.Route {
	case models.RouteDocumentIngest:
		return o.ingest(ctx, decision.Attachment)
	case models.RouteDocumentQuery:
		reply, err := o.docs.Answer(ctx, message)
		if err != nil {
			return "I couldn't search your documents right now. Please try again later."
		}
		return reply
	case models.RouteLiveSearch:
		return o.live.Answer(ctx, message)
	case models.RouteContextSet:
		return o.applySetOps(sessionID, decision.SetOps)
	case models.RouteContextGet:
		return o.readContext(sessionID, decision.GetAttr)
	default:
		return o.smallTalk(ctx, message)
	}
}

func (o *Orchestrator) ingest(ctx context.Context, attachment string) string {
	if attachment == "" {
		return "Attach a file and I'll add it to your documents."
	}

	res, err := o.docs.IngestFile(ctx, attachment)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedType):
			return fmt.Sprintf("I can't read that file type. Supported formats are PDF, DOCX, plain text, and images. (%s)", attachment)
		case errors.Is(err, extract.ErrCorruptFile):
			return fmt.Sprintf("That file looks corrupt or unreadable, so I couldn't add it. (%s)", attachment)
		case errors.Is(err, extract.ErrEngineUnavailable):
			return "Document extraction isn't fully set up here, so I couldn't read that file."
		case errors.Is(err, extract.ErrEmptyText):
			return fmt.Sprintf("I couldn't find any text in that file. (%s)", attachment)
		default:
			return "Something went wrong adding that document. Please try again."
		}
	}
	return fmt.Sprintf("Added '%s' to your documents (%d sections indexed).", res.Filename, res.Chunks)
}

// applySetOps runs every parsed context mutation and reports each outcome.
// A rejected value never blocks the other mutations in the same message.
func (o *Orchestrator) applySetOps(sessionID string, ops []models.ContextOp) string {
	if len(ops) == 0 {
		return FallbackReply
	}

	confirmations := make([]string, 0, len(ops))
	for _, op := range ops {
		if err := o.contexts.Set(sessionID, op.Attribute, op.Key, op.Value); err != nil {
			var ve *contextstore.ValidationError
			if errors.As(err, &ve) {
				confirmations = append(confirmations, fmt.Sprintf("I couldn't save your %s: %s.", ve.Attribute, ve.Reason))
				continue
			}
			confirmations = append(confirmations, fmt.Sprintf("I couldn't save your %s.", op.Attribute))
			continue
		}
		confirmations = append(confirmations, confirmSet(op))
	}
	return strings.Join(confirmations, " ")
}

func confirmSet(op models.ContextOp) string {
	switch op.Attribute {
	case models.AttrName:
		return fmt.Sprintf("Okay, I'll remember that your name is %s.", op.Value)
	case models.AttrAge:
		return fmt.Sprintf("Got it, your age is now set to %s.", op.Value)
	case models.AttrLocation:
		return fmt.Sprintf("Sure, your location is now %s.", op.Value)
	case models.AttrInterests:
		return fmt.Sprintf("Added interest: %s.", op.Value)
	case models.AttrPreferences:
		return fmt.Sprintf("Set preference %s to %s.", op.Key, op.Value)
	default:
		return "Noted."
	}
}

func (o *Orchestrator) readContext(sessionID string, attr models.ContextAttribute) string {
	if attr == "" {
		return o.contexts.Describe(sessionID)
	}

	value, err := o.contexts.Get(sessionID, attr)
	if err != nil {
		if errors.Is(err, contextstore.ErrNotSet) {
			return fmt.Sprintf("I don't have your %s on record yet.", attr)
		}
		return fmt.Sprintf("I couldn't look up your %s.", attr)
	}

	switch attr {
	case models.AttrName:
		return fmt.Sprintf("Your name is %s.", value)
	case models.AttrAge:
		return fmt.Sprintf("You are %s years old.", value)
	case models.AttrLocation:
		return fmt.Sprintf("You live in %s.", value)
	case models.AttrInterests:
		return fmt.Sprintf("Your interests: %s.", value)
	case models.AttrPreferences:
		return fmt.Sprintf("Your preferences: %s.", value)
	default:
		return value
	}
}

func (o *Orchestrator) smallTalk(ctx context.Context, message string) string {
	if o.synth == nil {
		return FallbackReply
	}
	reply, err := o.synth.Complete(ctx, chatSystemPrompt, message)
	if err != nil {
		return FallbackReply
	}
	return reply
}
