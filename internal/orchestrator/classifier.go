// ABOUTME: Message classifier mapping each utterance to exactly one route
// ABOUTME: Rule-based with an optional LLM arbiter for otherwise-unmatched messages
package orchestrator

import (
	"context"
	"regexp"
	"strings"

	"github.com/maitre-ai/maitre/internal/models"
)

// attachmentRe matches the attachment marker the chat surface appends to a
// message when the user uploads a file, with or without quotes around the path.
var attachmentRe = regexp.MustCompile(`\[Attachment:\s*'?([^'\]]+?)'?\]`)

// Context mutation patterns. A single message can match several.
var (
	nameRe = regexp.MustCompile(`(?i)\bmy name is\s+([A-Za-z][A-Za-z '-]*?)(?:[.,;!]|$|\s+and\b|\s+i\b)`)
	// Bare "I'm N" only counts as an age at a clause end; "I'm 30 minutes
	// away" is a duration, not an age.
	ageRe        = regexp.MustCompile(`(?i)\b(?:i(?:'|\x{2019})?m|i am|my age is)\s+(\d{1,3})(?:\s+years?\s+old\b|\s+and\b|\s*(?:[.,;!]|$))`)
	locationRe   = regexp.MustCompile(`(?i)\bi live in\s+([A-Za-z][A-Za-z '-]*?)(?:[.,;!]|$|\s+and\b)`)
	interestRe   = regexp.MustCompile(`(?i)\bi (?:like|love|enjoy|am interested in)\s+([A-Za-z][A-Za-z '-]*?)(?:[.,;!]|$|\s+and\b)`)
	preferenceRe = regexp.MustCompile(`(?i)\bmy preference for\s+([A-Za-z0-9_ -]+?)\s+is\s+([A-Za-z0-9_ -]+?)(?:[.,;!]|$)`)
)

// Context read patterns, per attribute plus the whole-record question.
var (
	getNameRe        = regexp.MustCompile(`(?i)\bwhat(?:'|\x{2019})?s my name\b|\bwhat is my name\b`)
	getAgeRe         = regexp.MustCompile(`(?i)\bhow old am i\b|\bwhat(?:'|\x{2019})?s my age\b|\bwhat is my age\b`)
	getLocationRe    = regexp.MustCompile(`(?i)\bwhere do i live\b|\bwhat(?:'|\x{2019})?s my location\b|\bwhat is my location\b`)
	getInterestsRe   = regexp.MustCompile(`(?i)\bwhat are my interests\b|\bwhat do i like\b`)
	getPreferencesRe = regexp.MustCompile(`(?i)\bwhat are my preferences\b`)
	getAllRe         = regexp.MustCompile(`(?i)\bwhat do you know about me\b|\bshow my (?:info|profile)\b|\bmy user info\b`)
)

// ingestPhrases route to document ingestion even without an attachment marker.
var ingestPhrases = []string{"add document", "upload document", "add this document", "ingest"}

// documentKeywords signal a question about stored documents. Checked before
// live keywords: a question that names the user's documents stays local even
// when it also sounds time-sensitive.
var documentKeywords = []string{
	"document", "documents", "my notes", "the file", "my files",
	"the pdf", "according to", "summarize", "summarise", "uploaded",
}

// liveKeywords signal a time-sensitive factual query for web search.
var liveKeywords = []string{
	"latest", "current", "today", "right now", "this week",
	"price", "weather", "news", "stock", "bitcoin", "happening",
}

// classifierInstruction is the prompt for the optional LLM arbiter.
const classifierInstruction = `Classify the user's chat message by what capability should answer it:
- document_query: a question about the user's stored documents or notes
- live_search: a question needing current real-world information from the web
- other: greetings, chit-chat, or anything else`

// LabelClassifier picks one label for a message. Satisfied by llm.Client.
type LabelClassifier interface {
	ClassifyLabel(ctx context.Context, instruction, message string, labels []string) (string, error)
}

// Classifier derives a routing decision per message. The zero-value rules
// always apply; llm, when set, arbitrates messages no rule matched.
type Classifier struct {
	llm LabelClassifier
}

// NewClassifier creates a rule-based classifier. llm may be nil.
func NewClassifier(llm LabelClassifier) *Classifier {
	return &Classifier{llm: llm}
}

// Classify maps a message to exactly one routing decision. Precedence:
// attachment/ingest, context set, context get, document query, live search,
// then the fallback. Classification never fails; unmatched input is "other".
func (c *Classifier) Classify(ctx context.Context, message string) models.RoutingDecision {
	if m := attachmentRe.FindStringSubmatch(message); m != nil {
		return models.RoutingDecision{
			Route:      models.RouteDocumentIngest,
			Attachment: strings.TrimSpace(m[1]),
		}
	}

	lower := strings.ToLower(message)
	for _, phrase := range ingestPhrases {
		if strings.Contains(lower, phrase) {
			return models.RoutingDecision{Route: models.RouteDocumentIngest}
		}
	}

	if ops := parseSetOps(message); len(ops) > 0 {
		return models.RoutingDecision{Route: models.RouteContextSet, SetOps: ops}
	}

	if attr, ok := matchGet(message); ok {
		return models.RoutingDecision{Route: models.RouteContextGet, GetAttr: attr}
	}

	for _, kw := range documentKeywords {
		if strings.Contains(lower, kw) {
			return models.RoutingDecision{Route: models.RouteDocumentQuery}
		}
	}
	for _, kw := range liveKeywords {
		if strings.Contains(lower, kw) {
			return models.RoutingDecision{Route: models.RouteLiveSearch}
		}
	}

	if c.llm != nil {
		label, err := c.llm.ClassifyLabel(ctx, classifierInstruction, message, []string{
			string(models.RouteDocumentQuery),
			string(models.RouteLiveSearch),
			string(models.RouteOther),
		})
		if err == nil {
			return models.RoutingDecision{Route: models.Route(label)}
		}
		// Arbiter failure falls through to the rule-based default.
	}

	return models.RoutingDecision{Route: models.RouteOther}
}

// parseSetOps extracts every context mutation in the message, in the order
// name, age, location, interest, preference.
func parseSetOps(message string) []models.ContextOp {
	var ops []models.ContextOp

	if m := nameRe.FindStringSubmatch(message); m != nil {
		ops = append(ops, models.ContextOp{Attribute: models.AttrName, Value: strings.TrimSpace(m[1])})
	}
	if m := ageRe.FindStringSubmatch(message); m != nil {
		ops = append(ops, models.ContextOp{Attribute: models.AttrAge, Value: m[1]})
	}
	if m := locationRe.FindStringSubmatch(message); m != nil {
		ops = append(ops, models.ContextOp{Attribute: models.AttrLocation, Value: strings.TrimSpace(m[1])})
	}
	if m := interestRe.FindStringSubmatch(message); m != nil {
		ops = append(ops, models.ContextOp{Attribute: models.AttrInterests, Value: strings.TrimSpace(m[1])})
	}
	if m := preferenceRe.FindStringSubmatch(message); m != nil {
		ops = append(ops, models.ContextOp{
			Attribute: models.AttrPreferences,
			Key:       strings.TrimSpace(m[1]),
			Value:     strings.TrimSpace(m[2]),
		})
	}
	return ops
}

func matchGet(message string) (models.ContextAttribute, bool) {
	switch {
	case getNameRe.MatchString(message):
		return models.AttrName, true
	case getAgeRe.MatchString(message):
		return models.AttrAge, true
	case getLocationRe.MatchString(message):
		return models.AttrLocation, true
	case getInterestsRe.MatchString(message):
		return models.AttrInterests, true
	case getPreferencesRe.MatchString(message):
		return models.AttrPreferences, true
	case getAllRe.MatchString(message):
		return "", true
	}
	return "", false
}
