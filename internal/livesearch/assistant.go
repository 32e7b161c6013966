// ABOUTME: Live search assistant answering time-sensitive queries from web results
// ABOUTME: Provider failures become readable replies, never raised errors
package livesearch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/maitre-ai/maitre/internal/search"
)

// Fallback replies for provider failures. Search trouble is a fact worth
// telling the user, not an internal error.
const (
	RateLimitedReply = "The live search service is rate limited right now. Please try again in a little while."
	UnavailableReply = "I couldn't reach the live search service. Please try again later."
	NoResultsReply   = "I searched the web but found nothing relevant to that query."
)

const synthesisSystemPrompt = `You are a research assistant. Answer the question using ONLY the provided web search results.
Be concise and factual. Mention the source when it matters. If the results do not answer the question, say so.`

// Searcher runs one web search. Satisfied by search.Client.
type Searcher interface {
	Search(ctx context.Context, query string) (*search.Response, error)
}

// Synthesizer produces a grounded completion. Satisfied by llm.Client.
type Synthesizer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Assistant answers live queries through a search provider.
type Assistant struct {
	searcher Searcher
	synth    Synthesizer
}

// New creates a live search assistant. synth may be nil, in which case the
// provider's own answer and snippets are returned directly.
func New(searcher Searcher, synth Synthesizer) (*Assistant, error) {
	if searcher == nil {
		return nil, fmt.Errorf("searcher is required")
	}
	return &Assistant{searcher: searcher, synth: synth}, nil
}

// Answer runs a search and phrases a reply. Every failure mode maps to a
// user-readable message, so the return is always a displayable string.
func (a *Assistant) Answer(ctx context.Context, query string) string {
	resp, err := a.searcher.Search(ctx, query)
	if err != nil {
		switch {
		case errors.Is(err, search.ErrRateLimited):
			return RateLimitedReply
		case errors.Is(err, search.ErrNoResults):
			return NoResultsReply
		default:
			return UnavailableReply
		}
	}

	if a.synth != nil {
		if reply, err := a.synthesize(ctx, query, resp); err == nil {
			return reply
		}
		// Synthesis failing is no reason to discard good search results.
	}
	return formatResponse(resp)
}

func (a *Assistant) synthesize(ctx context.Context, query string, resp *search.Response) (string, error) {
	var b strings.Builder
	b.WriteString("Web search results:\n\n")
	if resp.Answer != "" {
		fmt.Fprintf(&b, "Provider summary: %s\n\n", resp.Answer)
	}
	for i, r := range resp.Results {
		fmt.Fprintf(&b, "[%d] %s (%s)\n%s\n\n", i+1, r.Title, r.URL, r.Snippet)
	}
	fmt.Fprintf(&b, "Question: %s", query)

	return a.synth.Complete(ctx, synthesisSystemPrompt, b.String())
}

// formatResponse renders the provider's answer and top sources verbatim.
func formatResponse(resp *search.Response) string {
	var b strings.Builder
	if resp.Answer != "" {
		b.WriteString(resp.Answer)
	}
	if len(resp.Results) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n\nSources:\n")
		}
		for _, r := range resp.Results {
			fmt.Fprintf(&b, "- %s: %s\n", r.Title, r.URL)
		}
	}
	if b.Len() == 0 {
		return NoResultsReply
	}
	return strings.TrimSpace(b.String())
}
