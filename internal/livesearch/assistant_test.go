// ABOUTME: Tests for the live search assistant's reply phrasing
// ABOUTME: Covers synthesis, fallbacks, and the provider failure messages
package livesearch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/maitre-ai/maitre/internal/search"
)

type fakeSearcher struct {
	resp *search.Response
	err  error
}

func (f *fakeSearcher) Search(_ context.Context, _ string) (*search.Response, error) {
	return f.resp, f.err
}

type fakeSynth struct {
	reply    string
	err      error
	lastUser string
}

func (f *fakeSynth) Complete(_ context.Context, _, user string) (string, error) {
	f.lastUser = user
	return f.reply, f.err
}

func TestAnswer_SynthesizesFromResults(t *testing.T) {
	searcher := &fakeSearcher{resp: &search.Response{
		Answer: "It is sunny.",
		Results: []search.Result{
			{Title: "Weather Today", URL: "https://example.com/wx", Snippet: "Sunny, 25C"},
		},
	}}
	synth := &fakeSynth{reply: "Sunny and 25 degrees."}

	a, err := New(searcher, synth)
	if err != nil {
		t.Fatal(err)
	}

	got := a.Answer(context.Background(), "weather today?")
	if got != synth.reply {
		t.Errorf("Answer() = %q", got)
	}
	for _, want := range []string{"Sunny, 25C", "Weather Today", "weather today?"} {
		if !strings.Contains(synth.lastUser, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestAnswer_SynthesisFailureFallsBackToResults(t *testing.T) {
	searcher := &fakeSearcher{resp: &search.Response{
		Answer:  "Provider answer.",
		Results: []search.Result{{Title: "Source", URL: "https://example.com"}},
	}}
	synth := &fakeSynth{err: errors.New("model down")}

	a, _ := New(searcher, synth)
	got := a.Answer(context.Background(), "anything")

	if !strings.Contains(got, "Provider answer.") {
		t.Errorf("Answer() = %q, want the provider answer", got)
	}
	if !strings.Contains(got, "https://example.com") {
		t.Errorf("Answer() = %q, want the source URL", got)
	}
}

func TestAnswer_NoSynthesizer(t *testing.T) {
	searcher := &fakeSearcher{resp: &search.Response{Answer: "Direct answer."}}

	a, _ := New(searcher, nil)
	if got := a.Answer(context.Background(), "q"); got != "Direct answer." {
		t.Errorf("Answer() = %q", got)
	}
}

func TestAnswer_FailureMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rate limited", search.ErrRateLimited, RateLimitedReply},
		{"no results", search.ErrNoResults, NoResultsReply},
		{"unavailable", search.ErrUnavailable, UnavailableReply},
		{"unknown error", errors.New("boom"), UnavailableReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := New(&fakeSearcher{err: tt.err}, nil)
			if got := a.Answer(context.Background(), "q"); got != tt.want {
				t.Errorf("Answer() = %q, want %q", got, tt.want)
			}
		})
	}
}
