// ABOUTME: Tests for the Tavily search client against a local httptest server
// ABOUTME: Verifies request shape and the typed error taxonomy
package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		APIKey:     "tvly-test",
		BaseURL:    srv.URL,
		RetryDelay: time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestSearch_RequestShape(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q, want /search", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"answer": "42", "results": [{"title": "t", "url": "u", "content": "c"}]}`))
	})

	resp, err := c.Search(context.Background(), "meaning of life")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if gotBody["api_key"] != "tvly-test" || gotBody["query"] != "meaning of life" {
		t.Errorf("request body = %v", gotBody)
	}
	if gotBody["search_depth"] != "basic" || gotBody["include_answer"] != true {
		t.Errorf("request body = %v", gotBody)
	}
	if gotBody["max_results"] != float64(5) {
		t.Errorf("max_results = %v, want 5", gotBody["max_results"])
	}

	if resp.Answer != "42" || len(resp.Results) != 1 || resp.Results[0].Snippet != "c" {
		t.Errorf("response = %+v", resp)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request sent for empty query")
	})

	_, err := c.Search(context.Background(), "")
	if !errors.Is(err, ErrNoResults) {
		t.Errorf("Search(\"\") error = %v, want ErrNoResults", err)
	}
}

func TestSearch_NoResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"answer": "", "results": []}`))
	})

	_, err := c.Search(context.Background(), "gibberish zxqv")
	if !errors.Is(err, ErrNoResults) {
		t.Errorf("Search() error = %v, want ErrNoResults", err)
	}
}

func TestSearch_RateLimitedNoRetry(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	})
	c.maxRetries = 3

	_, err := c.Search(context.Background(), "anything")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("Search() error = %v, want ErrRateLimited", err)
	}
	if calls != 1 {
		t.Errorf("server called %d times, want 1", calls)
	}
}

func TestSearch_ServerErrorRetriesThenUnavailable(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	})
	c.maxRetries = 2

	_, err := c.Search(context.Background(), "anything")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Search() error = %v, want ErrUnavailable", err)
	}
	if calls != 3 {
		t.Errorf("server called %d times, want 3", calls)
	}
}

func TestSearch_RecoversAfterTransientError(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"answer": "recovered", "results": []}`))
	})
	c.maxRetries = 2

	resp, err := c.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if resp.Answer != "recovered" {
		t.Errorf("Answer = %q", resp.Answer)
	}
}
