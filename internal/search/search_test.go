// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pdiddy/serp-analyzer/internal/httputil"
	"github.com/pdiddy/serp-analyzer/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

func testCfg() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "test/0.1",
		},
		Provider:      types.ProviderSerper,
		ProviderLimit: 10,
		MaxRetries:    2,
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// withSerperServer points the provider at an httptest server for the test.
func withSerperServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(h)
	old := serperSearchURL
	serperSearchURL = ts.URL
	t.Cleanup(func() {
		serperSearchURL = old
		ts.Close()
	})
	return ts
}

const sampleSerperJSON = `{
  "searchParameters": {"q": "transformer models"},
  "organic": [
    {"title": "Attention Is All You Need", "link": "https://www.arxiv.org/abs/1706.03762", "snippet": "We propose a new network architecture.", "position": 1},
    {"title": "BERT", "link": "https://aclanthology.org/N19-1423/", "snippet": "Results on eleven tasks.", "position": 2},
    {"title": "No link"}
  ]
}`

// --- DisplayLink ---

func TestDisplayLink(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"https://www.arxiv.org/abs/1706.03762", "arxiv.org"},
		{"https://aclanthology.org/N19-1423/", "aclanthology.org"},
		{"http://www.example.com:8080/x", "example.com"},
		{"", ""},
		{"not a url", "not a url"},
		{"://bad", "://bad"},
	}
	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			if got := DisplayLink(tt.link); got != tt.want {
				t.Errorf("DisplayLink(%q) = %q, want %q", tt.link, got, tt.want)
			}
		})
	}
}

func TestCapLimit(t *testing.T) {
	tests := []struct {
		limit, provider, want int
	}{
		{5, 10, 5},
		{20, 10, 10},
		{0, 10, 10},
		{-1, 0, DefaultProviderLimit},
		{3, 0, 3},
	}
	for _, tt := range tests {
		if got := capLimit(tt.limit, tt.provider); got != tt.want {
			t.Errorf("capLimit(%d, %d) = %d, want %d", tt.limit, tt.provider, got, tt.want)
		}
	}
}

// --- Mock results ---

func TestMockResultsDeterministic(t *testing.T) {
	a := MockResults("transformer models", 10)
	b := MockResults("something else", 10)
	if len(a) != 10 {
		t.Fatalf("len = %d, want 10", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("record %d differs between calls", i)
		}
		if a[i].Position != i+1 {
			t.Errorf("record %d position = %d", i, a[i].Position)
		}
	}
	if a[0].Title != "Transformer Models in Deep Learning: A Comprehensive Study" {
		t.Errorf("title = %q", a[0].Title)
	}
	if a[2].DisplayLink != "acmdigitallibrary" {
		t.Errorf("displayLink = %q", a[2].DisplayLink)
	}
	if a[9].Link != "https://arxiv.org/abs/2024.1009" {
		t.Errorf("link = %q", a[9].Link)
	}
}

func TestMockResultsCapped(t *testing.T) {
	if got := len(MockResults("q", 25)); got != 10 {
		t.Errorf("len = %d, want 10", got)
	}
	if got := len(MockResults("q", 3)); got != 3 {
		t.Errorf("len = %d, want 3", got)
	}
	if got := len(MockResults("q", -2)); got != 0 {
		t.Errorf("len = %d, want 0", got)
	}
}

func TestMockProvider(t *testing.T) {
	p := &MockProvider{Limit: 4}
	got, err := p.FetchResults(context.Background(), "q", 10)
	if err != nil {
		t.Fatalf("FetchResults: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("len = %d, want 4", len(got))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.FetchResults(ctx, "q", 10); err == nil {
		t.Error("expected error for cancelled context")
	}
}

// --- Serper provider ---

func TestSerperRequest(t *testing.T) {
	var gotKey, gotCT string
	var body serperRequest
	withSerperServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		gotKey = r.Header.Get("X-API-KEY")
		gotCT = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		fmt.Fprint(w, `{"organic":[]}`)
	})

	p := &SerperProvider{Client: http.DefaultClient, APIKey: "secret", Config: testCfg(), Logger: quietLogger()}
	if _, err := p.FetchResults(context.Background(), `say "hi"`, 25); err != nil {
		t.Fatalf("FetchResults: %v", err)
	}

	if gotKey != "secret" {
		t.Errorf("X-API-KEY = %q", gotKey)
	}
	if gotCT != "application/json" {
		t.Errorf("Content-Type = %q", gotCT)
	}
	if body.Q != `say "hi"` {
		t.Errorf("q = %q", body.Q)
	}
	if body.Num != 10 {
		t.Errorf("num = %d, want 10 (provider cap)", body.Num)
	}
}

func TestSerperParsesOrganicResults(t *testing.T) {
	withSerperServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sampleSerperJSON)
	})

	p := &SerperProvider{APIKey: "k", Config: testCfg(), Logger: quietLogger()}
	got, err := p.FetchResults(context.Background(), "transformer models", 10)
	if err != nil {
		t.Fatalf("FetchResults: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	want := types.TextRecord{
		Title:       "Attention Is All You Need",
		Link:        "https://www.arxiv.org/abs/1706.03762",
		Snippet:     "We propose a new network architecture.",
		DisplayLink: "arxiv.org",
		Position:    1,
	}
	if got[0] != want {
		t.Errorf("got[0] = %+v, want %+v", got[0], want)
	}
	if got[1].DisplayLink != "aclanthology.org" || got[1].Position != 2 {
		t.Errorf("got[1] = %+v", got[1])
	}
	if got[2].Link != "" || got[2].DisplayLink != "" || got[2].Snippet != "" {
		t.Errorf("missing fields should be empty, got %+v", got[2])
	}
}

func TestSerperTruncatesToLimit(t *testing.T) {
	withSerperServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, sampleSerperJSON)
	})

	p := &SerperProvider{APIKey: "k", Config: testCfg(), Logger: quietLogger()}
	got, err := p.FetchResults(context.Background(), "q", 2)
	if err != nil {
		t.Fatalf("FetchResults: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestSerperMissingOrganicIsEmpty(t *testing.T) {
	withSerperServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"searchParameters":{}}`)
	})

	p := &SerperProvider{APIKey: "k", Config: testCfg(), Logger: quietLogger()}
	got, err := p.FetchResults(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("FetchResults: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestSerperFallsBackToMock(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"forbidden", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}},
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"rate limited", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}},
		{"invalid json", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"organic": [`)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withSerperServer(t, tt.handler)

			p := &SerperProvider{APIKey: "k", Config: testCfg(), Logger: quietLogger()}
			got, err := p.FetchResults(context.Background(), "q", 4)
			if err != nil {
				t.Fatalf("FetchResults should not fail: %v", err)
			}
			want := MockResults("q", 4)
			if len(got) != len(want) {
				t.Fatalf("len = %d, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("record %d = %+v, want mock %+v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestSerperRateLimitedFallbackWithDefaultConfig(t *testing.T) {
	var calls int32
	withSerperServer(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	cfg := types.DefaultPipelineConfig().Search
	p := &SerperProvider{APIKey: "k", Config: cfg, Logger: quietLogger()}

	start := time.Now()
	got, err := p.FetchResults(context.Background(), "q", 4)
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("FetchResults should not fail: %v", err)
	}
	if elapsed >= cfg.Timeout {
		t.Errorf("fallback took %v, want under %v", elapsed, cfg.Timeout)
	}
	if n := atomic.LoadInt32(&calls); n != int32(cfg.MaxRetries+1) {
		t.Errorf("calls = %d, want %d", n, cfg.MaxRetries+1)
	}
	if len(got) != 4 || got[0] != MockResults("q", 4)[0] {
		t.Errorf("expected mock fallback, got %+v", got)
	}
}

func TestSerperRetriesStopAtTimeout(t *testing.T) {
	withSerperServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	cfg := testCfg()
	cfg.Timeout = 100 * time.Millisecond
	cfg.RetryDelay = 10 * time.Second
	cfg.MaxRetries = 5
	p := &SerperProvider{APIKey: "k", Config: cfg, Logger: quietLogger()}

	start := time.Now()
	got, err := p.FetchResults(context.Background(), "q", 3)
	if err != nil {
		t.Fatalf("FetchResults should not fail: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("fallback took %v, want about %v", elapsed, cfg.Timeout)
	}
	if len(got) != 3 {
		t.Errorf("len = %d, want 3 mock records", len(got))
	}
}

func TestSerperWithoutAPIKeyUsesMock(t *testing.T) {
	called := false
	withSerperServer(t, func(w http.ResponseWriter, _ *http.Request) {
		called = true
	})

	p := &SerperProvider{Config: testCfg(), Logger: quietLogger()}
	got, err := p.FetchResults(context.Background(), "q", 10)
	if err != nil {
		t.Fatalf("FetchResults: %v", err)
	}
	if called {
		t.Error("provider should not call the API without a key")
	}
	if len(got) != 10 || !strings.Contains(got[0].Snippet, "methodology") {
		t.Errorf("expected mock results, got %d records", len(got))
	}
}

func TestSerperCancelledContext(t *testing.T) {
	withSerperServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	p := &SerperProvider{APIKey: "k", Config: testCfg(), Logger: quietLogger()}
	if _, err := p.FetchResults(ctx, "q", 3); err == nil {
		t.Error("expected context error")
	}
}

// --- NewProvider ---

func TestNewProvider(t *testing.T) {
	cfg := testCfg()
	p, err := NewProvider(cfg, quietLogger())
	if err != nil || p.Name() != "serper" {
		t.Errorf("serper: got %v, %v", p, err)
	}

	cfg.Provider = types.ProviderMock
	p, err = NewProvider(cfg, quietLogger())
	if err != nil || p.Name() != "mock" {
		t.Errorf("mock: got %v, %v", p, err)
	}

	cfg.Provider = "bing"
	if _, err := NewProvider(cfg, quietLogger()); err == nil {
		t.Error("expected error for unknown provider")
	}
}
