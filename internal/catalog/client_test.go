package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(Options{BaseURL: server.URL + "/api/movies", Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), DefaultBaseURL)
	}

	u, err = parseBaseURL("example.com:3000/api/movies/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Path != "/api/movies" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestParseBaseURL_MissingHostFails(t *testing.T) {
	if _, err := parseBaseURL("http:///api"); err == nil {
		t.Fatalf("parseBaseURL returned nil error, want missing host error")
	}
}

func TestClient_FetchesEndpointsAndEncodesQueries(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var gotQuery string
	var gotUserAgent, gotRequestID string

	poster := "/poster.jpg"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotUserAgent = r.Header.Get("User-Agent")
		gotRequestID = r.Header.Get("X-Request-ID")
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/movies/trending":
			_ = json.NewEncoder(w).Encode(ListResponse{Results: []MovieSummary{
				{ID: 1, Title: "A", PosterPath: &poster},
				{ID: 2, Title: "B"},
			}})
		case "/api/movies/movies/search":
			mu.Lock()
			gotQuery = r.URL.Query().Get("q")
			mu.Unlock()
			_ = json.NewEncoder(w).Encode(ListResponse{Results: []MovieSummary{{ID: 3, Title: "C"}}})
		case "/api/movies/movies/42":
			_, _ = w.Write([]byte(`{"id":42,"title":"Answer","tagline":"Think","runtime":121,
				"overview":"Deep","genres":[{"id":18,"name":"Drama"},{"id":878,"name":"Science Fiction"}],
				"release_date":"1999-03-30","vote_average":8.2}`))
		case "/api/movies/movies/42/recommendations":
			_ = json.NewEncoder(w).Encode(ListResponse{Results: []MovieSummary{{ID: 7}}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	trending, err := c.Trending(ctx)
	if err != nil {
		t.Fatalf("Trending returned error: %v", err)
	}
	if len(trending) != 2 || trending[0].ID != 1 || trending[1].ID != 2 {
		t.Fatalf("Trending = %#v, want ids [1 2]", trending)
	}
	if !trending[0].HasPoster() || trending[1].HasPoster() {
		t.Fatalf("poster paths not decoded: %#v", trending)
	}

	results, err := c.Search(ctx, "star wars & co")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 1 || results[0].ID != 3 {
		t.Fatalf("Search = %#v, want 1 item id=3", results)
	}

	detail, err := c.Movie(ctx, 42)
	if err != nil {
		t.Fatalf("Movie returned error: %v", err)
	}
	if detail.ID != 42 || detail.Runtime != 121 || detail.Tagline != "Think" {
		t.Fatalf("Movie = %#v, want id=42 runtime=121", detail)
	}
	if names := detail.GenreNames(); len(names) != 2 || names[1] != "Science Fiction" {
		t.Fatalf("GenreNames = %v, want [Drama Science Fiction]", names)
	}

	recs, err := c.Recommendations(ctx, 42)
	if err != nil {
		t.Fatalf("Recommendations returned error: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != 7 {
		t.Fatalf("Recommendations = %#v, want 1 item id=7", recs)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotQuery != "star wars & co" {
		t.Fatalf("search q = %q, want %q", gotQuery, "star wars & co")
	}
	if !strings.HasPrefix(gotUserAgent, "marquee/") {
		t.Fatalf("User-Agent = %q, want marquee/*", gotUserAgent)
	}
	if gotRequestID == "" {
		t.Fatalf("X-Request-ID header missing")
	}
}

func TestClient_MissingResultsDecodesEmpty(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1}`))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server)
	items, err := c.Trending(context.Background())
	if err != nil {
		t.Fatalf("Trending returned error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("Trending = %#v, want empty non-nil slice", items)
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/movies/trending":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/api/movies/movies/5":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server)

	_, err := c.Trending(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("Trending error = %v, want decode response error", err)
	}
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("Trending error = %v, want ErrFetchFailed", err)
	}

	_, err = c.Movie(context.Background(), 5)
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("Movie error = %v, want status 500 error", err)
	}
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("Movie error = %v, want ErrFetchFailed", err)
	}
}

func TestClient_InvalidIDFailsWithoutRequest(t *testing.T) {
	c, err := NewClient(Options{BaseURL: "127.0.0.1:1", Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.Movie(context.Background(), 0); !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("Movie(0) error = %v, want ErrFetchFailed", err)
	}
	if _, err := c.Recommendations(context.Background(), -1); !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("Recommendations(-1) error = %v, want ErrFetchFailed", err)
	}
}

func TestClient_CancelledContextKeepsCause(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	c := newTestClient(t, server)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Trending(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Trending error = %v, want context.Canceled", err)
	}
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("Trending error = %v, want ErrFetchFailed", err)
	}
}

func TestClient_RateLimiterGivesUpOnDeadline(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(Options{BaseURL: server.URL, RateLimit: 0.001, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	for i := 0; i < rateBurst; i++ {
		if _, err := c.Trending(context.Background()); err != nil {
			t.Fatalf("Trending #%d returned error: %v", i, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.Trending(ctx); !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("Trending error = %v, want ErrFetchFailed", err)
	}
	if got := hits.Load(); got != rateBurst {
		t.Fatalf("server hits = %d, want %d", got, rateBurst)
	}
}
