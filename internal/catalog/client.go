package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ErrFetchFailed is the single failure kind surfaced by the client. It covers
// transport errors, non-2xx statuses and undecodable bodies alike.
var ErrFetchFailed = errors.New("fetch failed")

// Fetcher defines the catalog operations the view controller depends on.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	Trending(ctx context.Context) ([]MovieSummary, error)
	Search(ctx context.Context, query string) ([]MovieSummary, error)
	Movie(ctx context.Context, id int) (*MovieDetail, error)
	Recommendations(ctx context.Context, id int) ([]MovieSummary, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the movie catalog HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	logger    zerolog.Logger
}

// Options configure a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// RateLimit caps requests per second. Zero or negative disables pacing.
	RateLimit float64
	// UserAgent overrides the User-Agent header, e.g. "marquee/1.2.0".
	UserAgent string
	Logger    zerolog.Logger
}

const (
	DefaultBaseURL   = "http://localhost:3000/api/movies"
	defaultUserAgent = "marquee/0.1"
	requestTimeout   = 10 * time.Second
	rateBurst        = 4
)

// NewClient builds a Client rooted at opts.BaseURL.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), rateBurst)
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
		limiter:   limiter,
		logger:    opts.Logger.With().Str("component", "catalog").Logger(),
	}, nil
}

// BaseURL returns the resolved API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Trending retrieves the trending movie list.
func (c *Client) Trending(ctx context.Context) ([]MovieSummary, error) {
	var payload ListResponse
	if err := c.get(ctx, nil, &payload, "trending"); err != nil {
		return nil, err
	}
	return nonNil(payload.Results), nil
}

// Search runs a free-text catalog search. The query is sent as-is apart from
// URL escaping; callers decide what counts as empty.
func (c *Client) Search(ctx context.Context, query string) ([]MovieSummary, error) {
	values := url.Values{}
	values.Set("q", query)
	var payload ListResponse
	if err := c.get(ctx, values, &payload, "movies", "search"); err != nil {
		return nil, err
	}
	return nonNil(payload.Results), nil
}

// Movie retrieves the full detail record for one movie.
func (c *Client) Movie(ctx context.Context, id int) (*MovieDetail, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: movie id %d is invalid", ErrFetchFailed, id)
	}
	var payload MovieDetail
	if err := c.get(ctx, nil, &payload, "movies", strconv.Itoa(id)); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Recommendations retrieves movies similar to id.
func (c *Client) Recommendations(ctx context.Context, id int) ([]MovieSummary, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: movie id %d is invalid", ErrFetchFailed, id)
	}
	var payload ListResponse
	if err := c.get(ctx, nil, &payload, "movies", strconv.Itoa(id), "recommendations"); err != nil {
		return nil, err
	}
	return nonNil(payload.Results), nil
}

func (c *Client) get(ctx context.Context, query url.Values, dest any, segments ...string) error {
	if c == nil {
		return fmt.Errorf("%w: client is nil", ErrFetchFailed)
	}
	reqURL := c.baseURL.JoinPath(segments...)
	if len(query) > 0 {
		reqURL.RawQuery = query.Encode()
	}
	return c.doURL(ctx, http.MethodGet, reqURL, dest)
}

func (c *Client) doURL(ctx context.Context, method string, reqURL *url.URL, dest any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: wait for rate limiter: %w", ErrFetchFailed, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrFetchFailed, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: execute request: %w", ErrFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug().
		Str("request_id", requestID).
		Str("path", reqURL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("catalog request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: api %s returned status %d", ErrFetchFailed, reqURL.Path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrFetchFailed, err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func nonNil(items []MovieSummary) []MovieSummary {
	if items == nil {
		return []MovieSummary{}
	}
	return items
}
