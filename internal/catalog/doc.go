// Package catalog provides an HTTP client for the movie catalog API.
//
// # Overview
//
// The catalog API is a thin proxy in front of a third-party movie database.
// This package handles HTTP communication, JSON decoding and the typed
// representation of movies, and derives poster URLs for the image CDN.
//
// # Architecture
//
//   - client.go: HTTP client, request construction, error classification
//   - types.go: MovieSummary, MovieDetail, Genre and ListResponse
//   - images.go: Poster URL derivation with a placeholder fallback
//
// # API Endpoints
//
// All paths are relative to the configured base URL (which may itself carry
// a path prefix such as /api/movies):
//
//   - GET {base}/trending: {"results": [MovieSummary...]}
//   - GET {base}/movies/search?q=...: {"results": [MovieSummary...]}
//   - GET {base}/movies/{id}: MovieDetail
//   - GET {base}/movies/{id}/recommendations: {"results": [MovieSummary...]}
//
// A list payload without a results field yields an empty, non-nil slice.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and User-Agent: marquee/0.1
//   - Carry a fresh X-Request-ID that is also written to the debug log
//   - Share one http.Client timeout (10 seconds unless configured)
//
// # Error Handling
//
// Only one failure kind is distinguished. Every error returned by a fetch
// method wraps ErrFetchFailed, so callers test with
//
//	errors.Is(err, catalog.ErrFetchFailed)
//
// The message keeps the detail for diagnostics:
//   - "fetch failed: execute request: dial tcp: connection refused"
//   - "fetch failed: api /api/movies/trending returned status 502"
//   - "fetch failed: decode response: unexpected EOF"
//
// Transport errors are wrapped with %w as well, so a cancelled request still
// satisfies errors.Is(err, context.Canceled).
//
// # Thread Safety
//
// Client is safe for concurrent use; the view controller issues the detail
// and recommendation requests in parallel through one Client.
//
// # Design Rationale
//
// The client is deliberately plain:
//   - No caching (every tab switch refetches)
//   - No retries (failures are logged and swallowed one layer up)
//   - No pagination (the first page the API returns is the whole list)
package catalog
