// Package genius is a client for the Genius music-metadata API. It searches
// the catalog, resolves a search term to its primary artist, and builds
// lookup tables for batches of terms.
package genius

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public Genius API endpoint.
	DefaultBaseURL = "https://api.genius.com"

	// DefaultSearchLimit is the per_page value used when none is given.
	DefaultSearchLimit = 15

	// DefaultRequestsPerSecond paces requests made by a single client.
	DefaultRequestsPerSecond = 5

	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 1 * 1024 * 1024
)

// ArtistCache stores raw artist payloads keyed by Genius artist ID.
// GetArtist reports false when there is no fresh entry.
type ArtistCache interface {
	GetArtist(ctx context.Context, id int64) ([]byte, bool, error)
	PutArtist(ctx context.Context, id int64, raw []byte) error
}

// Client talks to the Genius API with a single access token.
type Client struct {
	client    *http.Client
	timeout   time.Duration
	limiter   *rate.Limiter
	cache     ArtistCache
	logger    *slog.Logger
	baseURL   string
	token     string
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root (for testing).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient replaces the default HTTP client. The client is used as
// given; WithTimeout does not modify it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero or less disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithCache attaches an artist payload cache.
func WithCache(cache ArtistCache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a client that authenticates every request with token.
func New(token string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, &ErrAuthRequired{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		timeout:   defaultTimeout,
		limiter:   rate.NewLimiter(DefaultRequestsPerSecond, 1),
		logger:    logger.With(slog.String("component", "genius")),
		baseURL:   DefaultBaseURL,
		token:     token,
		userAgent: "geniuslookup",
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

// Search returns the hits for term, asking for at most limit results.
// A limit of zero or less uses DefaultSearchLimit.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	params := url.Values{
		"q":            {term},
		"access_token": {c.token},
		"per_page":     {strconv.Itoa(limit)},
	}
	body, err := c.doRequest(ctx, "/search", params)
	if err != nil {
		return nil, err
	}

	var env searchEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}
	if env.Response == nil || len(env.Response.Hits) == 0 {
		return nil, &ErrMalformedResponse{Endpoint: "search", Field: "response.hits"}
	}

	// A null hits list means no match.
	hits := []Hit{}
	if string(env.Response.Hits) != "null" {
		if err := json.Unmarshal(env.Response.Hits, &hits); err != nil {
			return nil, fmt.Errorf("parsing search hits: %w", err)
		}
	}
	c.logger.Debug("search completed",
		slog.String("query", term),
		slog.Int("per_page", limit),
		slog.Int("hits", len(hits)))

	return hits, nil
}

// ResolveArtist searches for term and fetches the primary artist of the most
// relevant hit. It returns nil, nil when the search has no hits.
func (c *Client) ResolveArtist(ctx context.Context, term string) (*Artist, error) {
	hits, err := c.Search(ctx, term, DefaultSearchLimit)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	id, ok := hits[0].PrimaryArtistID()
	if !ok {
		return nil, &ErrMalformedHit{Term: term, Field: "result.primary_artist.id"}
	}

	return c.fetchArtistDetails(ctx, id)
}

// fetchArtistDetails returns response.artist for the given artist ID.
func (c *Client) fetchArtistDetails(ctx context.Context, id int64) (*Artist, error) {
	if c.cache != nil {
		raw, ok, err := c.cache.GetArtist(ctx, id)
		switch {
		case err != nil:
			c.logger.Warn("reading artist cache", slog.Int64("artist_id", id), slog.Any("error", err))
		case ok:
			var a Artist
			if err := json.Unmarshal(raw, &a); err == nil {
				c.logger.Debug("artist cache hit", slog.Int64("artist_id", id))
				return &a, nil
			}
			c.logger.Warn("discarding unreadable cache entry", slog.Int64("artist_id", id))
		}
	}

	path := "/artists/" + strconv.FormatInt(id, 10)
	body, err := c.doRequest(ctx, path, url.Values{"access_token": {c.token}})
	if err != nil {
		return nil, err
	}

	var env artistEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parsing artist response: %w", err)
	}
	if env.Response == nil || env.Response.Artist == nil {
		return nil, &ErrMalformedResponse{Endpoint: "artists", Field: "response.artist"}
	}

	var a Artist
	if err := json.Unmarshal(*env.Response.Artist, &a); err != nil {
		return nil, fmt.Errorf("parsing artist %d: %w", id, err)
	}

	if c.cache != nil {
		if err := c.cache.PutArtist(ctx, id, a.Raw); err != nil {
			c.logger.Warn("writing artist cache", slog.Int64("artist_id", id), slog.Any("error", err))
		}
	}

	return &a, nil
}

// doRequest executes a GET against path with params and returns the body.
// The access token travels in params, so the full URL is never logged.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ErrUnavailable{Cause: fmt.Errorf("rate limiter: %w", err)}
	}

	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req) //nolint:gosec // URL built from configured base URL
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			// url.Error embeds the request URL, which carries the token.
			err = uerr.Err
		}
		return nil, &ErrUnavailable{Cause: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusOK:
		// continue
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, &ErrAuthRequired{Cause: fmt.Errorf("%w (status %d)", ErrUnauthorized, resp.StatusCode)}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &ErrNotFound{Resource: path}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &ErrUnavailable{
			Cause:      fmt.Errorf("rate limited by server"),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	default:
		return nil, &ErrUnavailable{Cause: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, &ErrUnavailable{Cause: fmt.Errorf("reading response: %w", err)}
	}
	if len(body) > maxResponseBytes {
		return nil, &ErrResponseTooLarge{Resource: path, Limit: maxResponseBytes}
	}
	return body, nil
}

// parseRetryAfter reads a delay-seconds Retry-After value.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
