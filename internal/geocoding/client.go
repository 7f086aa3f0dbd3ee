package geocoding

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/couchcryptid/google-geocoding/internal/config"
	"github.com/couchcryptid/google-geocoding/internal/domain"
	"github.com/couchcryptid/google-geocoding/internal/observability"
)

// Accepted upstream statuses.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

// Client builds a Geocoding API query, serves it from cache when possible and
// normalizes fresh responses into a ResultSet of T.
//
// A Client wraps one mutable QueryBuilder and is not safe for concurrent use;
// build one per query (see Factory).
type Client[T any] struct {
	opts       Options
	query      *domain.QueryBuilder
	normalizer domain.Normalizer[T]
	codec      domain.Codec[T]
	fetcher    domain.Fetcher
	cache      domain.Cache
	audit      domain.AuditStore
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a Client that produces AddressRecord results.
func New(opts Options, deps Deps) (*Client[domain.AddressRecord], error) {
	return NewWithNormalizer(opts, deps, domain.AddressNormalizer)
}

// NewWithNormalizer creates a Client whose results are shaped by normalizer
// and cached as JSON.
func NewWithNormalizer[T any](opts Options, deps Deps, normalizer domain.Normalizer[T]) (*Client[T], error) {
	return NewWithCodec[T](opts, deps, normalizer, domain.JSONCodec[T]{})
}

// NewWithCodec creates a Client whose results are shaped by normalizer and
// stored in the cache through codec. Results the codec cannot reproduce
// exactly are returned but never cached.
// It fails with *domain.ConfigurationError when no API key is set, before any
// other state is built.
func NewWithCodec[T any](opts Options, deps Deps, normalizer domain.Normalizer[T], codec domain.Codec[T]) (*Client[T], error) {
	if opts.APIKey == "" {
		return nil, &domain.ConfigurationError{Setting: "api key", Reason: "an API key is required to use the Geocoding API"}
	}
	if deps.Fetcher == nil {
		return nil, &domain.ConfigurationError{Setting: "fetcher", Reason: "a transport is required"}
	}
	if deps.Cache == nil {
		return nil, &domain.ConfigurationError{Setting: "cache", Reason: "a cache is required"}
	}
	if normalizer == nil {
		return nil, &domain.ConfigurationError{Setting: "normalizer", Reason: "a normalizer is required"}
	}
	if codec == nil {
		return nil, &domain.ConfigurationError{Setting: "codec", Reason: "a cache codec is required"}
	}
	if opts.LogRequests && deps.Audit == nil {
		return nil, &domain.ConfigurationError{Setting: "audit store", Reason: "request logging is enabled without an audit store"}
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = observability.NewMetricsWith(nil)
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}

	params := map[string]string{domain.ParamKey: opts.APIKey}
	language := opts.DefaultLanguage
	if language == "" {
		language = opts.FallbackLanguage
	}
	if language != "" {
		params[domain.ParamLanguage] = language
	}
	var components map[string]string
	if opts.DefaultCountry != "" {
		components = map[string]string{domain.ComponentCountry: strings.ToUpper(opts.DefaultCountry)}
	}

	return &Client[T]{
		opts:       opts,
		query:      domain.NewQueryBuilder(baseURL, params, components),
		normalizer: normalizer,
		codec:      codec,
		fetcher:    deps.Fetcher,
		cache:      deps.Cache,
		audit:      deps.Audit,
		logger:     logger,
		metrics:    metrics,
	}, nil
}

// Address sets the free-text address to geocode.
func (c *Client[T]) Address(query string) *Client[T] {
	c.query.SetAddress(query)
	return c
}

// Coordinates sets the coordinates to reverse geocode, dropping components
// unless keepComponents is true.
func (c *Client[T]) Coordinates(lat, lng float64, keepComponents bool) *Client[T] {
	c.query.SetCoordinates(lat, lng, keepComponents)
	return c
}

// CoordinatesWithComponents sets coordinates and keeps existing components.
func (c *Client[T]) CoordinatesWithComponents(lat, lng float64) *Client[T] {
	c.query.SetCoordinatesKeepingComponents(lat, lng)
	return c
}

// Language sets the response language.
func (c *Client[T]) Language(code string) *Client[T] {
	c.query.SetLanguage(code)
	return c
}

// RemoveLanguage drops the language parameter.
func (c *Client[T]) RemoveLanguage() *Client[T] {
	c.query.RemoveLanguage()
	return c
}

// Country restricts results to a country.
func (c *Client[T]) Country(code string) *Client[T] {
	c.query.SetCountry(code)
	return c
}

// RemoveCountry drops the country restriction.
func (c *Client[T]) RemoveCountry() *Client[T] {
	c.query.RemoveCountry()
	return c
}

// AddComponent adds a structured filter such as postal_code.
func (c *Client[T]) AddComponent(key, value string) *Client[T] {
	c.query.AddComponent(key, value)
	return c
}

// RemoveComponent drops a structured filter.
func (c *Client[T]) RemoveComponent(key string) *Client[T] {
	c.query.RemoveComponent(key)
	return c
}

// AddParameter adds a raw query parameter such as region or bounds.
func (c *Client[T]) AddParameter(key, value string) *Client[T] {
	c.query.AddParameter(key, value)
	return c
}

// RemoveParameter drops a raw query parameter.
func (c *Client[T]) RemoveParameter(key string) *Client[T] {
	c.query.RemoveParameter(key)
	return c
}

// Query exposes the underlying builder.
func (c *Client[T]) Query() *domain.QueryBuilder {
	return c.query
}

// URL returns the current request URL.
func (c *Client[T]) URL() string {
	return c.query.URL()
}

// CacheKey returns the cache key of the current request URL.
func (c *Client[T]) CacheKey() string {
	return domain.CacheKey(c.query.URL())
}

// Get returns the results for the current query.
//
// A cached ResultSet is returned as stored. Otherwise the API is called once:
// "OK" and "ZERO_RESULTS" responses are normalized, cached and returned (an
// empty set for zero results). Any other response yields a nil set and a nil
// error. The only error returned is the transport's *domain.TransportError.
func (c *Client[T]) Get(ctx context.Context) (*domain.ResultSet[T], error) {
	u := c.query.URL()
	key := domain.CacheKey(u)

	if set, ok := c.cached(ctx, key); ok {
		c.metrics.GeocodeCache.WithLabelValues(observability.CacheHit).Inc()
		if c.opts.LogRequests {
			c.recordCacheUse(ctx, u)
		}
		return set, nil
	}
	c.metrics.GeocodeCache.WithLabelValues(observability.CacheMiss).Inc()

	resp, err := c.fetcher.Fetch(ctx, u)
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(observability.OutcomeError).Inc()
		return nil, err
	}

	body, err := decodeResponse(resp.Body)
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(observability.OutcomeError).Inc()
		c.reportFailure(ctx, u, resp, err)
		return nil, nil
	}

	set := domain.NewResultSet(body.Results, c.normalizer)
	if set.Len() == 0 {
		c.metrics.GeocodeRequests.WithLabelValues(observability.OutcomeEmpty).Inc()
	} else {
		c.metrics.GeocodeRequests.WithLabelValues(observability.OutcomeSuccess).Inc()
	}

	if c.opts.LogRequests {
		c.recordRequest(ctx, true, u, resp.Body)
	}
	c.store(ctx, key, set)

	return set, nil
}

// First returns the first result of Get. ok is false when there is no result
// or the result set is empty.
func (c *Client[T]) First(ctx context.Context) (T, bool, error) {
	var zero T
	set, err := c.Get(ctx)
	if err != nil || set == nil {
		return zero, false, err
	}
	first, ok := set.First()
	return first, ok, nil
}

// cached loads the entry for key. Any cache failure is treated as a miss.
func (c *Client[T]) cached(ctx context.Context, key string) (*domain.ResultSet[T], bool) {
	ok, err := c.cache.Has(ctx, key)
	if err != nil {
		c.logger.Warn("cache lookup failed", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			c.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	set, err := c.codec.Decode(data)
	if err != nil {
		c.logger.Warn("cached results are unreadable", "key", key, "error", err)
		return nil, false
	}
	return set, true
}

// store caches set only when the codec decodes it back to an equal set, so a
// cache hit always returns what a fresh lookup would.
func (c *Client[T]) store(ctx context.Context, key string, set *domain.ResultSet[T]) {
	data, err := c.codec.Encode(set)
	if err != nil {
		c.metrics.CacheWriteFailures.Inc()
		c.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	decoded, err := c.codec.Decode(data)
	if err != nil || !decoded.Equal(set) {
		c.metrics.CacheWriteFailures.Inc()
		c.logger.Warn("results do not survive cache encoding, not caching", "key", key, "error", err)
		return
	}
	if err := c.cache.Put(ctx, key, data, c.opts.CacheDuration); err != nil {
		c.metrics.CacheWriteFailures.Inc()
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

func (c *Client[T]) reportFailure(ctx context.Context, u string, resp domain.Response, err error) {
	if c.opts.LogErrors {
		attrs := []any{"url", u, "http_status", resp.StatusCode, "error", err}
		var upstream *domain.UpstreamError
		if errors.As(err, &upstream) {
			attrs = append(attrs, "status", upstream.Status, "error_message", upstream.Message)
		}
		c.logger.Error("google geocoding request failed", attrs...)
	}
	if c.opts.LogRequests {
		c.recordRequest(ctx, false, u, resp.Body)
	}
}

// recordRequest and recordCacheUse never fail the lookup; audit problems are
// logged and counted only.
func (c *Client[T]) recordRequest(ctx context.Context, successful bool, u string, body []byte) {
	record := domain.NewAuditRecord(successful, u, c.query.Parameters(), body)
	if err := c.audit.Insert(ctx, record); err != nil {
		c.metrics.AuditFailures.Inc()
		c.logger.Warn("audit insert failed", "url", u, "error", err)
	}
}

func (c *Client[T]) recordCacheUse(ctx context.Context, u string) {
	if err := c.audit.IncrementCacheUses(ctx, u); err != nil {
		c.metrics.AuditFailures.Inc()
		c.logger.Warn("audit cache use update failed", "url", u, "error", err)
	}
}
