package google

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/google-geocoding/internal/domain"
	"github.com/couchcryptid/google-geocoding/internal/observability"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Client implements domain.Fetcher with a plain HTTP GET against the
// Geocoding API. It never interprets the payload; any HTTP status is handed
// back to the caller together with the body.
type Client struct {
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Google geocoding transport with the given request timeout.
func NewClient(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Fetch performs a GET on url. Failing to obtain a complete response is
// reported as *domain.TransportError.
func (c *Client) Fetch(ctx context.Context, url string) (domain.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Response{}, &domain.TransportError{URL: url, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.Warn("google geocoding request error", "error", err)
		return domain.Response{}, &domain.TransportError{URL: url, Err: fmt.Errorf("geocode request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.logger.Warn("google geocoding read error", "status", resp.StatusCode, "error", err)
		return domain.Response{}, &domain.TransportError{URL: url, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("google geocoding non-200 response", "status", resp.StatusCode)
	}
	return domain.Response{StatusCode: resp.StatusCode, Body: body}, nil
}
