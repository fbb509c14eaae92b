package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/solvurder/backend/internal/domain"
	"github.com/solvurder/backend/internal/observability"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const userAgent = "Solvurder/1.0 (+https://github.com/solvurder/backend)"

// ClientConfig holds fetch behavior settings.
type ClientConfig struct {
	Timeout       time.Duration
	RetryAttempts int
	MinImageBytes int
	RatePerSecond float64
	RateBurst     int
}

// Client performs bounded HTTP GETs against imagery providers and validates
// that responses are genuine image payloads. It never touches the cache.
type Client struct {
	httpClient    *http.Client
	rateLimiter   *rate.Limiter
	retryAttempts int
	minImageBytes int
	logger        *zap.Logger
	metrics       *observability.Metrics
}

// NewClient creates an imagery fetch client. The shared rate limiter keeps
// the service polite toward public tile hosts across all providers.
func NewClient(cfg ClientConfig, logger *zap.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter:   rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		retryAttempts: cfg.RetryAttempts,
		minImageBytes: cfg.MinImageBytes,
		logger:        logger,
		metrics:       metrics,
	}
}

// Fetch issues a single validated GET against one provider, retrying only
// transient failures. A structurally wrong response (error body disguised as
// 200, undersized tile) fails immediately: retrying cannot fix it.
func (c *Client) Fetch(ctx context.Context, desc Descriptor, req domain.ImageRequest) (*domain.SatelliteImage, error) {
	reqURL, err := desc.BuildURL(req)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= c.retryAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		start := time.Now()
		img, err := c.fetchOnce(ctx, reqURL, desc.Name)
		c.metrics.ProviderFetchSeconds.WithLabelValues(desc.Name).Observe(time.Since(start).Seconds())

		if err == nil {
			c.metrics.ProviderFetches.WithLabelValues(desc.Name, "success").Inc()
			return img, nil
		}

		if errors.Is(err, domain.ErrInvalidImageResponse) {
			c.metrics.ProviderFetches.WithLabelValues(desc.Name, "invalid").Inc()
			c.logger.Warn("provider returned non-image response",
				zap.String("provider", desc.Name),
				zap.Error(err))
			return nil, err
		}

		c.metrics.ProviderFetches.WithLabelValues(desc.Name, "transient").Inc()
		c.logger.Warn("provider fetch failed",
			zap.String("provider", desc.Name),
			zap.Int("attempt", attempt),
			zap.Error(err))
		lastErr = err

		if attempt < c.retryAttempts {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, ctx.Err())
			case <-time.After(exponentialBackoff(attempt)):
			}
		}
	}

	return nil, lastErr
}

// fetchOnce performs one GET and applies the validation rules in order:
// transport failure, HTTP status, declared content type, minimum size.
func (c *Client) fetchOnce(ctx context.Context, reqURL, sourceName string) (*domain.SatelliteImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	// Map services are known to answer XML/HTML error documents with a
	// 200 status; the declared type decides, never the body bytes.
	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: content-type %q", domain.ErrInvalidImageResponse, contentType)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrUpstreamUnavailable, err)
	}

	// Undersized payloads are blank "error tiles".
	if len(payload) < c.minImageBytes {
		return nil, fmt.Errorf("%w: payload %d bytes below minimum %d", domain.ErrInvalidImageResponse, len(payload), c.minImageBytes)
	}

	return &domain.SatelliteImage{
		Payload:     payload,
		ContentType: contentType,
		Source:      sourceName,
		FetchedAt:   time.Now(),
	}, nil
}

// exponentialBackoff returns the delay before the given retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}
