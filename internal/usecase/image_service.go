package usecase

import (
	"context"
	"time"

	"github.com/solvurder/backend/internal/domain"
	"github.com/solvurder/backend/internal/observability"
	"go.uber.org/zap"
)

// ImageServiceConfig holds TTLs for cached imagery.
type ImageServiceConfig struct {
	ImageTTL       time.Duration
	PlaceholderTTL time.Duration
}

// ImageService resolves satellite imagery with a cache-first, fallback-chain
// strategy: cache hit, else each provider in registry order, else a
// synthesized placeholder. Upstream failures never surface to the caller.
type ImageService struct {
	cache          domain.ImageCache
	sources        []domain.ImageSource
	imageTTL       time.Duration
	placeholderTTL time.Duration
	logger         *zap.Logger
	metrics        *observability.Metrics
}

// NewImageService creates an image resolution service with dependencies.
func NewImageService(
	cache domain.ImageCache,
	sources []domain.ImageSource,
	config ImageServiceConfig,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *ImageService {
	imageTTL := config.ImageTTL
	if imageTTL == 0 {
		imageTTL = 24 * time.Hour
	}
	placeholderTTL := config.PlaceholderTTL
	if placeholderTTL == 0 {
		placeholderTTL = 2 * time.Minute
	}

	return &ImageService{
		cache:          cache,
		sources:        sources,
		imageTTL:       imageTTL,
		placeholderTTL: placeholderTTL,
		logger:         logger,
		metrics:        metrics,
	}
}

// ResolveImage returns an image for the request and whether it was served
// from cache. It errors only on invalid input; provider outages degrade to
// a short-lived placeholder.
func (s *ImageService) ResolveImage(ctx context.Context, req domain.ImageRequest) (*domain.SatelliteImage, bool, error) {
	if err := req.Validate(); err != nil {
		s.metrics.ImageRequests.WithLabelValues("invalid_input").Inc()
		return nil, false, err
	}

	key := req.CacheKey()

	if img, err := s.cache.Get(ctx, key); err == nil {
		s.metrics.ImageRequests.WithLabelValues("cache_hit").Inc()
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return img, true, nil
	}
	s.metrics.CacheLookups.WithLabelValues("miss").Inc()

	var lastErr error
	for _, source := range s.sources {
		img, err := source.Fetch(ctx, req)
		if err == nil {
			s.logger.Info("satellite image fetched",
				zap.String("provider", source.Name()),
				zap.String("key", key),
				zap.Int("bytes", len(img.Payload)))
			s.store(ctx, key, img, s.imageTTL)
			s.metrics.ImageRequests.WithLabelValues("fetched").Inc()
			return img, false, nil
		}

		lastErr = err
		s.logger.Debug("provider failed, trying next",
			zap.String("provider", source.Name()),
			zap.Error(err))

		// A cancelled request cannot be served anyway; skip the
		// remaining providers and answer with a cheap placeholder.
		if ctx.Err() != nil {
			break
		}
	}

	reason := "alle karttjenester er utilgjengelige"
	if lastErr != nil {
		reason = lastErr.Error()
	}
	s.logger.Warn("all imagery providers exhausted, serving placeholder",
		zap.String("key", key),
		zap.Error(lastErr))

	img := GeneratePlaceholder(req.Lat, req.Lon, req.Width, req.Height, reason)
	s.store(ctx, key, img, s.placeholderTTL)
	s.metrics.ImageRequests.WithLabelValues("placeholder").Inc()
	return img, false, nil
}

// ClearCache empties the image cache wholesale.
func (s *ImageService) ClearCache() {
	s.cache.Clear()
	s.metrics.CacheEntries.Set(0)
	s.logger.Info("image cache cleared")
}

// CacheStats exposes cache counters for the diagnostics endpoint.
func (s *ImageService) CacheStats() domain.CacheStats {
	return s.cache.Stats()
}

func (s *ImageService) store(ctx context.Context, key string, img *domain.SatelliteImage, ttl time.Duration) {
	if err := s.cache.Set(ctx, key, img, ttl); err != nil {
		// A failed cache write costs a refetch, nothing more.
		s.logger.Warn("failed to cache image", zap.String("key", key), zap.Error(err))
		return
	}
	s.metrics.CacheEntries.Set(float64(s.cache.Stats().Entries))
}
