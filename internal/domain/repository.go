package domain

import (
	"context"
	"time"
)

// CacheStats is a point-in-time view of cache effectiveness.
type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// ImageCache defines the interface for the satellite image cache.
type ImageCache interface {
	Get(ctx context.Context, key string) (*SatelliteImage, error)
	Set(ctx context.Context, key string, img *SatelliteImage, ttl time.Duration) error
	Clear()
	Stats() CacheStats
}

// ImageSource is a single upstream imagery provider bound to its fetch
// transport. Sources are tried in registry order by the resolver.
type ImageSource interface {
	Name() string
	Fetch(ctx context.Context, req ImageRequest) (*SatelliteImage, error)
}

// ImageResolver produces an image for a request, degrading to a
// placeholder rather than failing when upstreams are down.
type ImageResolver interface {
	ResolveImage(ctx context.Context, req ImageRequest) (*SatelliteImage, bool, error)
}
