package domain

import (
	"encoding/base64"
	"fmt"
	"time"
)

// SourcePlaceholder is the source label for synthesized fallback imagery.
const SourcePlaceholder = "placeholder"

// ImageRequest describes one inbound satellite-image lookup.
type ImageRequest struct {
	Lat    float64
	Lon    float64
	Width  int
	Height int
}

// Validate checks the request coordinates and dimensions.
func (r ImageRequest) Validate() error {
	if err := ValidateCoordinates(r.Lat, r.Lon); err != nil {
		return err
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidRequest, r.Width, r.Height)
	}
	return nil
}

// CacheKey quantizes the coordinates to three decimal places (~100m) and
// combines them with the requested size, so nearby lookups share an entry.
func (r ImageRequest) CacheKey() string {
	return fmt.Sprintf("satellite:%.3f:%.3f:%dx%d", r.Lat, r.Lon, r.Width, r.Height)
}

// SatelliteImage is a resolved image payload, real or placeholder.
type SatelliteImage struct {
	Payload     []byte
	ContentType string
	Source      string
	FetchedAt   time.Time
}

// IsPlaceholder reports whether this image was synthesized locally.
func (img *SatelliteImage) IsPlaceholder() bool {
	return img.Source == SourcePlaceholder
}

// DataURL encodes the payload as a self-contained base64 data: URI.
func (img *SatelliteImage) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", img.ContentType, base64.StdEncoding.EncodeToString(img.Payload))
}
