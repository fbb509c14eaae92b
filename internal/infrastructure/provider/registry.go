package provider

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/solvurder/backend/internal/domain"
)

// ProjectionKind selects how a provider addresses map space.
type ProjectionKind string

const (
	// ProjectionGeographic providers take a WMS GetMap bounding box in degrees.
	ProjectionGeographic ProjectionKind = "geographic"
	// ProjectionTile providers take integer web-mercator tile indices.
	ProjectionTile ProjectionKind = "projected-tile"
)

// Descriptor fully describes one upstream imagery provider. Descriptors are
// immutable configuration; the registry order is the fallback priority.
type Descriptor struct {
	Name       string
	BaseURL    string
	Projection ProjectionKind

	// WMS GetMap parameters (geographic projection).
	Version   string  // "1.3.0" or "1.1.1"
	Layers    string
	Format    string  // requested image MIME type
	HalfWidth float64 // bounding box half-width in degrees

	// Tile parameters (projected-tile projection).
	Zoom     int
	TileExt  string
	RowFirst bool // WMTS REST paths are zoom/row/col, slippy-map paths zoom/col/row
}

// BuildURL converts a request into the provider's full GET URL.
func (d Descriptor) BuildURL(req domain.ImageRequest) (string, error) {
	switch d.Projection {
	case ProjectionTile:
		tile, err := domain.LatLonToTile(req.Lat, req.Lon, d.Zoom)
		if err != nil {
			return "", err
		}
		if d.RowFirst {
			return fmt.Sprintf("%s/%d/%d/%d%s", d.BaseURL, tile.Zoom, tile.Row, tile.Col, d.TileExt), nil
		}
		return fmt.Sprintf("%s/%d/%d/%d%s", d.BaseURL, tile.Zoom, tile.Col, tile.Row, d.TileExt), nil

	case ProjectionGeographic:
		bbox, err := domain.BoundingBoxAround(req.Lat, req.Lon, d.HalfWidth)
		if err != nil {
			return "", err
		}

		params := url.Values{}
		params.Set("service", "WMS")
		params.Set("version", d.Version)
		params.Set("request", "GetMap")
		params.Set("layers", d.Layers)
		params.Set("styles", "")
		params.Set("format", d.Format)
		params.Set("transparent", "false")
		params.Set("width", strconv.Itoa(req.Width))
		params.Set("height", strconv.Itoa(req.Height))

		// WMS 1.3.0 uses CRS-native axis order (lat first for EPSG:4326);
		// 1.1.1 always takes lon first.
		if d.Version == "1.3.0" {
			params.Set("crs", "EPSG:4326")
			params.Set("bbox", bbox.ParamLatFirst())
		} else {
			params.Set("srs", "EPSG:4326")
			params.Set("bbox", bbox.ParamLonFirst())
		}

		return d.BaseURL + "?" + params.Encode(), nil

	default:
		return "", fmt.Errorf("%w: unknown projection %q", domain.ErrInvalidRequest, d.Projection)
	}
}

// DefaultDescriptors returns the built-in provider registry, ordered by
// priority: Kartverket's ortophoto services first, generic OSM tiles as the
// last resort before the placeholder.
func DefaultDescriptors() []Descriptor {
	return []Descriptor{
		{
			Name:       "kartverket-wmts",
			BaseURL:    "https://cache.kartverket.no/v1/wmts/1.0.0/nib/default/webmercator",
			Projection: ProjectionTile,
			Zoom:       17,
			TileExt:    ".jpeg",
			RowFirst:   true,
		},
		{
			Name:       "geonorge-wms",
			BaseURL:    "https://wms.geonorge.no/skwms1/wms.nib",
			Projection: ProjectionGeographic,
			Version:    "1.3.0",
			Layers:     "ortofoto",
			Format:     "image/png",
			HalfWidth:  0.002,
		},
		{
			Name:       "statkart-wms",
			BaseURL:    "https://openwms.statkart.no/skwms1/wms.nib",
			Projection: ProjectionGeographic,
			Version:    "1.1.1",
			Layers:     "ortofoto",
			Format:     "image/jpeg",
			HalfWidth:  0.005,
		},
		{
			Name:       "openstreetmap",
			BaseURL:    "https://tile.openstreetmap.org",
			Projection: ProjectionTile,
			Zoom:       17,
			TileExt:    ".png",
			RowFirst:   false,
		},
	}
}
