package domain

import (
	"fmt"
	"math"
)

// BoundingBox is a geographic extent in EPSG:4326 degrees.
type BoundingBox struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// ParamLatFirst renders the box in lat,lon axis order. WMS 1.3.0 with
// EPSG:4326 expects CRS-native axis order, which puts latitude first;
// getting this wrong is a known cause of upstream rejections.
func (b BoundingBox) ParamLatFirst() string {
	return fmt.Sprintf("%f,%f,%f,%f", b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)
}

// ParamLonFirst renders the box in lon,lat axis order, as required by
// WMS 1.1.1 regardless of SRS.
func (b BoundingBox) ParamLonFirst() string {
	return fmt.Sprintf("%f,%f,%f,%f", b.MinLon, b.MinLat, b.MaxLon, b.MaxLat)
}

// Tile addresses a single web-mercator map tile.
type Tile struct {
	Zoom int
	Col  int
	Row  int
}

// ValidateCoordinates checks that lat/lon are within WGS84 bounds.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidCoordinates, lat, lon)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidCoordinates, lat, lon)
	}
	return nil
}

// BoundingBoxAround builds a square box of halfWidth degrees around a point.
func BoundingBoxAround(lat, lon, halfWidth float64) (BoundingBox, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return BoundingBox{}, err
	}
	return BoundingBox{
		MinLat: lat - halfWidth,
		MinLon: lon - halfWidth,
		MaxLat: lat + halfWidth,
		MaxLon: lon + halfWidth,
	}, nil
}

// LatLonToTile converts coordinates to the standard spherical web-mercator
// tile column/row at the given zoom.
func LatLonToTile(lat, lon float64, zoom int) (Tile, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return Tile{}, err
	}
	n := math.Pow(2, float64(zoom))
	col := int(math.Floor((lon + 180.0) / 360.0 * n))
	row := int(math.Floor((1.0 - math.Asinh(math.Tan(lat*math.Pi/180.0))/math.Pi) / 2.0 * n))

	// Clamp to the valid range so extreme latitudes still address a tile.
	maxTile := int(n) - 1
	col = min(max(col, 0), maxTile)
	row = min(max(row, 0), maxTile)

	return Tile{Zoom: zoom, Col: col, Row: row}, nil
}
