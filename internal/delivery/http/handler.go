package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/solvurder/backend/internal/domain"
	"github.com/solvurder/backend/internal/infrastructure/provider"
	"github.com/solvurder/backend/internal/usecase"
	"go.uber.org/zap"
)

const (
	defaultImageSize = 512
	minImageSize     = 64
	maxImageSize     = 2048

	debugZoom = 17
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	imageService *usecase.ImageService
	descriptors  []provider.Descriptor
	logger       *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(imageService *usecase.ImageService, descriptors []provider.Descriptor, logger *zap.Logger) *Handler {
	return &Handler{
		imageService: imageService,
		descriptors:  descriptors,
		logger:       logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "solvurder-backend",
		"version": "1.0.0",
	})
}

// GetSatelliteImage resolves imagery for a coordinate pair. Upstream
// failures degrade to a placeholder and still answer 200; only malformed
// input yields 400 and only unexpected faults yield 500.
func (h *Handler) GetSatelliteImage(c *gin.Context) {
	lat, err := parseCoordinate(c.Query("lat"))
	if err != nil {
		badRequest(c, "lat must be a number between -90 and 90")
		return
	}
	lon, err := parseCoordinate(c.Query("lon"))
	if err != nil {
		badRequest(c, "lon must be a number between -180 and 180")
		return
	}

	width, err := parseSize(c.Query("width"))
	if err != nil {
		badRequest(c, "width must be a positive integer")
		return
	}
	height, err := parseSize(c.Query("height"))
	if err != nil {
		badRequest(c, "height must be a positive integer")
		return
	}

	req := domain.ImageRequest{Lat: lat, Lon: lon, Width: width, Height: height}

	img, cached, err := h.imageService.ResolveImage(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCoordinates) || errors.Is(err, domain.ErrInvalidRequest) {
			badRequest(c, err.Error())
			return
		}
		h.logger.Error("satellite image resolution failed",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Internal error while resolving satellite image",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"dataUrl":     img.DataURL(),
			"contentType": img.ContentType,
			"width":       width,
			"height":      height,
			"source":      img.Source,
			"cached":      cached,
		},
	})
}

// ClearImageCache empties the image cache. Auth is enforced by middleware.
func (h *Handler) ClearImageCache(c *gin.Context) {
	h.imageService.ClearCache()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Image cache cleared",
	})
}

// CacheStats reports image cache counters (diagnostics only).
func (h *Handler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.imageService.CacheStats(),
	})
}

// Debug reports the provider URLs and tile coordinates computed for a
// location (diagnostics only). Defaults to central Oslo.
func (h *Handler) Debug(c *gin.Context) {
	lat, err := parseCoordinate(c.DefaultQuery("lat", "59.9139"))
	if err != nil {
		badRequest(c, "lat must be a number")
		return
	}
	lon, err := parseCoordinate(c.DefaultQuery("lon", "10.7522"))
	if err != nil {
		badRequest(c, "lon must be a number")
		return
	}

	req := domain.ImageRequest{Lat: lat, Lon: lon, Width: defaultImageSize, Height: defaultImageSize}

	providerURLs := make(map[string]string, len(h.descriptors))
	for _, d := range h.descriptors {
		u, err := d.BuildURL(req)
		if err != nil {
			providerURLs[d.Name] = "error: " + err.Error()
			continue
		}
		providerURLs[d.Name] = u
	}

	tile, err := domain.LatLonToTile(lat, lon, debugZoom)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Debug endpoint for satellite images",
		"coordinates":  gin.H{"lat": lat, "lon": lon},
		"tileCoords":   gin.H{"zoom": tile.Zoom, "col": tile.Col, "row": tile.Row},
		"providerUrls": providerURLs,
	})
}

func parseCoordinate(raw string) (float64, error) {
	if raw == "" {
		return 0, domain.ErrInvalidRequest
	}
	return strconv.ParseFloat(raw, 64)
}

func parseSize(raw string) (int, error) {
	if raw == "" {
		return defaultImageSize, nil
	}
	size, err := strconv.Atoi(raw)
	if err != nil || size <= 0 {
		return 0, domain.ErrInvalidRequest
	}
	return min(max(size, minImageSize), maxImageSize), nil
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   message,
	})
}
