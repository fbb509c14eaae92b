package domain

import "errors"

var (
	// ErrInvalidCoordinates is returned when lat/lon fall outside WGS84 bounds
	ErrInvalidCoordinates = errors.New("coordinates out of range")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrUpstreamUnavailable is returned for transport failures, timeouts
	// and error statuses from a map provider; the orchestrator treats it
	// as transient and moves on to the next provider
	ErrUpstreamUnavailable = errors.New("upstream provider unavailable")

	// ErrInvalidImageResponse is returned when a provider answers 200 but
	// the body is not genuine imagery (error XML/HTML, or a too-small
	// blank tile); never retried against the same provider
	ErrInvalidImageResponse = errors.New("upstream returned a non-image response")
)
