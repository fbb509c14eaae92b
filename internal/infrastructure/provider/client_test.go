package provider

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/solvurder/backend/internal/domain"
	"github.com/solvurder/backend/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(attempts int) *Client {
	return NewClient(ClientConfig{
		Timeout:       5 * time.Second,
		RetryAttempts: attempts,
		MinImageBytes: 1000,
		RatePerSecond: 1000,
		RateBurst:     1000,
	}, zap.NewNop(), observability.NewMetricsForTesting())
}

func tileDescriptor(baseURL string) Descriptor {
	return Descriptor{
		Name:       "test-tiles",
		BaseURL:    baseURL,
		Projection: ProjectionTile,
		Zoom:       17,
		TileExt:    ".png",
	}
}

func TestClient_Fetch_Success(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 2048)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(payload)
	}))
	defer server.Close()

	client := newTestClient(2)
	img, err := client.Fetch(context.Background(), tileDescriptor(server.URL), osloRequest)

	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, "test-tiles", img.Source)
	assert.Equal(t, payload, img.Payload)
}

func TestClient_Fetch_ServerErrorRetriesThenFails(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(2)
	_, err := client.Fetch(context.Background(), tileDescriptor(server.URL), osloRequest)

	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Equal(t, 2, calls, "transient failures should be retried")
}

func TestClient_Fetch_TransientThenSuccess(t *testing.T) {
	var calls int
	payload := bytes.Repeat([]byte{0xCD}, 2048)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(payload)
	}))
	defer server.Close()

	client := newTestClient(2)
	img, err := client.Fetch(context.Background(), tileDescriptor(server.URL), osloRequest)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "image/jpeg", img.ContentType)
}

func TestClient_Fetch_DisguisedErrorBodyNotRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		// A WMS error document under a 200 status.
		w.Header().Set("Content-Type", "text/xml")
		w.Write(bytes.Repeat([]byte("<ServiceException>boom</ServiceException>"), 100))
	}))
	defer server.Close()

	client := newTestClient(3)
	_, err := client.Fetch(context.Background(), tileDescriptor(server.URL), osloRequest)

	assert.ErrorIs(t, err, domain.ErrInvalidImageResponse)
	assert.Equal(t, 1, calls, "structurally wrong responses must not be retried")
}

func TestClient_Fetch_UndersizedPayloadRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// An "error tile": correct content type, but essentially empty.
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("tiny"))
	}))
	defer server.Close()

	client := newTestClient(2)
	_, err := client.Fetch(context.Background(), tileDescriptor(server.URL), osloRequest)

	assert.ErrorIs(t, err, domain.ErrInvalidImageResponse)
}

func TestClient_Fetch_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening anymore

	client := newTestClient(2)
	_, err := client.Fetch(context.Background(), tileDescriptor(server.URL), osloRequest)

	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestClient_Fetch_InvalidCoordinatesFailFast(t *testing.T) {
	client := newTestClient(2)
	_, err := client.Fetch(context.Background(), tileDescriptor("http://example.invalid"), domain.ImageRequest{Lat: 99, Lon: 0, Width: 512, Height: 512})

	assert.ErrorIs(t, err, domain.ErrInvalidCoordinates)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, exponentialBackoff(tt.attempt))
		})
	}
}
