package provider

import (
	"context"

	"github.com/solvurder/backend/internal/domain"
)

// Source binds one descriptor to the shared fetch client so the resolver
// can iterate providers without knowing how their URLs are built.
type Source struct {
	desc   Descriptor
	client *Client
}

// Name returns the provider name used in logs, metrics and responses.
func (s *Source) Name() string {
	return s.desc.Name
}

// Fetch retrieves and validates imagery from this provider.
func (s *Source) Fetch(ctx context.Context, req domain.ImageRequest) (*domain.SatelliteImage, error) {
	return s.client.Fetch(ctx, s.desc, req)
}

// NewSources binds descriptors to a client, preserving registry order.
func NewSources(client *Client, descriptors []Descriptor) []domain.ImageSource {
	sources := make([]domain.ImageSource, 0, len(descriptors))
	for _, d := range descriptors {
		sources = append(sources, &Source{desc: d, client: client})
	}
	return sources
}
