package ports

import (
	"context"

	"go.trai.ch/montauk/internal/core/domain"
)

//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks

// CacheCodec converts a view cache to and from its persisted text.
type CacheCodec interface {
	// Encode serializes the cache. Equal caches encode to equal bytes.
	Encode(cache domain.ViewCache) ([]byte, error)
	// Decode parses persisted text. It fails with domain.ErrCacheCorrupt on malformed
	// input or an empty template set.
	Decode(data []byte) (domain.ViewCache, error)
	// Format returns the codec name.
	Format() string
}

// CacheStore persists encoded view cache bytes.
type CacheStore interface {
	// Read returns the stored bytes. Returns nil, nil if nothing is stored.
	Read(ctx context.Context) ([]byte, error)
	// Write replaces the stored bytes.
	Write(ctx context.Context, data []byte) error
	// Clear removes the stored bytes.
	Clear(ctx context.Context) error
	// Location describes where the cache lives.
	Location() string
}
