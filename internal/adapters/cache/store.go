package cache

import (
	"go.trai.ch/montauk/internal/core/domain"
	"go.trai.ch/montauk/internal/core/ports"
	"go.trai.ch/zerr"
)

// Open returns the store selected by the configuration and a func releasing it.
// Neither backend touches the filesystem until the first read or write.
func Open(cfg *domain.Config) (ports.CacheStore, func() error, error) {
	switch cfg.Cache.Backend {
	case "", domain.CacheBackendFile:
		return NewFileStore(cfg.CachePath()), func() error { return nil }, nil
	case domain.CacheBackendSQLite:
		s := NewSQLiteStore(cfg.CachePath())
		return s, s.Close, nil
	default:
		return nil, nil, zerr.With(zerr.Wrap(domain.ErrInvalidCacheBackend, "cannot open view cache"), "backend", cfg.Cache.Backend)
	}
}
