package domain

import (
	"path/filepath"
	"time"
)

// Cache backends.
const (
	CacheBackendFile   = "file"
	CacheBackendSQLite = "sqlite"
)

// Cache formats.
const (
	CacheFormatJSON = "json"
	CacheFormatYAML = "yaml"
)

// Config is the resolved engine configuration.
type Config struct {
	// Root is the absolute application root.
	Root string
	// ViewRoots are view directories, relative to Root unless absolute.
	ViewRoots []string
	// Debug disables the startup cache and expands bundles file by file.
	Debug bool
	// SharedResourceFolder prefixes bundle files that carry no directory.
	SharedResourceFolder string
	// Bundles maps a bundle name to its ordered file list.
	Bundles map[string][]string
	Cache   CacheConfig
	Watch   WatchConfig
}

// CacheConfig selects where and how the view cache is persisted.
type CacheConfig struct {
	Backend string
	Format  string
	// Path is relative to Root unless absolute. Empty selects the backend default.
	Path string
}

// WatchConfig bounds the change watcher.
type WatchConfig struct {
	// Interval is the pause between readability attempts.
	Interval time.Duration
	// Attempts is the maximum number of readability attempts.
	Attempts int
	// Debounce is the quiet period used to coalesce change events.
	Debounce time.Duration
}

// DefaultConfig returns the configuration used when montauk.yaml sets nothing.
func DefaultConfig(root string) *Config {
	return &Config{
		Root:                 root,
		ViewRoots:            []string{ViewsDirName},
		SharedResourceFolder: "/Resources",
		Bundles:              map[string][]string{},
		Cache: CacheConfig{
			Backend: CacheBackendFile,
			Format:  CacheFormatJSON,
		},
		Watch: WatchConfig{
			Interval: 250 * time.Millisecond,
			Attempts: 20,
			Debounce: 100 * time.Millisecond,
		},
	}
}

// ViewRootPaths returns the view roots resolved against Root.
func (c *Config) ViewRootPaths() []string {
	out := make([]string, 0, len(c.ViewRoots))
	for _, r := range c.ViewRoots {
		out = append(out, c.resolve(r))
	}
	return out
}

// CachePath returns the resolved cache location for the configured backend.
func (c *Config) CachePath() string {
	if c.Cache.Path != "" {
		return c.resolve(c.Cache.Path)
	}
	if c.Cache.Backend == CacheBackendSQLite {
		return c.resolve(DefaultCacheDBPath())
	}
	return c.resolve(DefaultCachePath())
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.Root, p)
}
