package config

import "time"

// Montaukfile represents the structure of the montauk.yaml configuration file. Every field can be
// overridden by the environment variable in its env tag.
type Montaukfile struct {
	Version   string              `yaml:"version"`
	Root      string              `yaml:"root"      env:"MONTAUK_ROOT"`
	Views     []string            `yaml:"views"     env:"MONTAUK_VIEWS"     envSeparator:","`
	Debug     bool                `yaml:"debug"     env:"MONTAUK_DEBUG"`
	Resources string              `yaml:"resources" env:"MONTAUK_RESOURCES"`
	Bundles   map[string][]string `yaml:"bundles"`
	Cache     CacheDTO            `yaml:"cache"`
	Watch     WatchDTO            `yaml:"watch"`

	// BundleOverrides replaces bundles from MONTAUK_BUNDLES, written as
	// "name=file1;file2,other=file3".
	BundleOverrides map[string]string `yaml:"-" env:"MONTAUK_BUNDLES" envSeparator:"," envKeyValSeparator:"="`
}

// CacheDTO represents the cache section.
type CacheDTO struct {
	Backend string `yaml:"backend" env:"MONTAUK_CACHE_BACKEND"`
	Format  string `yaml:"format"  env:"MONTAUK_CACHE_FORMAT"`
	Path    string `yaml:"path"    env:"MONTAUK_CACHE_PATH"`
}

// WatchDTO represents the watch section.
type WatchDTO struct {
	Interval time.Duration `yaml:"interval" env:"MONTAUK_WATCH_INTERVAL"`
	Attempts int           `yaml:"attempts" env:"MONTAUK_WATCH_ATTEMPTS"`
	Debounce time.Duration `yaml:"debounce" env:"MONTAUK_WATCH_DEBOUNCE"`
}
