// Package config provides the configuration loader for montauk.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.trai.ch/montauk/internal/core/domain"
	"go.trai.ch/montauk/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the montauk.yaml schema version this loader understands.
const SupportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

var _ ports.ConfigLoader = (*Loader)(nil)

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds montauk.yaml in cwd or the nearest parent and resolves it into a Config. Without a
// config file the defaults apply with cwd as the root. Environment overrides apply either way.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "cwd", cwd)
	}

	var file Montaukfile
	baseDir := abs

	if configPath, ok := findConfiguration(abs); ok {
		if err := readAndUnmarshalYAML(configPath, &file); err != nil {
			return nil, err
		}
		if file.Version != "" && file.Version != SupportedVersion {
			l.Logger.Warn(fmt.Sprintf("%s declares version %q, reading it as version %s",
				domain.ConfigFileName, file.Version, SupportedVersion))
		}
		baseDir = filepath.Dir(configPath)
	}

	if err := env.Parse(&file); err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigEnvFailed.Error())
	}

	return build(&file, baseDir)
}

func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

func readAndUnmarshalYAML(path string, out *Montaukfile) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is found by walking up from cwd
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}
	return nil
}

// build turns the file into a domain.Config, filling defaults for anything left unset.
func build(file *Montaukfile, baseDir string) (*domain.Config, error) {
	cfg := domain.DefaultConfig(resolveRoot(baseDir, file.Root))

	if len(file.Views) > 0 {
		cfg.ViewRoots = file.Views
	}
	cfg.Debug = file.Debug
	if file.Resources != "" {
		cfg.SharedResourceFolder = file.Resources
	}

	for name, files := range file.Bundles {
		cfg.Bundles[name] = files
	}
	for name, files := range file.BundleOverrides {
		cfg.Bundles[name] = splitBundleFiles(files)
	}

	if file.Cache.Backend != "" {
		cfg.Cache.Backend = strings.ToLower(file.Cache.Backend)
	}
	if file.Cache.Format != "" {
		cfg.Cache.Format = strings.ToLower(file.Cache.Format)
	}
	cfg.Cache.Path = file.Cache.Path

	if file.Watch.Interval > 0 {
		cfg.Watch.Interval = file.Watch.Interval
	}
	if file.Watch.Attempts > 0 {
		cfg.Watch.Attempts = file.Watch.Attempts
	}
	if file.Watch.Debounce > 0 {
		cfg.Watch.Debounce = file.Watch.Debounce
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *domain.Config) error {
	switch cfg.Cache.Backend {
	case domain.CacheBackendFile, domain.CacheBackendSQLite:
	default:
		return zerr.With(zerr.Wrap(domain.ErrInvalidCacheBackend, "cannot load config"), "backend", cfg.Cache.Backend)
	}
	switch cfg.Cache.Format {
	case domain.CacheFormatJSON, domain.CacheFormatYAML:
	default:
		return zerr.With(zerr.Wrap(domain.ErrInvalidCacheFormat, "cannot load config"), "format", cfg.Cache.Format)
	}
	return nil
}

// resolveRoot resolves the configured root against the directory holding montauk.yaml.
func resolveRoot(baseDir, root string) string {
	if root == "" {
		return baseDir
	}
	if filepath.IsAbs(root) {
		return filepath.Clean(root)
	}
	return filepath.Join(baseDir, root)
}

func splitBundleFiles(s string) []string {
	var files []string
	for _, f := range strings.Split(s, ";") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	return files
}
