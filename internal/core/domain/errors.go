package domain

import "go.trai.ch/zerr"

var (
	// ErrNotConfigured is returned when the template loader is constructed without any view roots.
	ErrNotConfigured = zerr.New("at least one view root is required to load view templates from")

	// ErrNoTemplatesFound is returned when a full scan of the view roots yields no templates.
	ErrNoTemplatesFound = zerr.New("failed to load any view templates")

	// ErrTemplateNotFound is returned when a directive or render call references an unknown logical name.
	ErrTemplateNotFound = zerr.New("template not found")

	// ErrTemplateOutsideRoots is returned when a single-file load targets a path under no view root.
	ErrTemplateOutsideRoots = zerr.New("template path is outside every view root")

	// ErrTemplateReadFailed is returned when a template file cannot be read.
	ErrTemplateReadFailed = zerr.New("failed to read template")

	// ErrLayoutDepthExceeded is returned when layouts nest deeper than the compiler allows, usually a cycle.
	ErrLayoutDepthExceeded = zerr.New("layout nesting too deep")

	// ErrReloadTimeout is returned when a changed template does not become readable within the retry bound.
	ErrReloadTimeout = zerr.New("timed out waiting for template to become readable")

	// ErrCacheCorrupt is returned when a persisted view cache cannot be decoded.
	ErrCacheCorrupt = zerr.New("view cache is corrupt")

	// ErrCacheReadFailed is returned when the persisted view cache cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read view cache")

	// ErrCacheCreateFailed is returned when the view cache directory or database cannot be created.
	ErrCacheCreateFailed = zerr.New("failed to create view cache location")

	// ErrCacheMarshalFailed is returned when the view cache cannot be encoded.
	ErrCacheMarshalFailed = zerr.New("failed to encode view cache")

	// ErrCacheWriteFailed is returned when the view cache cannot be written.
	ErrCacheWriteFailed = zerr.New("failed to write view cache")

	// ErrInvalidCacheBackend is returned when the configured cache backend is unknown.
	ErrInvalidCacheBackend = zerr.New("invalid cache backend, expected 'file' or 'sqlite'")

	// ErrInvalidCacheFormat is returned when the configured cache format is unknown.
	ErrInvalidCacheFormat = zerr.New("invalid cache format, expected 'json' or 'yaml'")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigEnvFailed is returned when environment overrides cannot be applied.
	ErrConfigEnvFailed = zerr.New("failed to apply environment overrides")

	// ErrTokenExhausted is returned when no unique anti-forgery token could be minted within the attempt cap.
	ErrTokenExhausted = zerr.New("failed to mint a unique anti-forgery token")

	// ErrWatcherStartFailed is returned when the file watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start template watcher")

	// ErrNoApplication is returned when an action is dispatched before an application is registered.
	ErrNoApplication = zerr.New("no application registered")

	// ErrActionNotFound is returned when the registered application has no handler for an action.
	ErrActionNotFound = zerr.New("action not found")

	// ErrInvalidTag is returned when a tag argument is not in key=value form.
	ErrInvalidTag = zerr.New("tag must be in key=value form")
)
