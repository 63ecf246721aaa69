package domain

import "path/filepath"

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "montauk.yaml"

	// ViewsDirName is the default view root below the application root.
	ViewsDirName = "Views"

	// CacheDirName is the name of the cache directory below the first view root.
	CacheDirName = "Cache"

	// CacheFileName is the name of the file-backed view cache.
	CacheFileName = "viewsCache.json"

	// CacheDBFileName is the name of the sqlite-backed view cache.
	CacheDBFileName = "viewsCache.db"

	// TemplateExt is the extension of view templates.
	TemplateExt = ".html"

	// AppViewPrefix is the folder holding one view per application action.
	AppViewPrefix = "App"

	// SharedViewFolder is the folder that Master and Partial directives resolve against.
	SharedViewFolder = "Shared"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultCachePath returns the file cache location relative to the application root.
// It joins Views, Cache, and viewsCache.json.
func DefaultCachePath() string {
	return filepath.Join(ViewsDirName, CacheDirName, CacheFileName)
}

// DefaultCacheDBPath returns the sqlite cache location relative to the application root.
func DefaultCacheDBPath() string {
	return filepath.Join(ViewsDirName, CacheDirName, CacheDBFileName)
}
