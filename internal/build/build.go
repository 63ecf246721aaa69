// Package build holds version information stamped into the montauk binary at link time.
package build

// Set with -ldflags "-X go.trai.ch/montauk/internal/build.Version=...".
var (
	// Version is the release version, "dev" for local builds.
	Version = "dev"

	// Commit is the source revision.
	Commit = "none"

	// Date is when the binary was built.
	Date = "unknown"
)
