// Package version holds build-time version information, overridden via
// -ldflags at release time.
package version

var (
	Version = "dev"
	Commit  = "unknown"
)
