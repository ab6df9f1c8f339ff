// Package paths resolves the user-level directories agentsync writes to.
package paths

import (
	"os"
	"path/filepath"
)

// GetConfigDir returns the user's config directory for agentsync.
//
// If the home directory cannot be determined, it falls back to a directory
// under the system temporary directory. This is a best-effort fallback and
// not intended to be a security boundary.
func GetConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Clean(filepath.Join(os.TempDir(), ".agentsync-config"))
	}
	return filepath.Clean(filepath.Join(homeDir, ".config", "agentsync"))
}

// GetDataDir returns the user's data directory for agentsync (logs, caches).
func GetDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Clean(filepath.Join(os.TempDir(), ".agentsync"))
	}
	return filepath.Clean(filepath.Join(homeDir, ".agentsync"))
}
