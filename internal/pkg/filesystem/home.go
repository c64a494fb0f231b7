package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// UserHomeDir returns the current user's home directory, or "." when it
// cannot be determined.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// Expand resolves a path that may be relative or ~-prefixed against the
// user's home directory. Absolute paths pass through unchanged.
func Expand(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if path == "~" {
		return UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(UserHomeDir(), path[2:])
	}
	return filepath.Join(UserHomeDir(), path)
}

// StateDir returns the tool's state directory (~/.ask).
func StateDir() string {
	return filepath.Join(UserHomeDir(), ".ask")
}
