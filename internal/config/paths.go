package config

import (
	"path/filepath"
)

const (
	// DefaultChangelogDir is the changelog directory relative to the project root.
	DefaultChangelogDir = ".changelog"
	// DefaultConfigFilename is the config file name inside the changelog directory.
	DefaultConfigFilename = "config.yml"
)

// ResolvePath returns the config file path. An empty path means
// DefaultConfigFilename; a relative path is resolved against the changelog
// directory.
func ResolvePath(changelogDir, path string) string {
	if changelogDir == "" {
		changelogDir = DefaultChangelogDir
	}
	if path == "" {
		path = DefaultConfigFilename
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(changelogDir, path)
}
