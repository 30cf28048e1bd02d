// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"os"
)

// Exists reports whether the given path exists on disk. Any stat error other
// than "not exist" is returned as-is so callers can distinguish a genuinely
// absent path from an unreadable one.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// EnsureDir creates the directory (and any parents) if it does not already exist.
func EnsureDir(path string) error {
	if path == "" {
		return fmt.Errorf("directory path cannot be empty")
	}
	return os.MkdirAll(path, 0o755)
}

// OSStatter is the production filesystem collaborator. It satisfies any
// consumer-side interface with an Exists method.
type OSStatter struct{}

// Exists implements the existence check against the real filesystem.
func (OSStatter) Exists(path string) (bool, error) {
	return Exists(path)
}
