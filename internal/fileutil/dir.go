package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates path and its parents with mode 0755. An existing
// directory is not an error.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}

// EnsureDirForFile creates the directory that will hold filePath, e.g. the
// deviceLogs directory of a browser log.
func EnsureDirForFile(filePath string) error {
	if err := EnsureDir(filepath.Dir(filePath)); err != nil {
		return fmt.Errorf("ensure dir for %s: %w", filePath, err)
	}
	return nil
}
