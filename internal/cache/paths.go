package cache

import (
	"os"
	"path/filepath"
	"strings"
)

// Manager handles the local lookup cache. Each key is one JSON file.
type Manager struct {
	baseDir string
}

// New creates a cache Manager rooted at baseDir.
func New(baseDir string) *Manager {
	return &Manager{baseDir: baseDir}
}

// Dir returns the cache root.
func (m *Manager) Dir() string { return m.baseDir }

// Path returns the file backing key. Layout: <baseDir>/<key>.json, with
// path separators in key flattened.
func (m *Manager) Path(key string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(m.baseDir, name+".json")
}

// Exists reports whether key has a cached entry, fresh or not.
func (m *Manager) Exists(key string) bool {
	_, err := os.Stat(m.Path(key))
	return err == nil
}

// Remove deletes the cached entry if it exists.
func (m *Manager) Remove(key string) error {
	err := os.Remove(m.Path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
