package favorites

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/maraval/veogallery/internal/files"
)

// FileBackend persists slots as a JSON object in a single file, for the CLI
// and for headless use.
type FileBackend struct {
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// DefaultPath returns the favorites file under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(dir, "veogallery", "favorites.json"), nil
}

func (b *FileBackend) Get(key string) (string, bool) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return "", false
	}
	var slots map[string]string
	if err := json.Unmarshal(data, &slots); err != nil {
		return "", false
	}
	value, ok := slots[key]
	return value, ok
}

func (b *FileBackend) Set(key, value string) error {
	slots := map[string]string{}
	if data, err := os.ReadFile(b.path); err == nil {
		// Unparseable existing content is dropped; the new write wins.
		json.Unmarshal(data, &slots)
	}
	slots[key] = value

	data, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0700); err != nil {
		return err
	}
	return files.AtomicWrite(b.path, data, 0600)
}
