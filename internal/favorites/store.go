package favorites

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/maraval/veogallery/internal/apperrors"
	"github.com/maraval/veogallery/internal/logger"
)

// slotKey names the single persistent slot holding the favorites array.
const slotKey = "Favorites"

// Backend is the minimal key-value contract the store persists through.
// The GUI backs it with fyne Preferences, the CLI with a JSON file.
type Backend interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Store holds the in-memory favorites set. The in-memory set is
// authoritative for the session; persistence failures are logged and
// swallowed.
type Store struct {
	backend Backend
	ids     map[string]struct{}
}

// Load reads the favorites slot. Missing or malformed data yields an empty
// set, never an error: corruption must not break startup.
func Load(backend Backend) *Store {
	s := &Store{backend: backend, ids: make(map[string]struct{})}
	raw, ok := backend.Get(slotKey)
	if !ok || strings.TrimSpace(raw) == "" {
		return s
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		logger.Warn("Favorites slot is malformed; starting with an empty set", "error", err)
		return s
	}
	for _, id := range list {
		if id != "" {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

// Toggle flips membership for id, persists the full set, and returns the
// new membership. A dangling ID (no matching video) is not an error.
func (s *Store) Toggle(id string) bool {
	if id == "" {
		return false
	}
	_, present := s.ids[id]
	if present {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
	s.save()
	return !present
}

func (s *Store) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// IDs returns a sorted copy of the set.
func (s *Store) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *Store) Len() int {
	return len(s.ids)
}

func (s *Store) save() {
	data, err := json.Marshal(s.IDs())
	if err != nil {
		logger.Error("Favorites serialization failed", "error", apperrors.Persistence(err))
		return
	}
	if err := s.backend.Set(slotKey, string(data)); err != nil {
		logger.Error("Favorites write failed; in-memory set stays authoritative", "error", apperrors.Persistence(err))
	}
}
