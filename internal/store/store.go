// Package store provides document storage backends for NoteKeep.
//
// Two document families are persisted: the global configuration document
// (written by the admin surface, read-only here) and the user profile
// mapping (owned by the engine). Both are read and written whole; there are
// no partial updates.
package store

import "github.com/notekeep/notekeep/internal/models"

// ConfigDocumentStore reads the externally edited configuration document.
// Read returns (nil, nil) when no document exists; callers fall back to
// built-in defaults.
type ConfigDocumentStore interface {
	Read() (*models.GlobalConfig, error)
}

// ProfileDocumentStore persists the full user-profile mapping.
type ProfileDocumentStore interface {
	// ReadAll loads the complete mapping. A missing backing document yields
	// an empty mapping, not an error.
	ReadAll() (map[string]*models.UserProfile, error)

	// WriteAll overwrites the complete mapping.
	WriteAll(profiles map[string]*models.UserProfile) error
}

// InMemoryProfileStore keeps profiles in memory only. Used in tests and as
// a fallback when no persistence backend is configured.
type InMemoryProfileStore struct {
	profiles map[string]*models.UserProfile
}

// NewInMemoryProfileStore creates an empty in-memory profile store.
func NewInMemoryProfileStore() *InMemoryProfileStore {
	return &InMemoryProfileStore{profiles: make(map[string]*models.UserProfile)}
}

// ReadAll returns a deep copy of the stored mapping.
func (s *InMemoryProfileStore) ReadAll() (map[string]*models.UserProfile, error) {
	out := make(map[string]*models.UserProfile, len(s.profiles))
	for id, p := range s.profiles {
		out[id] = p.Clone()
	}
	return out, nil
}

// WriteAll replaces the stored mapping with a deep copy of the input.
func (s *InMemoryProfileStore) WriteAll(profiles map[string]*models.UserProfile) error {
	next := make(map[string]*models.UserProfile, len(profiles))
	for id, p := range profiles {
		next[id] = p.Clone()
	}
	s.profiles = next
	return nil
}
