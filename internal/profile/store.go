// Package profile manages the durable mapping of user identity to prompt
// library, model selection, and chat preferences.
package profile

import (
	"log/slog"
	"sync"

	"github.com/notekeep/notekeep/internal/config"
	"github.com/notekeep/notekeep/internal/models"
	"github.com/notekeep/notekeep/internal/store"
)

// Store holds all user profiles in memory and persists the full mapping
// through an injected document store after every mutation. The in-memory
// mapping stays authoritative when a persistence write fails.
//
// Events for a single user are handled strictly sequentially by the
// dispatcher, but different users' events interleave, so all access to the
// shared mapping goes through the store lock.
type Store struct {
	mu       sync.Mutex
	docs     store.ProfileDocumentStore
	resolver *config.Resolver
	profiles map[string]*models.UserProfile
}

// NewStore loads the persisted mapping and wraps it with lazy provisioning.
// A failed initial load logs and starts empty rather than failing startup.
func NewStore(docs store.ProfileDocumentStore, resolver *config.Resolver) *Store {
	profiles, err := docs.ReadAll()
	if err != nil {
		slog.Error("ProfileStore failed to load persisted profiles, starting empty", "error", err)
		profiles = make(map[string]*models.UserProfile)
	}
	slog.Debug("ProfileStore loaded", "users", len(profiles))
	return &Store{docs: docs, resolver: resolver, profiles: profiles}
}

// Get returns a snapshot of the profile for a user, synthesizing and
// persisting a new one from the current config defaults on first access.
func (s *Store) Get(userID string) *models.UserProfile {
	s.mu.Lock()
	if p, ok := s.profiles[userID]; ok {
		snapshot := p.Clone()
		s.mu.Unlock()
		return snapshot
	}
	s.mu.Unlock()

	// Resolve the seed outside the lock; it reads the config document.
	seed := s.resolver.DefaultProfileSeed()

	s.mu.Lock()
	// Another event may have provisioned the same user in the meantime.
	if p, ok := s.profiles[userID]; ok {
		snapshot := p.Clone()
		s.mu.Unlock()
		return snapshot
	}
	s.profiles[userID] = seed
	snapshot := seed.Clone()
	s.mu.Unlock()

	slog.Info("ProfileStore provisioned new user", "userID", userID, "activePrompt", seed.ActivePrompt, "model", seed.Model)
	s.save()
	return snapshot
}

// Update applies a mutation to the user's profile under the store lock and
// persists the full mapping afterwards. When the mutation returns an error
// the profile is left untouched and nothing is persisted. The user is
// provisioned first if absent, so Update is safe as a first touch.
func (s *Store) Update(userID string, mutate func(*models.UserProfile) error) (*models.UserProfile, error) {
	// Ensure the profile exists before mutating.
	s.Get(userID)

	s.mu.Lock()
	p := s.profiles[userID]
	scratch := p.Clone()
	if err := mutate(scratch); err != nil {
		s.mu.Unlock()
		return p.Clone(), err
	}
	s.profiles[userID] = scratch
	snapshot := scratch.Clone()
	s.mu.Unlock()

	s.save()
	return snapshot, nil
}

// save persists the full in-memory mapping. Persistence failures are logged
// and swallowed: the operation proceeds as if it had succeeded in memory.
func (s *Store) save() {
	s.mu.Lock()
	snapshot := make(map[string]*models.UserProfile, len(s.profiles))
	for id, p := range s.profiles {
		snapshot[id] = p.Clone()
	}
	s.mu.Unlock()

	if err := s.docs.WriteAll(snapshot); err != nil {
		slog.Error("ProfileStore failed to persist profiles", "error", err, "users", len(snapshot))
		return
	}
	slog.Debug("ProfileStore persisted", "users", len(snapshot))
}

// Len reports how many users have profiles.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.profiles)
}
