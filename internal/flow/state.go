// Package flow implements the per-user conversational state machine that
// routes chat events between menu actions, multi-step interactions, and the
// retrieval-augmented responder.
package flow

import (
	"log/slog"
	"sync"
)

// StateKind tags the pending interaction a user is in. The zero value is
// idle.
type StateKind string

const (
	// StateIdle means no interaction is pending; free text is chat input.
	StateIdle StateKind = ""
	// StateSearch awaits a search query.
	StateSearch StateKind = "search"
	// StateDraft awaits a draft topic.
	StateDraft StateKind = "draft"
	// StateNewName awaits the name for a new prompt.
	StateNewName StateKind = "new_name"
	// StateNewContent awaits the content for a new prompt; PromptName holds
	// the name recorded in the previous step.
	StateNewContent StateKind = "new_content"
	// StateEdit awaits replacement content for the active prompt.
	StateEdit StateKind = "edit"
)

// State is the closed tagged variant of a user's pending interaction.
// PromptName is meaningful only for StateNewContent.
type State struct {
	Kind       StateKind
	PromptName string
}

// Idle reports whether no interaction is pending.
func (s State) Idle() bool {
	return s.Kind == StateIdle
}

// StateManager tracks transient per-user conversation state for the
// lifetime of the process. Nothing here is persisted.
type StateManager struct {
	mu     sync.Mutex
	states map[string]State
}

// NewStateManager creates an empty state manager.
func NewStateManager() *StateManager {
	return &StateManager{states: make(map[string]State)}
}

// Get returns the user's pending state without clearing it.
func (m *StateManager) Get(userID string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[userID]
}

// Set replaces the user's pending state. Starting a new flow overwrites any
// previous pending interaction.
func (m *StateManager) Set(userID string, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st.Idle() {
		delete(m.states, userID)
	} else {
		m.states[userID] = st
	}
	slog.Debug("StateManager Set", "userID", userID, "state", st.Kind)
}

// Take returns the user's pending state and clears it in one step, so the
// consuming text input can never be handled twice.
func (m *StateManager) Take(userID string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.states[userID]
	delete(m.states, userID)
	return st
}
