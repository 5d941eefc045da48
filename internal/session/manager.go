package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/stagewhisper/pkg/models"
)

// Manager is the registry of live sessions. Sessions are fully independent;
// the manager only hands out and retires orchestrators.
type Manager struct {
	collab Collaborators
	cfg    Config

	mu       sync.RWMutex
	sessions map[string]*Orchestrator
}

// NewManager creates a session registry. All sessions it starts share the
// same collaborators and engine configuration.
func NewManager(collab Collaborators, cfg Config) *Manager {
	return &Manager{
		collab:   collab,
		cfg:      cfg,
		sessions: make(map[string]*Orchestrator),
	}
}

// Start creates a new session with a fresh ID and registers it.
func (m *Manager) Start(sctx models.SessionContext) *Orchestrator {
	id := uuid.NewString()
	orch := New(id, sctx, m.collab, m.cfg)

	m.mu.Lock()
	m.sessions[id] = orch
	total := len(m.sessions)
	m.mu.Unlock()

	log.Info().Str("session", id).Int("activeSessions", total).Msg("Session started")
	return orch
}

// Get looks up a live session. Unknown IDs report false; callers treat those
// ingestions as no-ops.
func (m *Manager) Get(id string) (*Orchestrator, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	orch, ok := m.sessions[id]
	return orch, ok
}

// End retires a session and returns its debrief. Ending an unknown session
// reports false.
func (m *Manager) End(id string) (models.Debrief, bool) {
	m.mu.Lock()
	orch, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	total := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return models.Debrief{}, false
	}

	debrief := orch.Debrief()
	log.Info().
		Str("session", id).
		Int("events", debrief.EventCount).
		Int("activeSessions", total).
		Msg("Session ended")
	return debrief, true
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
