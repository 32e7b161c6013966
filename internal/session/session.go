// ABOUTME: In-memory chat session tracking with per-session turn history
// ABOUTME: Sessions are ephemeral; ending one discards its history
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maitre-ai/maitre/internal/models"
)

// Session is one conversation's identity and turn history.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu    sync.Mutex
	turns []models.Turn
}

// Record appends a completed turn to the session history.
func (s *Session) Record(userMessage, reply string, route models.Route) models.Turn {
	turn := models.Turn{
		TurnID:      uuid.New().String(),
		Timestamp:   time.Now(),
		UserMessage: userMessage,
		Reply:       reply,
		Route:       route,
	}

	s.mu.Lock()
	s.turns = append(s.turns, turn)
	s.mu.Unlock()
	return turn
}

// Turns returns a copy of the session history in order.
func (s *Session) Turns() []models.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Manager tracks live sessions by ID.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session with the given ID, creating it on first
// use. An empty ID gets a fresh random one.
func (m *Manager) GetOrCreate(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = uuid.New().String()
	}
	if s, ok := m.sessions[id]; ok {
		return s
	}

	s := &Session{ID: id, CreatedAt: time.Now()}
	m.sessions[id] = s
	return s
}

// End removes a session and reports whether it existed.
func (m *Manager) End(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok
}
