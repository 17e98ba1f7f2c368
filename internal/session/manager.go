package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/weather-lookup/internal/prefs"
	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather"
)

// Config holds the settings shared by every session.
type Config struct {
	DefaultUnits weather.Units
	HistoryLimit int
}

// Manager owns all live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	kv     store.KV
	looker Looker
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// NewManager creates a new Manager.
func NewManager(kv store.KV, looker Looker, cfg Config, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		kv:       kv,
		looker:   looker,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Get returns the session for id, if live, and marks it as accessed.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		s.touch(m.now())
	}
	return s, ok
}

// GetOrCreate returns the session for id, or a new session when id is
// empty or unknown. Preferences stored under a previous id are reused.
func (m *Manager) GetOrCreate(id string) *Session {
	if s, ok := m.Get(id); ok {
		return s
	}

	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s
	}
	p := prefs.New(m.kv, id, m.cfg.DefaultUnits, m.cfg.HistoryLimit)
	s := newSession(id, p, m.looker, m.logger, m.now())
	m.sessions[id] = s

	m.logger.Debug("session created", zap.String("session", id))
	return s
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than ttl and returns how many were
// removed. Their preferences stay in the store.
func (m *Manager) Sweep(ttl time.Duration) int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.idleSince(now) > ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
