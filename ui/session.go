package ui

import (
	"context"
	"sync"
	"time"

	"rxintel/domain/core"
	"rxintel/internal"
	"rxintel/internal/frontend"
	"rxintel/ports"
)

// Session is one browser tab's controller and page model.
type Session struct {
	ID         core.SessionID
	Controller *frontend.Controller
	Document   *Document

	cancel   context.CancelFunc
	lastSeen time.Time
}

// SessionManager owns live sessions and expires idle ones.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[core.SessionID]*Session

	api    ports.AnalysisAPI
	opts   frontend.Options
	ttl    time.Duration
	now    func() time.Time
	logger *internal.Logger
}

// NewSessionManager creates a manager building controllers over api.
func NewSessionManager(api ports.AnalysisAPI, opts frontend.Options, ttl time.Duration, logger *internal.Logger) *SessionManager {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SessionManager{
		sessions: make(map[core.SessionID]*Session),
		api:      api,
		opts:     opts,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger.With("Sessions"),
	}
}

// Create starts a session. Its health poller starts with the first dashboard visit.
func (m *SessionManager) Create() *Session {
	doc := NewDocument()
	ctrl := frontend.New(doc, m.api, m.opts)
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		ID:         core.NewSessionID(),
		Controller: ctrl,
		Document:   doc,
		cancel:     cancel,
		lastSeen:   m.now(),
	}
	ctrl.Bind(ctx)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	m.logger.Debug("session %s started", s.ID)
	return s
}

// Get returns a live session and marks it as used.
func (m *SessionManager) Get(id core.SessionID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastSeen = m.now()
	return s, true
}

// Touch implements middleware.SessionStore.
func (m *SessionManager) Touch(id core.SessionID) bool {
	_, ok := m.Get(id)
	return ok
}

// Start implements middleware.SessionStore.
func (m *SessionManager) Start() core.SessionID {
	return m.Create().ID
}

// Len reports the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep ends sessions idle for longer than the TTL and returns how many.
func (m *SessionManager) Sweep() int {
	cutoff := m.now().Add(-m.ttl)
	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.cancel()
		m.logger.Debug("session %s expired", s.ID)
	}
	return len(expired)
}

// Run sweeps periodically until ctx is done, then ends every session.
func (m *SessionManager) Run(ctx context.Context) error {
	interval := m.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Close()
			return nil
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Info("expired %d idle sessions", n)
			}
		}
	}
}

// Close ends every session.
func (m *SessionManager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[core.SessionID]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.cancel()
	}
}
