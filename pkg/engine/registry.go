package engine

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/pilot-uwb/pilot-go/pkg/ranging"
	"github.com/pilot-uwb/pilot-go/pkg/session"
)

// DefaultMaxSessions is the default concurrent session limit.
const DefaultMaxSessions = 8

// ErrRegistryFull indicates the concurrent session limit was reached.
var ErrRegistryFull = errors.New("session registry full")

// Registry holds the active sessions keyed by accessory address. A
// reconnecting identity replaces its previous session; the replaced
// session is closed. All methods are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*session.DeviceSession
	limit    int
	logger   *slog.Logger
}

// NewRegistry creates a registry with the given session limit.
// A limit of zero or less uses DefaultMaxSessions.
func NewRegistry(limit int, logger *slog.Logger) *Registry {
	if limit <= 0 {
		limit = DefaultMaxSessions
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		sessions: make(map[string]*session.DeviceSession),
		limit:    limit,
		logger:   logger,
	}
}

// Add registers a session. An existing session for the same identity is
// closed and replaced; replacement never counts against the limit.
func (r *Registry) Add(s *session.DeviceSession) error {
	address := s.Identity().Address

	r.mu.Lock()
	old, replacing := r.sessions[address]
	if !replacing && len(r.sessions) >= r.limit {
		r.mu.Unlock()
		return ErrRegistryFull
	}
	r.sessions[address] = s
	r.mu.Unlock()

	if replacing {
		r.logger.Info("replacing session for reconnected device", "device", address)
		old.Close()
	}
	return nil
}

// Limit returns the concurrent session limit.
func (r *Registry) Limit() int { return r.limit }

// Get returns the session for address, if one exists.
func (r *Registry) Get(address string) (*session.DeviceSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[address]
	return s, ok
}

// Remove closes and removes the session for address. Removing an unknown
// address is a no-op.
func (r *Registry) Remove(address string) {
	r.mu.Lock()
	s, ok := r.sessions[address]
	if ok {
		delete(r.sessions, address)
	}
	r.mu.Unlock()

	if ok {
		s.Close()
	}
}

// Drop removes the given session without closing it. Used when the
// session already terminated on its own. The entry is deleted only when
// it still holds this exact session, so dropping a replaced session never
// unregisters its replacement.
func (r *Registry) Drop(s *session.DeviceSession) {
	address := s.Identity().Address
	r.mu.Lock()
	if r.sessions[address] == s {
		delete(r.sessions, address)
	}
	r.mu.Unlock()
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// All returns a snapshot of the registered sessions.
func (r *Registry) All() []*session.DeviceSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*session.DeviceSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	return all
}

// Readings returns the latest reading per device address. Devices without
// a reading yet are absent.
func (r *Registry) Readings() map[string]ranging.Reading {
	all := r.All()
	readings := make(map[string]ranging.Reading, len(all))
	for _, s := range all {
		if reading := s.LastReading(); reading != nil {
			readings[s.Identity().Address] = *reading
		}
	}
	return readings
}

// CloseStale closes and removes sessions whose last activity is older than
// maxIdle, returning the identities that were reaped.
func (r *Registry) CloseStale(maxIdle time.Duration) []session.Identity {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	var stale []*session.DeviceSession
	for address, s := range r.sessions {
		if s.LastActivity().Before(cutoff) {
			stale = append(stale, s)
			delete(r.sessions, address)
		}
	}
	r.mu.Unlock()

	identities := make([]session.Identity, 0, len(stale))
	for _, s := range stale {
		r.logger.Info("closing stale session", "device", s.Identity().Address)
		s.Close()
		identities = append(identities, s.Identity())
	}
	return identities
}

// Close closes and removes all sessions.
func (r *Registry) Close() {
	r.mu.Lock()
	all := make([]*session.DeviceSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.sessions = make(map[string]*session.DeviceSession)
	r.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}
