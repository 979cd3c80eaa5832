// Package session provides the live-session store drivers. A profile lives
// here between turns; completed sessions go to the archive instead.
package session

import (
	"context"
	"sync"
	"time"

	"healthmate/internal/triage"
)

// MemoryStore keeps profiles in an in-process map. Suitable for a single
// instance; use the Redis store when running multiple workers.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	ttl      time.Duration
}

type entry struct {
	profile *triage.PatientProfile
	expires time.Time
}

// NewMemoryStore creates an in-memory store. Sessions idle past ttl are
// dropped lazily on access. A non-positive ttl disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*entry),
		ttl:      ttl,
	}
}

func (s *MemoryStore) Create(ctx context.Context, p *triage.PatientProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[p.SessionID] = &entry{profile: p, expires: s.deadline()}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*triage.PatientProfile, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if s.ttl > 0 && time.Now().After(e.expires) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, nil
	}
	return e.profile, nil
}

func (s *MemoryStore) Update(ctx context.Context, p *triage.PatientProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[p.SessionID]; !ok {
		return triage.ErrSessionNotFound
	}
	s.sessions[p.SessionID] = &entry{profile: p, expires: s.deadline()}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) deadline() time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(s.ttl)
}
