package services

import (
	"log"
	"sync"
	"time"
)

// SessionRegistry indexes live sessions by match ID and by player ID.
// Sessions own their state; the registry only tracks membership, so a
// plain RWMutex is enough here.
type SessionRegistry struct {
	mu       sync.RWMutex
	byMatch  map[string]*MatchSession
	byPlayer map[string]*MatchSession
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		byMatch:  make(map[string]*MatchSession),
		byPlayer: make(map[string]*MatchSession),
	}
}

// Register adds a session under its match ID and both players.
func (r *SessionRegistry) Register(s *MatchSession) {
	p1, p2 := s.PlayerIDs()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byMatch[s.ID] = s
	r.byPlayer[p1] = s
	r.byPlayer[p2] = s
}

// Get looks a session up by match ID.
func (r *SessionRegistry) Get(matchID string) (*MatchSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byMatch[matchID]
	return s, ok
}

// ForPlayer returns the session a player currently belongs to.
func (r *SessionRegistry) ForPlayer(playerID string) (*MatchSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byPlayer[playerID]
	return s, ok
}

// HasActive reports whether the player is in a session that has not yet
// ended. Used by matchmaking to reject double queueing.
func (r *SessionRegistry) HasActive(playerID string) bool {
	s, ok := r.ForPlayer(playerID)
	return ok && !s.Terminal()
}

// Count returns how many sessions are registered.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byMatch)
}

// All returns a snapshot of every registered session.
func (r *SessionRegistry) All() []*MatchSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*MatchSession, 0, len(r.byMatch))
	for _, s := range r.byMatch {
		out = append(out, s)
	}
	return out
}

func (r *SessionRegistry) unregister(s *MatchSession) {
	p1, p2 := s.PlayerIDs()
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byMatch, s.ID)
	// Only clear the player index if it still points at this session;
	// the player may already be in a newer match.
	if r.byPlayer[p1] == s {
		delete(r.byPlayer, p1)
	}
	if r.byPlayer[p2] == s {
		delete(r.byPlayer, p2)
	}
}

// Sweep drops terminal sessions past the linger window and asks
// never-started sessions past maxIdle to abandon themselves. Driven by
// the scheduler.
func (r *SessionRegistry) Sweep(linger, maxIdle time.Duration) {
	now := time.Now()
	for _, s := range r.All() {
		if s.Terminal() {
			if since := s.TerminalSince(); !since.IsZero() && now.Sub(since) >= linger {
				s.Stop()
				r.unregister(s)
				log.Printf("[Registry] removed finished session %s", s.ID)
			}
			continue
		}
		s.AbandonIfStale(maxIdle)
	}
}
