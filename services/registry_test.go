package services

import (
	"testing"
	"time"

	"quiz-duel-server/protocol"
)

func newRegisteredSession(t *testing.T, id string, r *SessionRegistry) *MatchSession {
	t.Helper()
	ref1, ref2 := testRefs()
	s := NewMatchSession(id, ref1, ref2, testQuestions(3, 5000), testTuning(), nil)
	go s.Run()
	t.Cleanup(s.Stop)
	r.Register(s)
	return s
}

func TestRegistryLookup(t *testing.T) {
	r := NewSessionRegistry()
	s := newRegisteredSession(t, "m-1", r)

	if got, ok := r.Get("m-1"); !ok || got != s {
		t.Fatal("Get did not return the registered session")
	}
	if got, ok := r.ForPlayer("p1"); !ok || got != s {
		t.Fatal("ForPlayer(p1) did not return the registered session")
	}
	if got, ok := r.ForPlayer("p2"); !ok || got != s {
		t.Fatal("ForPlayer(p2) did not return the registered session")
	}
	if _, ok := r.Get("nope"); ok {
		t.Fatal("Get returned a session for an unknown id")
	}
	if !r.HasActive("p1") {
		t.Fatal("HasActive should be true for a waiting session")
	}
	if r.Count() != 1 {
		t.Fatalf("Count = %d, want 1", r.Count())
	}
}

func TestSweepRemovesTerminalSessions(t *testing.T) {
	r := NewSessionRegistry()
	s := newRegisteredSession(t, "m-sweep", r)

	// Force the session terminal, then sweep with a zero linger.
	s.AbandonIfStale(0)
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && !s.Terminal() {
		time.Sleep(5 * time.Millisecond)
	}
	if !s.Terminal() {
		t.Fatal("session never went terminal")
	}

	r.Sweep(0, time.Hour)
	if r.Count() != 0 {
		t.Fatalf("Count = %d after sweep, want 0", r.Count())
	}
	if r.HasActive("p1") {
		t.Fatal("HasActive should be false once the session is gone")
	}
}

func TestSweepAbandonsStaleWaiting(t *testing.T) {
	r := NewSessionRegistry()
	s := newRegisteredSession(t, "m-idle", r)

	r.Sweep(time.Hour, 0)
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if s.Status() == protocol.StatusAbandoned {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("status = %s, want abandoned", s.Status())
}
