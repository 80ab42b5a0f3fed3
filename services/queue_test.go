package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"quiz-duel-server/game"
	"quiz-duel-server/protocol"
)

type pairRecorder struct {
	mu    sync.Mutex
	pairs [][2]string
}

func (r *pairRecorder) factory(p1, p2 protocol.PlayerRef, language string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pairs = append(r.pairs, [2]string{p1.ID, p2.ID})
	return "match-1", nil
}

func (r *pairRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pairs)
}

func newTestQueue(t *testing.T, tn game.Tuning, rec *pairRecorder, hasActive func(string) bool) *MatchmakingQueue {
	t.Helper()
	q := NewMatchmakingQueue(tn, rec.factory, hasActive)
	go q.Run()
	t.Cleanup(q.Stop)
	return q
}

func queuedPlayer(id string, trophies int) protocol.PlayerRef {
	return protocol.PlayerRef{ID: id, DisplayName: id, Trophies: trophies, Grade: 3}
}

// tick runs one matching pass and waits for it to be applied. Size goes
// through the same inbox, so its reply means the tick is done.
func tick(q *MatchmakingQueue) int {
	q.Tick()
	return q.Size()
}

func TestPairWithinBaseRadius(t *testing.T) {
	rec := &pairRecorder{}
	q := newTestQueue(t, game.DefaultTuning(), rec, nil)

	c1, c2 := &fakeConn{}, &fakeConn{}
	if err := q.Join(queuedPlayer("p1", 1000), "en", c1); err != nil {
		t.Fatalf("join p1: %v", err)
	}
	if err := q.Join(queuedPlayer("p2", 1090), "en", c2); err != nil {
		t.Fatalf("join p2: %v", err)
	}

	if left := tick(q); left != 0 {
		t.Fatalf("%d players still queued after pairing tick", left)
	}
	if rec.count() != 1 {
		t.Fatalf("factory called %d times, want 1", rec.count())
	}

	for _, c := range []*fakeConn{c1, c2} {
		found := c.waitFor(t, protocol.EvtMatchFound, 1, time.Second)
		if got := found[0].Payload.(protocol.MatchFound).MatchID; got != "match-1" {
			t.Fatalf("match id = %s, want match-1", got)
		}
	}
	opp := c1.ofType(protocol.EvtMatchFound)[0].Payload.(protocol.MatchFound).Opponent
	if opp.ID != "p2" {
		t.Fatalf("p1's opponent = %s, want p2", opp.ID)
	}
}

func TestNoPairOutsideRadius(t *testing.T) {
	rec := &pairRecorder{}
	q := newTestQueue(t, game.DefaultTuning(), rec, nil)

	_ = q.Join(queuedPlayer("p1", 1000), "en", &fakeConn{})
	_ = q.Join(queuedPlayer("p2", 1300), "en", &fakeConn{})

	if left := tick(q); left != 2 {
		t.Fatalf("%d players queued, want 2 (gap exceeds base radius)", left)
	}
	if rec.count() != 0 {
		t.Fatalf("factory called %d times, want 0", rec.count())
	}
}

func TestRadiusWidensWithWait(t *testing.T) {
	tn := game.DefaultTuning()
	tn.RadiusGrowthPerSec = 500
	rec := &pairRecorder{}
	q := newTestQueue(t, tn, rec, nil)

	_ = q.Join(queuedPlayer("p1", 1000), "en", &fakeConn{})
	_ = q.Join(queuedPlayer("p2", 1300), "en", &fakeConn{})

	if left := tick(q); left != 2 {
		t.Fatalf("paired too early, %d left", left)
	}

	// After a second both radii cover the 300 trophy gap.
	time.Sleep(1100 * time.Millisecond)
	if left := tick(q); left != 0 {
		t.Fatalf("%d players still queued after radius widened", left)
	}
	if rec.count() != 1 {
		t.Fatalf("factory called %d times, want 1", rec.count())
	}
}

func TestLanguageMustMatch(t *testing.T) {
	rec := &pairRecorder{}
	q := newTestQueue(t, game.DefaultTuning(), rec, nil)

	_ = q.Join(queuedPlayer("p1", 1000), "en", &fakeConn{})
	_ = q.Join(queuedPlayer("p2", 1000), "de", &fakeConn{})

	if left := tick(q); left != 2 {
		t.Fatalf("players with different languages were paired, %d left", left)
	}
}

func TestClosestOpponentWins(t *testing.T) {
	rec := &pairRecorder{}
	q := newTestQueue(t, game.DefaultTuning(), rec, nil)

	_ = q.Join(queuedPlayer("p1", 1000), "en", &fakeConn{})
	_ = q.Join(queuedPlayer("far", 1095), "en", &fakeConn{})
	_ = q.Join(queuedPlayer("near", 1010), "en", &fakeConn{})

	tick(q)
	if rec.count() != 1 {
		t.Fatalf("factory called %d times, want 1", rec.count())
	}
	rec.mu.Lock()
	pair := rec.pairs[0]
	rec.mu.Unlock()
	if pair[1] != "near" {
		t.Fatalf("p1 paired with %s, want near", pair[1])
	}
}

func TestDoubleJoinRejected(t *testing.T) {
	rec := &pairRecorder{}
	q := newTestQueue(t, game.DefaultTuning(), rec, nil)

	if err := q.Join(queuedPlayer("p1", 1000), "en", &fakeConn{}); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if err := q.Join(queuedPlayer("p1", 1000), "en", &fakeConn{}); err != ErrAlreadyQueued {
		t.Fatalf("expected ErrAlreadyQueued, got %v", err)
	}
}

func TestActiveMatchBlocksQueueing(t *testing.T) {
	rec := &pairRecorder{}
	q := newTestQueue(t, game.DefaultTuning(), rec, func(string) bool { return true })

	if err := q.Join(queuedPlayer("p1", 1000), "en", &fakeConn{}); err != ErrAlreadyQueued {
		t.Fatalf("expected ErrAlreadyQueued for in-match player, got %v", err)
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	rec := &pairRecorder{}
	q := newTestQueue(t, game.DefaultTuning(), rec, nil)

	q.Leave("ghost") // unknown player, no-op

	_ = q.Join(queuedPlayer("p1", 1000), "en", &fakeConn{})
	q.Leave("p1")
	q.Leave("p1")
	if got := q.Size(); got != 0 {
		t.Fatalf("queue size = %d, want 0 after leave", got)
	}
}

func TestFactoryFailureKeepsPlayersQueued(t *testing.T) {
	rec := &pairRecorder{}
	failures := 1
	q := NewMatchmakingQueue(game.DefaultTuning(), func(p1, p2 protocol.PlayerRef, language string) (string, error) {
		if failures > 0 {
			failures--
			return "", errors.New("question bank unavailable")
		}
		return rec.factory(p1, p2, language)
	}, nil)
	go q.Run()
	t.Cleanup(q.Stop)

	c1, c2 := &fakeConn{}, &fakeConn{}
	_ = q.Join(queuedPlayer("p1", 1000), "en", c1)
	_ = q.Join(queuedPlayer("p2", 1010), "en", c2)

	// First tick fails; both players must still be searching, told why.
	if left := tick(q); left != 2 {
		t.Fatalf("%d players queued after failed match creation, want 2", left)
	}
	for _, c := range []*fakeConn{c1, c2} {
		c.waitFor(t, protocol.EvtError, 1, time.Second)
		if got := len(c.ofType(protocol.EvtMatchFound)); got != 0 {
			t.Fatalf("match_found sent despite factory failure")
		}
	}

	// Next tick retries and succeeds.
	if left := tick(q); left != 0 {
		t.Fatalf("%d players still queued after retry tick", left)
	}
	if rec.count() != 1 {
		t.Fatalf("factory succeeded %d times, want 1", rec.count())
	}
	c1.waitFor(t, protocol.EvtMatchFound, 1, time.Second)
	c2.waitFor(t, protocol.EvtMatchFound, 1, time.Second)
}

func TestLongWaitNotifiesOnce(t *testing.T) {
	tn := game.DefaultTuning()
	tn.MaxWaitSec = 0
	rec := &pairRecorder{}
	q := newTestQueue(t, tn, rec, nil)

	c := &fakeConn{}
	_ = q.Join(queuedPlayer("p1", 1000), "en", c)

	tick(q)
	tick(q)
	if got := len(c.ofType(protocol.EvtNoMatch)); got != 1 {
		t.Fatalf("no_match sent %d times, want exactly 1", got)
	}
	// Player stays queued and can still be matched later.
	if got := q.Size(); got != 1 {
		t.Fatalf("queue size = %d, want 1", got)
	}
}
