package services

import (
	"log"
	"sort"
	"sync"
	"time"

	"quiz-duel-server/game"
	"quiz-duel-server/protocol"
)

// MatchFactory builds and starts a session for a paired couple and
// returns its match ID. Called from inside the queue loop, so it must
// not call back into the queue.
type MatchFactory func(p1, p2 protocol.PlayerRef, language string) (string, error)

type queueEntry struct {
	ref        protocol.PlayerRef
	language   string
	conn       Conn
	joinedAt   time.Time
	notifiedNo bool // no_match already sent, entry stays until cancelled
}

func (e *queueEntry) bucket() int {
	return e.ref.Trophies / 200
}

// radius is the trophy distance this entry currently accepts. It widens
// the longer the player waits, capped at MaxRadius.
func (e *queueEntry) radius(t game.Tuning, now time.Time) int {
	elapsed := int(now.Sub(e.joinedAt).Seconds())
	r := t.BaseRadius + elapsed*t.RadiusGrowthPerSec
	if r > t.MaxRadius {
		r = t.MaxRadius
	}
	return r
}

// MatchmakingQueue pairs waiting players by trophy proximity. One
// goroutine owns all queue state; Join/Leave post commands into it and
// the scheduler posts the periodic matching tick.
type MatchmakingQueue struct {
	tuning game.Tuning

	inbox    chan any
	quit     chan struct{}
	stopOnce sync.Once

	// buckets index entries by trophies/200 so a tick only scans
	// bands within reach instead of the whole queue.
	buckets  map[int]map[string]*queueEntry
	byPlayer map[string]*queueEntry

	onMatch   MatchFactory
	hasActive func(playerID string) bool
}

type qJoinCmd struct {
	ref      protocol.PlayerRef
	language string
	conn     Conn
	reply    chan error
}
type qLeaveCmd struct{ playerID string }
type qTickCmd struct{}
type qSizeCmd struct{ reply chan int }

// NewMatchmakingQueue wires the queue to a session factory and an
// active-match check used to reject double queueing.
func NewMatchmakingQueue(tuning game.Tuning, onMatch MatchFactory, hasActive func(playerID string) bool) *MatchmakingQueue {
	return &MatchmakingQueue{
		tuning:    tuning,
		inbox:     make(chan any, 128),
		quit:      make(chan struct{}),
		buckets:   make(map[int]map[string]*queueEntry),
		byPlayer:  make(map[string]*queueEntry),
		onMatch:   onMatch,
		hasActive: hasActive,
	}
}

func (q *MatchmakingQueue) Run() {
	for {
		select {
		case <-q.quit:
			return
		case cmd := <-q.inbox:
			q.handle(cmd)
		}
	}
}

func (q *MatchmakingQueue) Stop() {
	q.stopOnce.Do(func() { close(q.quit) })
}

func (q *MatchmakingQueue) post(cmd any) {
	select {
	case q.inbox <- cmd:
	case <-q.quit:
	}
}

// Join enqueues a player. Fails with ErrAlreadyQueued if the player is
// already waiting or already has a live match.
func (q *MatchmakingQueue) Join(ref protocol.PlayerRef, language string, conn Conn) error {
	reply := make(chan error, 1)
	select {
	case q.inbox <- qJoinCmd{ref: ref, language: language, conn: conn, reply: reply}:
	case <-q.quit:
		return ErrSessionClosed
	}
	select {
	case err := <-reply:
		return err
	case <-q.quit:
		return ErrSessionClosed
	}
}

// Leave removes a player from the queue. Unknown players are a no-op,
// so a cancel racing a successful match is harmless.
func (q *MatchmakingQueue) Leave(playerID string) {
	q.post(qLeaveCmd{playerID: playerID})
}

// Tick runs one matching pass. Driven by the scheduler.
func (q *MatchmakingQueue) Tick() {
	q.post(qTickCmd{})
}

// Size reports how many players are waiting.
func (q *MatchmakingQueue) Size() int {
	reply := make(chan int, 1)
	select {
	case q.inbox <- qSizeCmd{reply: reply}:
	case <-q.quit:
		return 0
	}
	select {
	case n := <-reply:
		return n
	case <-q.quit:
		return 0
	}
}

func (q *MatchmakingQueue) handle(cmd any) {
	switch c := cmd.(type) {
	case qJoinCmd:
		c.reply <- q.handleJoin(c)
	case qLeaveCmd:
		q.remove(c.playerID)
	case qTickCmd:
		q.handleTick(time.Now())
	case qSizeCmd:
		c.reply <- len(q.byPlayer)
	}
}

func (q *MatchmakingQueue) handleJoin(c qJoinCmd) error {
	if _, ok := q.byPlayer[c.ref.ID]; ok {
		return ErrAlreadyQueued
	}
	if q.hasActive != nil && q.hasActive(c.ref.ID) {
		return ErrAlreadyQueued
	}

	e := &queueEntry{
		ref:      c.ref,
		language: c.language,
		conn:     c.conn,
		joinedAt: time.Now(),
	}
	q.byPlayer[c.ref.ID] = e
	b := e.bucket()
	if q.buckets[b] == nil {
		q.buckets[b] = make(map[string]*queueEntry)
	}
	q.buckets[b][c.ref.ID] = e

	if c.conn != nil {
		_ = c.conn.SendEvent(protocol.EvtQueueStatus, protocol.QueueStatus{
			Position:     len(q.byPlayer),
			SearchRadius: q.tuning.BaseRadius,
		})
	}
	log.Printf("[Queue] %s joined (%d trophies, %s), %d waiting", c.ref.ID, c.ref.Trophies, c.language, len(q.byPlayer))
	return nil
}

func (q *MatchmakingQueue) remove(playerID string) {
	e, ok := q.byPlayer[playerID]
	if !ok {
		return
	}
	delete(q.byPlayer, playerID)
	b := e.bucket()
	delete(q.buckets[b], playerID)
	if len(q.buckets[b]) == 0 {
		delete(q.buckets, b)
	}
}

func (q *MatchmakingQueue) reinsert(e *queueEntry) {
	q.byPlayer[e.ref.ID] = e
	b := e.bucket()
	if q.buckets[b] == nil {
		q.buckets[b] = make(map[string]*queueEntry)
	}
	q.buckets[b][e.ref.ID] = e
}

// handleTick pairs everyone it can in one pass. Entries are visited
// longest-waiting first so nobody starves behind a stream of newcomers.
func (q *MatchmakingQueue) handleTick(now time.Time) {
	if len(q.byPlayer) < 2 {
		q.notifyLongWaits(now)
		return
	}

	waiting := make([]*queueEntry, 0, len(q.byPlayer))
	for _, e := range q.byPlayer {
		waiting = append(waiting, e)
	}
	sort.Slice(waiting, func(i, j int) bool {
		return waiting[i].joinedAt.Before(waiting[j].joinedAt)
	})

	// Entries from a failed pairing sit out the rest of this pass
	// instead of hammering the factory again before the next tick.
	failed := make(map[string]bool)
	for _, e := range waiting {
		if failed[e.ref.ID] {
			continue
		}
		if _, still := q.byPlayer[e.ref.ID]; !still {
			continue // paired earlier this pass
		}
		best := q.bestOpponent(e, now, failed)
		if best == nil {
			continue
		}
		if !q.pair(e, best) {
			failed[e.ref.ID] = true
			failed[best.ref.ID] = true
		}
	}
	q.notifyLongWaits(now)
}

// bestOpponent scans the buckets within the entry's current radius and
// picks the closest compatible opponent, earliest joiner on ties.
func (q *MatchmakingQueue) bestOpponent(e *queueEntry, now time.Time, skip map[string]bool) *queueEntry {
	r := e.radius(q.tuning, now)
	span := r/200 + 1
	center := e.bucket()

	var best *queueEntry
	bestDiff := 0
	for b := center - span; b <= center+span; b++ {
		for _, cand := range q.buckets[b] {
			if cand.ref.ID == e.ref.ID || skip[cand.ref.ID] {
				continue
			}
			if cand.language != e.language {
				continue
			}
			diff := e.ref.Trophies - cand.ref.Trophies
			if diff < 0 {
				diff = -diff
			}
			limit := r
			if cr := cand.radius(q.tuning, now); cr < limit {
				limit = cr
			}
			if diff > limit {
				continue
			}
			if best == nil || diff < bestDiff ||
				(diff == bestDiff && cand.joinedAt.Before(best.joinedAt)) {
				best = cand
				bestDiff = diff
			}
		}
	}
	return best
}

func (q *MatchmakingQueue) pair(a, b *queueEntry) bool {
	q.remove(a.ref.ID)
	q.remove(b.ref.ID)

	matchID, err := q.onMatch(a.ref, b.ref, a.language)
	if err != nil {
		log.Printf("[Queue] match creation for %s vs %s failed: %v", a.ref.ID, b.ref.ID, err)
		// Keep both searching; a later tick retries the pairing.
		q.reinsert(a)
		q.reinsert(b)
		for _, e := range []*queueEntry{a, b} {
			if e.conn != nil {
				_ = e.conn.SendEvent(protocol.EvtError, protocol.Error{
					Code:    "match_create_failed",
					Message: "could not create the match, still searching",
				})
			}
		}
		return false
	}
	log.Printf("[Queue] matched %s (%d) vs %s (%d) -> %s", a.ref.ID, a.ref.Trophies, b.ref.ID, b.ref.Trophies, matchID)

	if a.conn != nil {
		_ = a.conn.SendEvent(protocol.EvtMatchFound, protocol.MatchFound{MatchID: matchID, Opponent: b.ref})
	}
	if b.conn != nil {
		_ = b.conn.SendEvent(protocol.EvtMatchFound, protocol.MatchFound{MatchID: matchID, Opponent: a.ref})
	}
	return true
}

// notifyLongWaits tells players past the wait ceiling that nothing was
// found. They stay queued at max radius until they cancel.
func (q *MatchmakingQueue) notifyLongWaits(now time.Time) {
	for _, e := range q.byPlayer {
		if e.notifiedNo {
			continue
		}
		waited := int(now.Sub(e.joinedAt).Seconds())
		if waited < q.tuning.MaxWaitSec {
			continue
		}
		e.notifiedNo = true
		if e.conn != nil {
			_ = e.conn.SendEvent(protocol.EvtNoMatch, protocol.NoMatch{WaitedSec: waited})
		}
	}
}
