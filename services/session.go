package services

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"quiz-duel-server/game"
	"quiz-duel-server/protocol"
)

// MatchResult is handed to the finish callback exactly once when a
// session reaches a terminal state. Deltas is empty when no winner was
// credited (double disconnect before the clock ran out).
// answerLatencyAllowanceMs bounds how much a client-reported response
// time may undercut the server-measured one before it is ignored.
const answerLatencyAllowanceMs = 2000

type MatchResult struct {
	MatchID     string
	Player1     protocol.PlayerRef
	Player2     protocol.PlayerRef
	Status      string // finished | abandoned
	WinnerID    string
	IsDraw      bool
	Goals1      int
	Goals2      int
	Score1      int
	Score2      int
	Correct1    int
	Correct2    int
	Deltas      []game.TrophyDelta
	DurationSec int
	Answers     map[string][]AnswerRecord
}

type participant struct {
	ref         protocol.PlayerRef
	seat        int // 1 or 2
	conn        Conn
	isReady     bool
	isConnected bool

	score        int
	goals        int
	correctCount int
	answers      []AnswerRecord
}

func (p *participant) hasAnswered(index int) bool {
	for _, a := range p.answers {
		if a.QuestionIndex == index {
			return true
		}
	}
	return false
}

// send is nil-safe; a disconnected participant just misses the event.
func (p *participant) send(eventType string, payload any) {
	if p.conn == nil {
		return
	}
	if err := p.conn.SendEvent(eventType, payload); err != nil {
		log.Printf("[Session] send %s to %s failed: %v", eventType, p.ref.ID, err)
	}
}

// MatchSession owns one match's authoritative state. Every mutation,
// client commands and timer firings alike, goes through the inbox and
// is applied by the single Run goroutine, so a timer expiring and an
// answer arriving at the same instant still resolve in one defined order.
type MatchSession struct {
	ID        string
	CreatedAt time.Time

	inbox    chan any
	quit     chan struct{}
	stopOnce sync.Once

	tuning  game.Tuning
	scoring game.Scoring
	rating  game.Rating

	questions []Question
	grade     int // averaged between the two players, picks time limits

	p1, p2 *participant

	status        string
	field         int
	timeRemaining int
	current       int
	questionStart time.Time
	countdown     int
	startedAt     time.Time

	// mirrors for readers outside the loop (registry, REST listing)
	statusMirror atomic.Value // string
	terminalAt   atomic.Int64 // unix seconds, 0 while live

	onFinish func(MatchResult)
}

// Session commands. Timer callbacks post these too.
type joinCmd struct {
	playerID string
	conn     Conn
	reply    chan error
}
type readyCmd struct{ playerID string }
type answerCmd struct {
	playerID      string
	questionIndex int
	answerIndex   int
	elapsedMs     int
	reply         chan error
}
type disconnectCmd struct{ playerID string }
type reconnectCmd struct {
	playerID string
	conn     Conn
	reply    chan error
}
type leaveCmd struct{ playerID string }
type countdownTickCmd struct{}
type questionTimeoutCmd struct{ index int }
type clockTickCmd struct{}
type reconnectExpiredCmd struct{ playerID string }
type staleCheckCmd struct{ maxAge time.Duration }
type snapshotCmd struct{ reply chan protocol.GameState }

// NewMatchSession creates a session with both seats assigned but not
// yet connected. The caller starts Run and registers it before any
// client can reach it; ownership is handed over exactly once.
func NewMatchSession(id string, player1, player2 protocol.PlayerRef, questions []Question, tuning game.Tuning, onFinish func(MatchResult)) *MatchSession {
	s := &MatchSession{
		ID:        id,
		CreatedAt: time.Now(),
		inbox:     make(chan any, 256),
		quit:      make(chan struct{}),
		tuning:    tuning,
		scoring:   game.NewScoring(tuning),
		rating:    game.NewRating(tuning),
		questions: questions,
		grade:     roundedAvg(player1.Grade, player2.Grade),
		p1:        &participant{ref: player1, seat: 1},
		p2:        &participant{ref: player2, seat: 2},
		status:    protocol.StatusWaiting,
		current:   -1,
		onFinish:  onFinish,
	}
	s.statusMirror.Store(protocol.StatusWaiting)
	return s
}

func roundedAvg(a, b int) int {
	return (a + b + 1) / 2
}

func (s *MatchSession) Run() {
	for {
		select {
		case <-s.quit:
			return
		case cmd := <-s.inbox:
			s.handle(cmd)
		}
	}
}

func (s *MatchSession) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
}

// Status is the loop-external view of the state machine.
func (s *MatchSession) Status() string {
	return s.statusMirror.Load().(string)
}

// Terminal reports whether the session has reached Finished or Abandoned.
func (s *MatchSession) Terminal() bool {
	st := s.Status()
	return st == protocol.StatusFinished || st == protocol.StatusAbandoned
}

// TerminalSince returns when the session ended, or zero while live.
func (s *MatchSession) TerminalSince() time.Time {
	ts := s.terminalAt.Load()
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}

// PlayerIDs returns both seat holders.
func (s *MatchSession) PlayerIDs() (string, string) {
	return s.p1.ref.ID, s.p2.ref.ID
}

func (s *MatchSession) post(cmd any) {
	select {
	case s.inbox <- cmd:
	case <-s.quit:
	}
}

func (s *MatchSession) ask(cmd any, reply chan error) error {
	select {
	case s.inbox <- cmd:
	case <-s.quit:
		return ErrSessionClosed
	}
	select {
	case err := <-reply:
		return err
	case <-s.quit:
		return ErrSessionClosed
	}
}

// Join attaches a connection to the player's pre-assigned seat.
func (s *MatchSession) Join(playerID string, conn Conn) error {
	reply := make(chan error, 1)
	return s.ask(joinCmd{playerID: playerID, conn: conn, reply: reply}, reply)
}

func (s *MatchSession) SetReady(playerID string) {
	s.post(readyCmd{playerID: playerID})
}

func (s *MatchSession) SubmitAnswer(playerID string, questionIndex, answerIndex, elapsedMs int) error {
	reply := make(chan error, 1)
	return s.ask(answerCmd{
		playerID:      playerID,
		questionIndex: questionIndex,
		answerIndex:   answerIndex,
		elapsedMs:     elapsedMs,
		reply:         reply,
	}, reply)
}

func (s *MatchSession) Disconnect(playerID string) {
	s.post(disconnectCmd{playerID: playerID})
}

func (s *MatchSession) Reconnect(playerID string, conn Conn) error {
	reply := make(chan error, 1)
	return s.ask(reconnectCmd{playerID: playerID, conn: conn, reply: reply}, reply)
}

func (s *MatchSession) Leave(playerID string) {
	s.post(leaveCmd{playerID: playerID})
}

// AbandonIfStale asks the session to give up if it never got started.
func (s *MatchSession) AbandonIfStale(maxAge time.Duration) {
	s.post(staleCheckCmd{maxAge: maxAge})
}

// Snapshot returns the current state as clients see it.
func (s *MatchSession) Snapshot() (protocol.GameState, error) {
	reply := make(chan protocol.GameState, 1)
	select {
	case s.inbox <- snapshotCmd{reply: reply}:
	case <-s.quit:
		return protocol.GameState{}, ErrSessionClosed
	}
	select {
	case st := <-reply:
		return st, nil
	case <-s.quit:
		return protocol.GameState{}, ErrSessionClosed
	}
}

// handle applies one command. A panic here is an invariant violation:
// the session is abandoned with both clients notified rather than left
// half-updated.
func (s *MatchSession) handle(cmd any) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Session %s] fatal: %v", s.ID, r)
			if !s.isTerminal() {
				s.abandon("internal error")
			}
		}
	}()

	switch c := cmd.(type) {
	case joinCmd:
		c.reply <- s.handleJoin(c.playerID, c.conn)
	case readyCmd:
		s.handleReady(c.playerID)
	case answerCmd:
		c.reply <- s.handleAnswer(c)
	case disconnectCmd:
		s.handleDisconnect(c.playerID)
	case reconnectCmd:
		c.reply <- s.handleReconnect(c.playerID, c.conn)
	case leaveCmd:
		s.handleLeave(c.playerID)
	case countdownTickCmd:
		s.handleCountdownTick()
	case questionTimeoutCmd:
		s.handleQuestionTimeout(c.index)
	case clockTickCmd:
		s.handleClockTick()
	case reconnectExpiredCmd:
		s.handleReconnectExpired(c.playerID)
	case staleCheckCmd:
		s.handleStaleCheck(c.maxAge)
	case snapshotCmd:
		c.reply <- s.snapshot()
	}
}

func (s *MatchSession) participantFor(playerID string) (*participant, *participant) {
	switch playerID {
	case s.p1.ref.ID:
		return s.p1, s.p2
	case s.p2.ref.ID:
		return s.p2, s.p1
	default:
		return nil, nil
	}
}

func (s *MatchSession) isTerminal() bool {
	return s.status == protocol.StatusFinished || s.status == protocol.StatusAbandoned
}

func (s *MatchSession) setStatus(status string) {
	s.status = status
	s.statusMirror.Store(status)
	if status == protocol.StatusFinished || status == protocol.StatusAbandoned {
		s.terminalAt.Store(time.Now().Unix())
	}
}

func (s *MatchSession) broadcast(eventType string, payload any) {
	s.p1.send(eventType, payload)
	s.p2.send(eventType, payload)
}

func (s *MatchSession) handleJoin(playerID string, conn Conn) error {
	if s.isTerminal() {
		return ErrMatchNotFound
	}
	p, peer := s.participantFor(playerID)
	if p == nil {
		return ErrRoomFull
	}

	rejoin := p.isConnected || len(p.answers) > 0 || s.status != protocol.StatusWaiting
	if p.conn != nil && p.conn != conn {
		_ = p.conn.Close()
	}
	p.conn = conn
	p.isConnected = true

	// The joiner learns about both seats; the peer learns about the joiner.
	p.send(protocol.EvtPlayerJoined, protocol.PlayerJoined{Player: p.ref, IsPlayer1: p.seat == 1})
	if peer.isConnected {
		p.send(protocol.EvtPlayerJoined, protocol.PlayerJoined{Player: peer.ref, IsPlayer1: peer.seat == 1})
	}
	peer.send(protocol.EvtPlayerJoined, protocol.PlayerJoined{Player: p.ref, IsPlayer1: p.seat == 1})

	if rejoin && s.status != protocol.StatusWaiting && s.status != protocol.StatusReady {
		// Mid-match rejoin behaves like a reconnect: one resync snapshot.
		peer.send(protocol.EvtOpponentReconnected, protocol.OpponentReconnected{PlayerID: playerID})
		p.send(protocol.EvtGameState, s.snapshot())
		return nil
	}

	if s.status == protocol.StatusWaiting && s.p1.isConnected && s.p2.isConnected {
		s.setStatus(protocol.StatusReady)
	}
	return nil
}

func (s *MatchSession) handleReady(playerID string) {
	if s.status != protocol.StatusReady {
		return
	}
	p, _ := s.participantFor(playerID)
	if p == nil || p.isReady {
		return
	}
	p.isReady = true
	s.broadcast(protocol.EvtPlayerReady, protocol.PlayerReady{PlayerID: playerID})

	if s.p1.isReady && s.p2.isReady {
		s.broadcast(protocol.EvtBothReady, nil)
		s.startCountdown()
	}
}

func (s *MatchSession) startCountdown() {
	s.setStatus(protocol.StatusCountdown)
	s.countdown = s.tuning.CountdownFrom
	s.broadcast(protocol.EvtCountdown, protocol.Countdown{Value: s.countdown})
	time.AfterFunc(time.Second, func() { s.post(countdownTickCmd{}) })
}

func (s *MatchSession) handleCountdownTick() {
	if s.status != protocol.StatusCountdown {
		return
	}
	s.countdown--
	if s.countdown > 0 {
		s.broadcast(protocol.EvtCountdown, protocol.Countdown{Value: s.countdown})
		time.AfterFunc(time.Second, func() { s.post(countdownTickCmd{}) })
		return
	}
	s.broadcast(protocol.EvtCountdown, protocol.Countdown{Value: 0})
	s.startGame()
}

func (s *MatchSession) startGame() {
	s.setStatus(protocol.StatusActive)
	s.startedAt = time.Now()
	s.timeRemaining = s.tuning.MatchDurationSec
	s.field = 0
	s.broadcast(protocol.EvtGameStart, protocol.GameStart{State: s.snapshot()})
	time.AfterFunc(time.Second, func() { s.post(clockTickCmd{}) })
	s.sendQuestion(0)
}

func (s *MatchSession) timeLimitMs(q Question) int {
	if q.TimeLimitMs > 0 {
		return q.TimeLimitMs
	}
	return s.tuning.QuestionTimeMs(s.grade)
}

func (s *MatchSession) sendQuestion(index int) {
	if index >= len(s.questions) {
		s.finish("")
		return
	}
	s.current = index
	s.questionStart = time.Now()

	q := s.questions[index]
	limit := s.timeLimitMs(q)
	s.broadcast(protocol.EvtQuestionStart, protocol.QuestionStart{
		Index: index,
		Question: protocol.GameQuestion{
			ID:          q.ID,
			Text:        q.Text,
			Options:     q.Options,
			Difficulty:  q.Difficulty,
			TimeLimitMs: limit,
		},
		TimeLimitMs: limit,
	})
	time.AfterFunc(time.Duration(limit)*time.Millisecond, func() {
		s.post(questionTimeoutCmd{index: index})
	})
}

func (s *MatchSession) handleAnswer(c answerCmd) error {
	if s.status != protocol.StatusActive {
		return ErrNotActive
	}
	p, peer := s.participantFor(c.playerID)
	if p == nil {
		return ErrNotInMatch
	}
	if c.questionIndex != s.current {
		return ErrWrongQuestion
	}
	if p.hasAnswered(c.questionIndex) {
		return ErrAlreadyAnswered
	}

	q := s.questions[s.current]
	limit := s.timeLimitMs(q)

	// The session's own question-start timestamp is the authoritative
	// clock. The client's self-reported elapsed excludes network
	// latency, so accept it when it sits inside the window the server
	// observed; a claim faster than the allowance is ignored.
	elapsed := int(time.Since(s.questionStart).Milliseconds())
	if elapsed < 0 {
		elapsed = 0
	}
	if c.elapsedMs > 0 && c.elapsedMs < elapsed && elapsed-c.elapsedMs <= answerLatencyAllowanceMs {
		elapsed = c.elapsedMs
	}
	if elapsed > limit {
		elapsed = limit
	}

	isCorrect := c.answerIndex == q.CorrectIndex
	points := s.scoring.Points(isCorrect, elapsed, limit)

	p.answers = append(p.answers, AnswerRecord{
		QuestionIndex:  c.questionIndex,
		AnswerIndex:    c.answerIndex,
		IsCorrect:      isCorrect,
		ResponseTimeMs: elapsed,
		PointsEarned:   points,
		Timestamp:      time.Now(),
	})
	p.score += points
	if isCorrect {
		p.correctCount++
	}

	// Tell the opponent someone answered before revealing anything.
	peer.send(protocol.EvtOpponentAnswered, protocol.OpponentAnswered{
		PlayerID:      c.playerID,
		QuestionIndex: c.questionIndex,
	})

	push := s.scoring.FieldPush(points, p.seat)
	newField, goalBy := s.scoring.ApplyPush(s.field, push)
	s.field = newField

	s.broadcast(protocol.EvtAnswerResult, protocol.AnswerResult{
		PlayerID:         c.playerID,
		QuestionIndex:    c.questionIndex,
		IsCorrect:        isCorrect,
		PointsEarned:     points,
		NewFieldPosition: s.field,
	})

	var scorer *participant
	if goalBy != 0 {
		scorer = s.p1
		if goalBy == 2 {
			scorer = s.p2
		}
		scorer.goals++
	}

	s.broadcast(protocol.EvtScoreUpdate, protocol.ScoreUpdate{
		Score1:        s.p1.score,
		Score2:        s.p2.score,
		Correct1:      s.p1.correctCount,
		Correct2:      s.p2.correctCount,
		FieldPosition: s.field,
	})
	if scorer != nil {
		s.broadcast(protocol.EvtGoalScored, protocol.GoalScored{
			ScoredBy: scorer.ref.ID,
			Goals1:   s.p1.goals,
			Goals2:   s.p2.goals,
		})
	}

	if s.p1.hasAnswered(s.current) && s.p2.hasAnswered(s.current) {
		s.sendQuestion(s.current + 1)
	}
	return nil
}

// handleQuestionTimeout fires for every question; the index guard makes
// stale timers for already-advanced questions harmless.
func (s *MatchSession) handleQuestionTimeout(index int) {
	if s.status != protocol.StatusActive || index != s.current {
		return
	}
	for _, p := range []*participant{s.p1, s.p2} {
		if p.hasAnswered(index) {
			continue
		}
		q := s.questions[index]
		p.answers = append(p.answers, AnswerRecord{
			QuestionIndex:  index,
			AnswerIndex:    -1,
			IsCorrect:      false,
			ResponseTimeMs: s.timeLimitMs(q),
			PointsEarned:   0,
			Timestamp:      time.Now(),
		})
	}
	s.sendQuestion(index + 1)
}

func (s *MatchSession) handleClockTick() {
	if s.status != protocol.StatusActive {
		return
	}
	s.timeRemaining--
	s.broadcast(protocol.EvtTimeUpdate, protocol.TimeUpdate{Remaining: s.timeRemaining})
	if s.timeRemaining <= 0 {
		s.finish("")
		return
	}
	if s.timeRemaining == 10 {
		s.broadcast(protocol.EvtTimeWarning, protocol.TimeWarning{SecondsLeft: s.timeRemaining})
	}
	time.AfterFunc(time.Second, func() { s.post(clockTickCmd{}) })
}

func (s *MatchSession) handleDisconnect(playerID string) {
	p, peer := s.participantFor(playerID)
	if p == nil || !p.isConnected {
		return
	}
	p.isConnected = false
	p.conn = nil
	if s.isTerminal() {
		return
	}

	log.Printf("[Session %s] %s disconnected, %s reconnect window", s.ID, playerID, s.tuning.ReconnectWindow)
	peer.send(protocol.EvtOpponentDisconnected, protocol.OpponentDisconnected{
		PlayerID:           playerID,
		ReconnectWindowSec: int(s.tuning.ReconnectWindow.Seconds()),
	})
	time.AfterFunc(s.tuning.ReconnectWindow, func() {
		s.post(reconnectExpiredCmd{playerID: playerID})
	})
}

func (s *MatchSession) handleReconnect(playerID string, conn Conn) error {
	if s.isTerminal() {
		return ErrMatchNotFound
	}
	p, peer := s.participantFor(playerID)
	if p == nil {
		return ErrNotInMatch
	}
	if p.conn != nil && p.conn != conn {
		_ = p.conn.Close()
	}
	p.conn = conn
	p.isConnected = true

	peer.send(protocol.EvtOpponentReconnected, protocol.OpponentReconnected{PlayerID: playerID})
	// One resync snapshot; no state is rolled back or replayed.
	p.send(protocol.EvtGameState, s.snapshot())
	return nil
}

func (s *MatchSession) handleLeave(playerID string) {
	p, peer := s.participantFor(playerID)
	if p == nil || s.isTerminal() {
		return
	}
	peer.send(protocol.EvtPlayerLeft, protocol.PlayerLeft{PlayerID: playerID})
	s.handleDisconnect(playerID)
}

// handleReconnectExpired decides the forfeit. If the player came back in
// time isConnected is true again and the expiry is a no-op.
func (s *MatchSession) handleReconnectExpired(playerID string) {
	if s.isTerminal() {
		return
	}
	p, peer := s.participantFor(playerID)
	if p == nil || p.isConnected {
		return
	}
	if !peer.isConnected {
		s.abandon("both players disconnected")
		return
	}
	log.Printf("[Session %s] %s never reconnected, forfeit to %s", s.ID, playerID, peer.ref.ID)
	s.finish(peer.ref.ID)
}

func (s *MatchSession) handleStaleCheck(maxAge time.Duration) {
	if s.status != protocol.StatusWaiting && s.status != protocol.StatusReady {
		return
	}
	if time.Since(s.CreatedAt) >= maxAge {
		s.abandon("match never started")
	}
}

// finish ends the match. An empty forfeitWinner means the normal rules
// decide: goals, then total score, then draw.
func (s *MatchSession) finish(forfeitWinner string) {
	winnerID := forfeitWinner
	if winnerID == "" {
		switch {
		case s.p1.goals > s.p2.goals:
			winnerID = s.p1.ref.ID
		case s.p2.goals > s.p1.goals:
			winnerID = s.p2.ref.ID
		case s.p1.score > s.p2.score:
			winnerID = s.p1.ref.ID
		case s.p2.score > s.p1.score:
			winnerID = s.p2.ref.ID
		}
	}
	isDraw := winnerID == ""

	result := game.ResultDraw
	switch winnerID {
	case s.p1.ref.ID:
		result = game.ResultPlayer1Win
	case s.p2.ref.ID:
		result = game.ResultPlayer2Win
	}
	d1, d2 := s.rating.Outcome(
		s.p1.ref.ID, s.p1.ref.Trophies,
		s.p2.ref.ID, s.p2.ref.Trophies,
		result,
	)

	s.setStatus(protocol.StatusFinished)
	duration := 0
	if !s.startedAt.IsZero() {
		duration = int(time.Since(s.startedAt).Seconds())
	}

	s.broadcast(protocol.EvtGameEnd, protocol.GameEnd{
		MatchID:       s.ID,
		WinnerID:      winnerID,
		IsDraw:        isDraw,
		Goals1:        s.p1.goals,
		Goals2:        s.p2.goals,
		Correct1:      s.p1.correctCount,
		Correct2:      s.p2.correctCount,
		TrophyChanges: []game.TrophyDelta{d1, d2},
		DurationSec:   duration,
	})

	s.emitResult(protocol.StatusFinished, winnerID, isDraw, []game.TrophyDelta{d1, d2}, duration)
	s.scheduleTeardown()
}

func (s *MatchSession) abandon(reason string) {
	s.setStatus(protocol.StatusAbandoned)
	s.broadcast(protocol.EvtGameAbandoned, protocol.GameAbandoned{Reason: reason})

	duration := 0
	if !s.startedAt.IsZero() {
		duration = int(time.Since(s.startedAt).Seconds())
	}
	s.emitResult(protocol.StatusAbandoned, "", false, nil, duration)
	s.scheduleTeardown()
}

func (s *MatchSession) emitResult(status, winnerID string, isDraw bool, deltas []game.TrophyDelta, duration int) {
	if s.onFinish == nil {
		return
	}
	s.onFinish(MatchResult{
		MatchID:     s.ID,
		Player1:     s.p1.ref,
		Player2:     s.p2.ref,
		Status:      status,
		WinnerID:    winnerID,
		IsDraw:      isDraw,
		Goals1:      s.p1.goals,
		Goals2:      s.p2.goals,
		Score1:      s.p1.score,
		Score2:      s.p2.score,
		Correct1:    s.p1.correctCount,
		Correct2:    s.p2.correctCount,
		Deltas:      deltas,
		DurationSec: duration,
		Answers: map[string][]AnswerRecord{
			s.p1.ref.ID: append([]AnswerRecord(nil), s.p1.answers...),
			s.p2.ref.ID: append([]AnswerRecord(nil), s.p2.answers...),
		},
	})
}

func (s *MatchSession) scheduleTeardown() {
	time.AfterFunc(s.tuning.SessionLinger, s.Stop)
}

func (s *MatchSession) snapshot() protocol.GameState {
	state := protocol.GameState{
		MatchID:        s.ID,
		Status:         s.status,
		Player1:        s.p1.ref,
		Player2:        s.p2.ref,
		Score1:         s.p1.score,
		Score2:         s.p2.score,
		Goals1:         s.p1.goals,
		Goals2:         s.p2.goals,
		Correct1:       s.p1.correctCount,
		Correct2:       s.p2.correctCount,
		QuestionIndex:  s.current,
		TotalQuestions: len(s.questions),
		TimeRemaining:  s.timeRemaining,
		FieldPosition:  s.field,
	}

	if s.status == protocol.StatusActive && s.current >= 0 && s.current < len(s.questions) {
		q := s.questions[s.current]
		limit := s.timeLimitMs(q)
		left := limit - int(time.Since(s.questionStart).Milliseconds())
		if left < 0 {
			left = 0
		}
		state.CurrentQuestion = &protocol.GameQuestion{
			ID:          q.ID,
			Text:        q.Text,
			Options:     q.Options,
			Difficulty:  q.Difficulty,
			TimeLimitMs: limit,
		}
		state.QuestionTimeLeftMs = left
	}
	return state
}
