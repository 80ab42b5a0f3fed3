package protocol

import "quiz-duel-server/game"

// Events pushed from the server to clients.

type MatchFound struct {
	MatchID  string    `json:"matchId"`
	Opponent PlayerRef `json:"opponent"`
}

type QueueStatus struct {
	Position     int `json:"position"`
	SearchRadius int `json:"searchRadius"`
}

type NoMatch struct {
	WaitedSec int `json:"waitedSec"`
}

type PlayerJoined struct {
	Player    PlayerRef `json:"player"`
	IsPlayer1 bool      `json:"isPlayer1"`
}

type PlayerLeft struct {
	PlayerID string `json:"playerId"`
}

type PlayerReady struct {
	PlayerID string `json:"playerId"`
}

type Countdown struct {
	Value int `json:"value"`
}

// GameQuestion is the answer-stripped view of a question sent to
// clients. The correct index never leaves the server.
type GameQuestion struct {
	ID          string   `json:"id"`
	Text        string   `json:"question"`
	Options     []string `json:"options"`
	Difficulty  int      `json:"difficulty"`
	TimeLimitMs int      `json:"timeLimitMs"`
}

type QuestionStart struct {
	Index       int          `json:"index"`
	Question    GameQuestion `json:"question"`
	TimeLimitMs int          `json:"timeLimitMs"`
}

type OpponentAnswered struct {
	PlayerID      string `json:"playerId"`
	QuestionIndex int    `json:"questionIndex"`
}

type AnswerResult struct {
	PlayerID         string `json:"playerId"`
	QuestionIndex    int    `json:"questionIndex"`
	IsCorrect        bool   `json:"isCorrect"`
	PointsEarned     int    `json:"pointsEarned"`
	NewFieldPosition int    `json:"newFieldPosition"`
}

type ScoreUpdate struct {
	Score1        int `json:"score1"`
	Score2        int `json:"score2"`
	Correct1      int `json:"correct1"`
	Correct2      int `json:"correct2"`
	FieldPosition int `json:"fieldPosition"`
}

type GoalScored struct {
	ScoredBy string `json:"scoredBy"`
	Goals1   int    `json:"goals1"`
	Goals2   int    `json:"goals2"`
}

type TimeUpdate struct {
	Remaining int `json:"remaining"`
}

type TimeWarning struct {
	SecondsLeft int `json:"secondsLeft"`
}

// GameState is the full snapshot pushed at game start and on reconnect
// resync. It is the client's only source of truth.
type GameState struct {
	MatchID        string    `json:"matchId"`
	Status         string    `json:"status"`
	Player1        PlayerRef `json:"player1"`
	Player2        PlayerRef `json:"player2"`
	Score1         int       `json:"score1"`
	Score2         int       `json:"score2"`
	Goals1         int       `json:"goals1"`
	Goals2         int       `json:"goals2"`
	Correct1       int       `json:"correct1"`
	Correct2       int       `json:"correct2"`
	QuestionIndex  int       `json:"questionIndex"`
	TotalQuestions int       `json:"totalQuestions"`
	TimeRemaining  int       `json:"timeRemaining"`
	FieldPosition  int       `json:"fieldPosition"`

	// Set while a question is live, so a reconnecting client can
	// render and answer it without waiting for the next question_start.
	CurrentQuestion    *GameQuestion `json:"currentQuestion,omitempty"`
	QuestionTimeLeftMs int           `json:"questionTimeLeftMs,omitempty"`
}

type GameStart struct {
	State GameState `json:"state"`
}

type GameEnd struct {
	MatchID       string             `json:"matchId"`
	WinnerID      string             `json:"winnerId,omitempty"`
	IsDraw        bool               `json:"isDraw"`
	Goals1        int                `json:"goals1"`
	Goals2        int                `json:"goals2"`
	Correct1      int                `json:"correct1"`
	Correct2      int                `json:"correct2"`
	TrophyChanges []game.TrophyDelta `json:"trophyChanges,omitempty"`
	DurationSec   int                `json:"durationSec"`
}

type OpponentDisconnected struct {
	PlayerID           string `json:"playerId"`
	ReconnectWindowSec int    `json:"reconnectWindowSec"`
}

type OpponentReconnected struct {
	PlayerID string `json:"playerId"`
}

type GameAbandoned struct {
	Reason string `json:"reason"`
}

type Error struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type Pong struct {
	Timestamp int64 `json:"timestamp"`
}
