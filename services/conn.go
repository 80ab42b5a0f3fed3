package services

import "time"

// Conn is a live client connection as the engine sees it. The gateway
// implements it over a buffered outbound channel, so engine loops never
// block on a slow client.
type Conn interface {
	SendEvent(eventType string, payload any) error
	Close() error
}

// Question is a fully resolved question as the session holds it,
// correct answer included. Only the protocol layer's stripped view
// ever reaches a client.
type Question struct {
	ID           string
	Text         string
	Options      []string
	CorrectIndex int
	Difficulty   int
	TimeLimitMs  int // 0 = per-grade default
}

// AnswerRecord is one participant's answer to one question. Immutable
// once appended; at most one per (participant, question index).
type AnswerRecord struct {
	QuestionIndex  int       `json:"questionIndex"`
	AnswerIndex    int       `json:"answerIndex"` // -1 when the timer expired unanswered
	IsCorrect      bool      `json:"isCorrect"`
	ResponseTimeMs int       `json:"responseTimeMs"`
	PointsEarned   int       `json:"pointsEarned"`
	Timestamp      time.Time `json:"timestamp"`
}
