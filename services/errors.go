package services

import "errors"

// Engine error taxonomy. Validation failures are rejected locally and
// never mutate state; timeouts are scheduled transitions, not errors.
var (
	ErrAlreadyQueued   = errors.New("player already queued or in a match")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrMatchNotFound   = errors.New("match not found")
	ErrRoomFull        = errors.New("both seats already filled")
	ErrNotInMatch      = errors.New("player is not part of this match")
	ErrNotActive       = errors.New("match is not active")
	ErrWrongQuestion   = errors.New("answer is not for the current question")
	ErrAlreadyAnswered = errors.New("already answered this question")
	ErrSessionClosed   = errors.New("session is shut down")
)

// ErrorCode maps an engine error to the wire error code clients switch on.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyQueued):
		return "already_queued"
	case errors.Is(err, ErrPlayerNotFound):
		return "player_not_found"
	case errors.Is(err, ErrMatchNotFound):
		return "match_not_found"
	case errors.Is(err, ErrRoomFull):
		return "room_full"
	case errors.Is(err, ErrNotInMatch):
		return "not_in_match"
	case errors.Is(err, ErrNotActive):
		return "not_active"
	case errors.Is(err, ErrWrongQuestion):
		return "wrong_question"
	case errors.Is(err, ErrAlreadyAnswered):
		return "already_answered"
	case errors.Is(err, ErrSessionClosed):
		return "session_closed"
	default:
		return "internal"
	}
}
