package protocol

import "encoding/json"

// Envelope is the single frame shape on the wire: a type tag and a raw
// payload decoded lazily by the receiver.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"`
}

// Client -> server message types.
const (
	MsgFindMatch         = "find_match"
	MsgCancelMatchmaking = "cancel_matchmaking"
	MsgJoinGame          = "join_game"
	MsgSetReady          = "set_ready"
	MsgSubmitAnswer      = "submit_answer"
	MsgLeaveGame         = "leave_game"
	MsgReconnect         = "reconnect"
	MsgPing              = "ping"
)

// Server -> client event types.
const (
	EvtMatchFound           = "match_found"
	EvtQueueStatus          = "queue_status"
	EvtNoMatch              = "no_match"
	EvtPlayerJoined         = "player_joined"
	EvtPlayerLeft           = "player_left"
	EvtPlayerReady          = "player_ready"
	EvtBothReady            = "both_ready"
	EvtCountdown            = "countdown"
	EvtGameStart            = "game_start"
	EvtGameState            = "game_state"
	EvtQuestionStart        = "question_start"
	EvtOpponentAnswered     = "opponent_answered"
	EvtAnswerResult         = "answer_result"
	EvtScoreUpdate          = "score_update"
	EvtGoalScored           = "goal_scored"
	EvtTimeUpdate           = "time_update"
	EvtTimeWarning          = "time_warning"
	EvtGameEnd              = "game_end"
	EvtOpponentDisconnected = "opponent_disconnected"
	EvtOpponentReconnected  = "opponent_reconnected"
	EvtGameAbandoned        = "game_abandoned"
	EvtError                = "error"
	EvtPong                 = "pong"
)

// Match statuses as they appear in snapshots.
const (
	StatusWaiting   = "waiting"
	StatusReady     = "ready"
	StatusCountdown = "countdown"
	StatusActive    = "active"
	StatusFinished  = "finished"
	StatusAbandoned = "abandoned"
)

// PlayerRef is the immutable player snapshot taken at join time.
// Trophies and league are display/pairing data, never mutated mid-match.
type PlayerRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
	Trophies    int    `json:"trophies"`
	League      string `json:"league"`
	Grade       int    `json:"grade"`
}
