package protocol

// Requests coming in from the client.

type FindMatch struct {
	Player   PlayerRef `json:"player"`
	Language string    `json:"language,omitempty"`
}

type CancelMatchmaking struct {
	PlayerID string `json:"playerId"`
}

type JoinGame struct {
	MatchID string    `json:"matchId"`
	Player  PlayerRef `json:"player"`
}

type SetReady struct {
	MatchID string `json:"matchId"`
}

type SubmitAnswer struct {
	MatchID       string `json:"matchId"`
	QuestionIndex int    `json:"questionIndex"`
	AnswerIndex   int    `json:"answerIndex"`
	ElapsedMs     int    `json:"elapsedMs"`
}

type LeaveGame struct {
	MatchID string `json:"matchId"`
}

type Reconnect struct {
	MatchID  string `json:"matchId"`
	PlayerID string `json:"playerId"`
}

type Ping struct {
	Timestamp int64 `json:"timestamp,omitempty"`
}
