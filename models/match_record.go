package models

// MatchRecord captures the outcome of one duel: the data needed to
// explain the trophy movement plus the full answer history for audit.
// Nothing beyond this is kept about a finished match.
type MatchRecord struct {
	ID        string  `gorm:"primaryKey;type:uuid" json:"id"`
	Player1ID string  `gorm:"index;not null" json:"player1_id"`
	Player2ID string  `gorm:"index;not null" json:"player2_id"`
	WinnerID  *string `gorm:"index" json:"winner_id,omitempty"` // nil = draw or abandoned
	IsDraw    bool    `gorm:"default:false" json:"is_draw"`
	Status    string  `gorm:"type:varchar(16);check:status IN ('finished','abandoned')" json:"status"`

	Goals1   int `json:"goals1"`
	Goals2   int `json:"goals2"`
	Score1   int `json:"score1"`
	Score2   int `json:"score2"`
	Correct1 int `json:"correct1"`
	Correct2 int `json:"correct2"`

	TrophyDelta1 int `json:"trophy_delta1"`
	TrophyDelta2 int `json:"trophy_delta2"`

	DurationSec int    `json:"duration_sec" gorm:"default:0"`
	AnswersJSON string `json:"answers_json"`

	Timestamps
}
