package models

// QuestionRow is one question in the bank. Answer data stays server-side;
// the protocol layer strips it before anything reaches a client.
type QuestionRow struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Subject     string `gorm:"index:idx_question_selector;not null" json:"subject"`
	Language    string `gorm:"index:idx_question_selector;type:varchar(8);not null" json:"language"`
	Grade       int    `gorm:"index:idx_question_selector;not null" json:"grade"`
	Text        string `gorm:"not null" json:"text"`
	AnswersJSON string `gorm:"not null" json:"answers_json"`

	CorrectIndex int `gorm:"not null" json:"-"`
	Difficulty   int `gorm:"default:2" json:"difficulty"`
	TimeLimitMs  int `gorm:"default:0" json:"time_limit_ms"` // 0 = use per-grade default

	Timestamps
}
