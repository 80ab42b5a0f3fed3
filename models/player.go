package models

import (
	"time"

	"gorm.io/gorm"
)

// Player is the persistent identity and trophy record. Sessions only
// ever see an immutable snapshot of it; this row is the thing the
// end-of-match trophy update mutates.
type Player struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	DisplayName string `gorm:"not null" json:"display_name"`
	Trophies    int    `gorm:"default:0;index" json:"trophies"`
	League      string `gorm:"type:varchar(16);default:'bronze'" json:"league"`
	Grade       int    `gorm:"default:3" json:"grade"`
	Language    string `gorm:"type:varchar(8);default:'de'" json:"language"`

	// Ladder counters
	WinStreak int   `gorm:"default:0" json:"win_streak"`
	Wins      int64 `gorm:"default:0" json:"wins"`
	Losses    int64 `gorm:"default:0" json:"losses"`
	Draws     int64 `gorm:"default:0" json:"draws"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
