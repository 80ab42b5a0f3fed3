package game

import (
	"os"
	"strconv"
	"time"
)

// Tuning collects every gameplay constant in one place. Values come from
// the live balance of the original arena; each can be overridden with a
// QD_* environment variable so deployments can retune without a rebuild.
type Tuning struct {
	// Match flow
	MatchDurationSec      int
	CountdownFrom         int
	QuestionsPerMatch     int
	DefaultQuestionTimeMs int

	// Scoring / field
	BasePoints    int
	MaxSpeedBonus int
	PushScale     int
	FieldLimit    int

	// Matchmaking
	BaseRadius         int
	RadiusGrowthPerSec int
	MaxRadius          int
	MatcherTick        time.Duration
	MaxWaitSec         int

	// Rating
	KBase       int
	KMid        int
	KTop        int
	MidTrophies int
	TopTrophies int
	MinTrophies int

	// Lifecycle
	ReconnectWindow    time.Duration
	SessionLinger      time.Duration
	AbandonedWaiting   time.Duration
	StartingTrophies   int
}

// GradeTimeLimitsMs maps school grade to per-question time limit.
// Younger players get more time.
var GradeTimeLimitsMs = map[int]int{
	1: 15000,
	2: 12000,
	3: 10000,
	4: 8000,
	5: 6000,
	6: 5000,
}

// QuestionTimeMs returns the per-question time limit for a grade,
// falling back to the default when the grade is unknown.
func (t Tuning) QuestionTimeMs(grade int) int {
	if ms, ok := GradeTimeLimitsMs[grade]; ok {
		return ms
	}
	return t.DefaultQuestionTimeMs
}

func DefaultTuning() Tuning {
	return Tuning{
		MatchDurationSec:      60,
		CountdownFrom:         3,
		QuestionsPerMatch:     15,
		DefaultQuestionTimeMs: 10000,

		BasePoints:    100,
		MaxSpeedBonus: 50,
		PushScale:     10,
		FieldLimit:    50,

		BaseRadius:         100,
		RadiusGrowthPerSec: 50,
		MaxRadius:          1000,
		MatcherTick:        500 * time.Millisecond,
		MaxWaitSec:         60,

		KBase:       32,
		KMid:        24,
		KTop:        16,
		MidTrophies: 2000,
		TopTrophies: 2500,
		MinTrophies: 0,

		ReconnectWindow:  30 * time.Second,
		SessionLinger:    60 * time.Second,
		AbandonedWaiting: 5 * time.Minute,
		StartingTrophies: 100,
	}
}

// TuningFromEnv returns the default tuning with any QD_* overrides applied.
func TuningFromEnv() Tuning {
	t := DefaultTuning()
	envInt("QD_MATCH_DURATION_SEC", &t.MatchDurationSec)
	envInt("QD_COUNTDOWN_FROM", &t.CountdownFrom)
	envInt("QD_QUESTIONS_PER_MATCH", &t.QuestionsPerMatch)
	envInt("QD_QUESTION_TIME_MS", &t.DefaultQuestionTimeMs)
	envInt("QD_BASE_POINTS", &t.BasePoints)
	envInt("QD_MAX_SPEED_BONUS", &t.MaxSpeedBonus)
	envInt("QD_PUSH_SCALE", &t.PushScale)
	envInt("QD_FIELD_LIMIT", &t.FieldLimit)
	envInt("QD_BASE_RADIUS", &t.BaseRadius)
	envInt("QD_RADIUS_GROWTH_PER_SEC", &t.RadiusGrowthPerSec)
	envInt("QD_MAX_RADIUS", &t.MaxRadius)
	envInt("QD_MAX_WAIT_SEC", &t.MaxWaitSec)
	envInt("QD_K_BASE", &t.KBase)
	envInt("QD_K_MID", &t.KMid)
	envInt("QD_K_TOP", &t.KTop)
	envInt("QD_MID_TROPHIES", &t.MidTrophies)
	envInt("QD_TOP_TROPHIES", &t.TopTrophies)
	envInt("QD_STARTING_TROPHIES", &t.StartingTrophies)
	envDurationSec("QD_RECONNECT_WINDOW_SEC", &t.ReconnectWindow)
	envDurationSec("QD_SESSION_LINGER_SEC", &t.SessionLinger)
	envDurationSec("QD_ABANDONED_WAITING_SEC", &t.AbandonedWaiting)
	return t
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envDurationSec(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = time.Duration(n) * time.Second
		}
	}
}
