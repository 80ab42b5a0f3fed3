package game

import "math"

// Scoring holds the point and field-position rules for a match. All
// methods are pure; the session applies the returned values under its
// own lock-free single-writer loop.
type Scoring struct {
	BasePoints    int
	MaxSpeedBonus int
	PushScale     int
	FieldLimit    int
}

func NewScoring(t Tuning) Scoring {
	return Scoring{
		BasePoints:    t.BasePoints,
		MaxSpeedBonus: t.MaxSpeedBonus,
		PushScale:     t.PushScale,
		FieldLimit:    t.FieldLimit,
	}
}

// Points returns the points earned for an answer. Wrong answers earn
// nothing; correct answers earn the base plus a speed bonus that decays
// linearly from the full bonus (instant answer) to zero (at the limit).
func (s Scoring) Points(isCorrect bool, responseTimeMs, timeLimitMs int) int {
	if !isCorrect {
		return 0
	}
	if timeLimitMs <= 0 {
		return s.BasePoints
	}
	speedFactor := 1 - float64(responseTimeMs)/float64(timeLimitMs)
	if speedFactor < 0 {
		speedFactor = 0
	}
	if speedFactor > 1 {
		speedFactor = 1
	}
	return s.BasePoints + int(math.Round(float64(s.MaxSpeedBonus)*speedFactor))
}

// FieldPush converts points into a signed field-position delta. Seat 1
// pushes toward the positive goal, seat 2 toward the negative goal.
func (s Scoring) FieldPush(points, seat int) int {
	push := int(math.Round(float64(points) / float64(s.PushScale)))
	if seat == 2 {
		return -push
	}
	return push
}

// ApplyPush moves the field and reports a goal when a limit is reached.
// goalBy is 0 for no goal, otherwise the scoring seat. The position
// resets to center on a goal, so a single push can never score twice
// however large the overshoot.
func (s Scoring) ApplyPush(position, push int) (newPosition, goalBy int) {
	p := position + push
	if p >= s.FieldLimit {
		return 0, 1
	}
	if p <= -s.FieldLimit {
		return 0, 2
	}
	return p, 0
}
