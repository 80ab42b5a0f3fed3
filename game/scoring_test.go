package game

import "testing"

func TestPoints(t *testing.T) {
	s := Scoring{BasePoints: 10, MaxSpeedBonus: 10, PushScale: 10, FieldLimit: 50}

	tests := []struct {
		name           string
		isCorrect      bool
		responseTimeMs int
		timeLimitMs    int
		expected       int
	}{
		{
			name:           "incorrect earns nothing",
			isCorrect:      false,
			responseTimeMs: 100,
			timeLimitMs:    10000,
			expected:       0,
		},
		{
			name:           "instant answer earns full bonus",
			isCorrect:      true,
			responseTimeMs: 0,
			timeLimitMs:    10000,
			expected:       20,
		},
		{
			name:           "answer at the limit earns no bonus",
			isCorrect:      true,
			responseTimeMs: 10000,
			timeLimitMs:    10000,
			expected:       10,
		},
		{
			name:           "fast answer on slow question",
			isCorrect:      true,
			responseTimeMs: 2000,
			timeLimitMs:    15000,
			expected:       19, // speedFactor 0.867 -> bonus 9
		},
		{
			name:           "late answer clamps at zero bonus",
			isCorrect:      true,
			responseTimeMs: 12000,
			timeLimitMs:    10000,
			expected:       10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Points(tt.isCorrect, tt.responseTimeMs, tt.timeLimitMs)
			if got != tt.expected {
				t.Errorf("Points() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestFieldPushSign(t *testing.T) {
	s := NewScoring(DefaultTuning())

	if push := s.FieldPush(120, 1); push != 12 {
		t.Errorf("seat 1 push = %d, want 12", push)
	}
	if push := s.FieldPush(120, 2); push != -12 {
		t.Errorf("seat 2 push = %d, want -12", push)
	}
	if push := s.FieldPush(0, 1); push != 0 {
		t.Errorf("zero points push = %d, want 0", push)
	}
}

func TestApplyPush(t *testing.T) {
	s := Scoring{BasePoints: 100, MaxSpeedBonus: 50, PushScale: 10, FieldLimit: 50}

	tests := []struct {
		name         string
		position     int
		push         int
		wantPosition int
		wantGoalBy   int
	}{
		{"center push stays on field", 0, 12, 12, 0},
		{"near limit clamps to goal and resets", 48, 5, 0, 1},
		{"exact limit is a goal", 40, 10, 0, 1},
		{"negative limit is opponent goal", -45, -8, 0, 2},
		{"large overshoot still one goal", 49, 100, 0, 1},
		{"push back toward center", 30, -7, 23, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, goalBy := s.ApplyPush(tt.position, tt.push)
			if pos != tt.wantPosition || goalBy != tt.wantGoalBy {
				t.Errorf("ApplyPush(%d, %d) = (%d, %d), want (%d, %d)",
					tt.position, tt.push, pos, goalBy, tt.wantPosition, tt.wantGoalBy)
			}
		})
	}
}

func TestFieldNeverLeavesBounds(t *testing.T) {
	s := Scoring{BasePoints: 100, MaxSpeedBonus: 50, PushScale: 10, FieldLimit: 50}

	pos := 0
	pushes := []int{15, 15, -40, -40, -40, 100, -100, 7, 7, 7, 7, 7, 7, 7, 7}
	for i, push := range pushes {
		newPos, goalBy := s.ApplyPush(pos, push)
		if newPos > s.FieldLimit || newPos < -s.FieldLimit {
			t.Fatalf("step %d: position %d out of bounds", i, newPos)
		}
		if goalBy != 0 && newPos != 0 {
			t.Fatalf("step %d: goal scored but position %d not reset", i, newPos)
		}
		pos = newPos
	}
}
