package game

import (
	"math"
	"testing"
)

func TestExpected(t *testing.T) {
	r := NewRating(DefaultTuning())

	tests := []struct {
		name     string
		a, b     int
		expected float64
	}{
		{"equal ratings", 1200, 1200, 0.5},
		{"400 points ahead", 1600, 1200, 10.0 / 11.0},
		{"400 points behind", 1200, 1600, 1.0 / 11.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Expected(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected(%d, %d) = %f, want %f", tt.a, tt.b, got, tt.expected)
			}
		})
	}

	// Expectations of the two sides always sum to 1.
	if e := r.Expected(1340, 1180) + r.Expected(1180, 1340); math.Abs(e-1) > 1e-9 {
		t.Errorf("expectations sum to %f, want 1", e)
	}
}

func TestKFor(t *testing.T) {
	r := NewRating(DefaultTuning())

	tests := []struct {
		trophies int
		want     int
	}{
		{0, 32},
		{1999, 32},
		{2000, 24},
		{2499, 24},
		{2500, 16},
		{4000, 16},
	}

	for _, tt := range tests {
		if got := r.KFor(tt.trophies); got != tt.want {
			t.Errorf("KFor(%d) = %d, want %d", tt.trophies, got, tt.want)
		}
	}
}

func TestOutcomeDecisive(t *testing.T) {
	r := NewRating(DefaultTuning())

	d1, d2 := r.Outcome("p1", 1200, "p2", 1220, ResultPlayer1Win)

	if d1.Delta <= 0 {
		t.Errorf("winner delta = %d, want > 0", d1.Delta)
	}
	if d2.Delta >= 0 {
		t.Errorf("loser delta = %d, want < 0", d2.Delta)
	}
	// Same K bracket: transfer is zero-sum up to rounding.
	if sum := d1.Delta + d2.Delta; sum < -1 || sum > 1 {
		t.Errorf("delta sum = %d, want within rounding of 0", sum)
	}
	if d1.NewTotal != 1200+d1.Delta {
		t.Errorf("new total = %d, want %d", d1.NewTotal, 1200+d1.Delta)
	}
}

func TestOutcomeDraw(t *testing.T) {
	r := NewRating(DefaultTuning())

	// Equal ratings: a draw moves nobody.
	d1, d2 := r.Outcome("p1", 1500, "p2", 1500, ResultDraw)
	if d1.Delta != 0 || d2.Delta != 0 {
		t.Errorf("equal-rating draw deltas = %d, %d, want 0, 0", d1.Delta, d2.Delta)
	}

	// Unequal ratings: a draw nudges toward the underdog.
	d1, d2 = r.Outcome("p1", 1600, "p2", 1200, ResultDraw)
	if d1.Delta >= 0 {
		t.Errorf("favorite draw delta = %d, want < 0", d1.Delta)
	}
	if d2.Delta <= 0 {
		t.Errorf("underdog draw delta = %d, want > 0", d2.Delta)
	}
}

func TestOutcomeFloorsAtMinimum(t *testing.T) {
	r := NewRating(DefaultTuning())

	_, d2 := r.Outcome("p1", 400, "p2", 5, ResultPlayer1Win)
	if d2.NewTotal < 0 {
		t.Errorf("new total = %d, want >= 0", d2.NewTotal)
	}
	if d2.NewTotal != d2.Previous+d2.Delta {
		t.Errorf("floored delta inconsistent: %d + %d != %d", d2.Previous, d2.Delta, d2.NewTotal)
	}
}

func TestLeagueFor(t *testing.T) {
	tests := []struct {
		trophies int
		want     string
	}{
		{0, "bronze"},
		{500, "bronze"},
		{501, "silver"},
		{1200, "gold"},
		{1800, "platinum"},
		{2400, "diamond"},
		{2900, "champion"},
		{3001, "legend"},
	}

	for _, tt := range tests {
		if got := LeagueFor(tt.trophies); got != tt.want {
			t.Errorf("LeagueFor(%d) = %q, want %q", tt.trophies, got, tt.want)
		}
	}
}

func TestPromotionDemotionFlags(t *testing.T) {
	r := NewRating(DefaultTuning())

	// 498 + win crosses into silver.
	d1, d2 := r.Outcome("p1", 498, "p2", 510, ResultPlayer1Win)
	if !d1.Promoted {
		t.Errorf("expected promotion crossing 500, got %+v", d1)
	}
	if d2.NewLeague == d2.OldLeague && d2.Demoted {
		t.Errorf("demotion flag set without league change: %+v", d2)
	}
}
