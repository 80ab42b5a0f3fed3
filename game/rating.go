package game

import "math"

// Result is the outcome of a match from player 1's perspective.
type Result int

const (
	ResultDraw Result = iota
	ResultPlayer1Win
	ResultPlayer2Win
)

// TrophyDelta describes one player's rating movement from a match.
type TrophyDelta struct {
	PlayerID  string `json:"playerId"`
	Previous  int    `json:"previousTrophies"`
	Delta     int    `json:"change"`
	NewTotal  int    `json:"newTrophies"`
	OldLeague string `json:"previousLeague"`
	NewLeague string `json:"newLeague"`
	Promoted  bool   `json:"promoted"`
	Demoted   bool   `json:"demoted"`
}

// Rating implements the Elo-style trophy model. Pure functions only;
// persistence of the computed deltas belongs to the caller.
type Rating struct {
	KBase       int
	KMid        int
	KTop        int
	MidTrophies int
	TopTrophies int
	MinTrophies int
}

func NewRating(t Tuning) Rating {
	return Rating{
		KBase:       t.KBase,
		KMid:        t.KMid,
		KTop:        t.KTop,
		MidTrophies: t.MidTrophies,
		TopTrophies: t.TopTrophies,
		MinTrophies: t.MinTrophies,
	}
}

// Expected returns the logistic expected score for a rated a against b.
func (r Rating) Expected(a, b int) float64 {
	return 1 / (1 + math.Pow(10, float64(b-a)/400))
}

// KFor steps the K-factor down for highly rated players to damp
// volatility at the top of the ladder.
func (r Rating) KFor(trophies int) int {
	switch {
	case trophies >= r.TopTrophies:
		return r.KTop
	case trophies >= r.MidTrophies:
		return r.KMid
	default:
		return r.KBase
	}
}

// Delta computes the rating change for one player. actual is 1 for a
// win, 0.5 for a draw, 0 for a loss.
func (r Rating) Delta(rating int, expected, actual float64) int {
	return int(math.Round(float64(r.KFor(rating)) * (actual - expected)))
}

// Outcome applies the model symmetrically to both participants using
// their pre-match trophies.
func (r Rating) Outcome(id1 string, trophies1 int, id2 string, trophies2 int, result Result) (TrophyDelta, TrophyDelta) {
	var actual1 float64
	switch result {
	case ResultPlayer1Win:
		actual1 = 1
	case ResultDraw:
		actual1 = 0.5
	case ResultPlayer2Win:
		actual1 = 0
	}
	d1 := r.Delta(trophies1, r.Expected(trophies1, trophies2), actual1)
	d2 := r.Delta(trophies2, r.Expected(trophies2, trophies1), 1-actual1)
	return r.change(id1, trophies1, d1), r.change(id2, trophies2, d2)
}

func (r Rating) change(id string, previous, delta int) TrophyDelta {
	total := previous + delta
	if total < r.MinTrophies {
		total = r.MinTrophies
		delta = total - previous
	}
	oldLeague := LeagueFor(previous)
	newLeague := LeagueFor(total)
	return TrophyDelta{
		PlayerID:  id,
		Previous:  previous,
		Delta:     delta,
		NewTotal:  total,
		OldLeague: oldLeague,
		NewLeague: newLeague,
		Promoted:  newLeague != oldLeague && total > previous,
		Demoted:   newLeague != oldLeague && total < previous,
	}
}

// League thresholds, lowest tier first.
var leagueTiers = []struct {
	name string
	max  int
}{
	{"bronze", 500},
	{"silver", 1000},
	{"gold", 1500},
	{"platinum", 2000},
	{"diamond", 2500},
	{"champion", 3000},
}

// LeagueFor maps a trophy count to its display league.
func LeagueFor(trophies int) string {
	for _, tier := range leagueTiers {
		if trophies <= tier.max {
			return tier.name
		}
	}
	return "legend"
}
