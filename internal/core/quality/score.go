// Package quality holds the pure heuristics that turn repository signals into
// a score, a complexity tier and a list of insights.
package quality

import (
	"time"
)

const (
	baseScore = 50
	minScore  = 0
	maxScore  = 100
)

// Signals are the raw repository attributes the heuristics read.
type Signals struct {
	Stars        int
	Forks        int
	OpenIssues   int
	BugCount     int
	Contributors int
	LastCommitAt time.Time
}

// band awards points when a value crosses limit. Bands are checked in order
// and the first hit wins.
type band struct {
	limit  int
	points int
}

var (
	starBands        = []band{{1000, 20}, {500, 15}, {100, 10}, {10, 5}}
	forkBands        = []band{{100, 10}, {50, 7}, {10, 5}, {0, 2}}
	contributorBands = []band{{10, 10}, {5, 7}, {2, 5}, {0, 2}}
	issuePenalties   = []band{{50, -20}, {20, -15}, {10, -10}, {5, -5}}
	bugPenalties     = []band{{10, -30}, {5, -20}, {2, -10}, {0, -5}}

	// recency bands are upper limits on days since the last commit.
	recencyBands = []band{{7, 10}, {30, 7}, {90, 5}, {365, 2}}
)

func above(value int, bands []band) int {
	for _, b := range bands {
		if value > b.limit {
			return b.points
		}
	}
	return 0
}

func below(value int, bands []band) int {
	for _, b := range bands {
		if value < b.limit {
			return b.points
		}
	}
	return 0
}

// DaysSince returns whole days elapsed between t and now. ok is false when t
// is unknown (zero). Commits dated in the future count as zero days.
func DaysSince(t, now time.Time) (days int, ok bool) {
	if t.IsZero() {
		return 0, false
	}
	elapsed := now.Sub(t)
	if elapsed < 0 {
		return 0, true
	}
	return int(elapsed / (24 * time.Hour)), true
}

// Score computes the 0..100 quality score.
func Score(s Signals, now time.Time) int {
	score := baseScore
	score += above(s.Stars, starBands)
	score += above(s.Forks, forkBands)
	score += above(s.Contributors, contributorBands)
	if days, ok := DaysSince(s.LastCommitAt, now); ok {
		score += below(days, recencyBands)
	}
	score += above(s.OpenIssues, issuePenalties)
	score += above(s.BugCount, bugPenalties)

	return clamp(score, minScore, maxScore)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
