package transform

import "ipldw/internal/dataset"

// Run rates are capped so tiny denominators (one ball bowled, one ball
// remaining) cannot produce unbounded values.
const runRateCap = 99.99

// inningsBalls is the full second-innings allotment in the 20-over format.
const inningsBalls = 120

// GameState derives the second-innings chase context: balls remaining, runs
// required, and the current/required run rates. First-innings rows get zeroes
// for the chase fields; the current run rate is defined for both innings.
type GameState struct{}

func (GameState) Name() string { return "gamestate" }

func (GameState) Apply(ds *dataset.Dataset) error {
	for i := range ds.Rows {
		r := &ds.Rows[i]

		if r.Innings == 2 {
			r.BallsRemaining = inningsBalls - r.TeamBalls
			r.RunsRequired = r.RunsTarget - r.TeamRuns
		} else {
			r.BallsRemaining = 0
			r.RunsRequired = 0
		}

		if r.TeamBalls > 0 {
			r.CurrentRunRate = capRate(float64(r.TeamRuns) * 6.0 / float64(r.TeamBalls))
		} else {
			r.CurrentRunRate = 0
		}

		if r.Innings == 2 && r.BallsRemaining > 0 {
			r.RequiredRunRate = capRate(float64(r.RunsRequired) * 6.0 / float64(r.BallsRemaining))
		} else {
			r.RequiredRunRate = 0
		}
	}
	return nil
}

func capRate(v float64) float64 {
	if v > runRateCap {
		return runRateCap
	}
	return v
}
