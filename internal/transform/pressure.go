package transform

import "ipldw/internal/dataset"

// pressureCap bounds the index; the 10/(balls+1) term and a large required
// rate can otherwise blow up at the end of a tight chase.
const pressureCap = 999.99

// Pressure computes a heuristic chase-pressure scalar for second-innings
// deliveries: required run rate weighted 10x, an urgency term that grows as
// balls run out, and five points per wicket already lost. It is a heuristic,
// not a calibrated metric; treat relative comparisons as meaningful, absolute
// values as arbitrary. First-innings rows and rows with no balls remaining
// score 0.
//
// Runs after GameState, which provides the required run rate and balls
// remaining.
type Pressure struct{}

func (Pressure) Name() string { return "pressure" }

func (Pressure) Apply(ds *dataset.Dataset) error {
	for i := range ds.Rows {
		r := &ds.Rows[i]
		if r.Innings != 2 || r.BallsRemaining <= 0 {
			r.PressureIndex = 0
			continue
		}
		p := r.RequiredRunRate*10 +
			10.0/float64(r.BallsRemaining+1) +
			float64(r.TeamWickets)*5
		if p > pressureCap {
			p = pressureCap
		}
		r.PressureIndex = p
	}
	return nil
}
