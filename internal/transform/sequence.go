package transform

import (
	"sort"

	"ipldw/internal/dataset"
)

// Sequence establishes the authoritative delivery order: it computes a
// fractional sort key from (over, ball), sorts the dataset by
// (match, innings, key), and assigns a dense 1..N counter per
// (match, innings) group. The fact grain and the duplicate-key gate both
// depend on this ordering.
type Sequence struct{}

func (Sequence) Name() string { return "sequence" }

func (Sequence) Apply(ds *dataset.Dataset) error {
	var missing []string
	if !ds.Has(dataset.ColOver) {
		missing = append(missing, dataset.ColOver)
	}
	if !ds.Has(dataset.ColBall) {
		missing = append(missing, dataset.ColBall)
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}

	rows := ds.Rows
	for i := range rows {
		// over 4 ball 3 -> 4.3; strict intra-over ordering for balls 1..9.
		rows[i].BallNo = float64(rows[i].Over) + float64(rows[i].Ball)/10.0
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := &rows[i], &rows[j]
		if a.MatchID != b.MatchID {
			return a.MatchID < b.MatchID
		}
		if a.Innings != b.Innings {
			return a.Innings < b.Innings
		}
		return a.BallNo < b.BallNo
	})

	seq := 0
	for i := range rows {
		if i == 0 || rows[i].MatchID != rows[i-1].MatchID || rows[i].Innings != rows[i-1].Innings {
			seq = 0
		}
		seq++
		rows[i].BallSequence = seq
	}
	return nil
}
