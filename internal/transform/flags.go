package transform

import "ipldw/internal/dataset"

// Flags derives the boolean delivery markers. The flags are independent of
// one another: a boundary off the bat with a run-out on the same ball sets
// both is_boundary and is_wicket.
//
// Must run before Clean: the wicket flag keys off the raw wicket descriptor
// being present, and Clean later rewrites empty descriptors to "not out".
type Flags struct{}

func (Flags) Name() string { return "flags" }

func (Flags) Apply(ds *dataset.Dataset) error {
	hasNewBatter := ds.Has(dataset.ColNewBatter)
	hasStrikerOut := ds.Has(dataset.ColStrikerOut)
	hasValidBall := ds.Has(dataset.ColValidBall)

	for i := range ds.Rows {
		r := &ds.Rows[i]

		r.IsWicket = r.WicketKind != ""
		r.IsSix = r.RunsBatter == 6
		r.IsFour = r.RunsBatter == 4
		r.IsBoundary = r.IsSix || r.IsFour

		valid := true
		if hasValidBall {
			valid = r.ValidBall
		}
		r.IsValidBall = valid
		r.IsDotBall = r.RunsTotal == 0 && valid

		r.IsNewBatter = hasNewBatter && r.NewBatter
		r.IsStrikerOut = hasStrikerOut && r.StrikerOut
	}
	return nil
}
