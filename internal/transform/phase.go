package transform

import "ipldw/internal/dataset"

// Match phase labels. Fixed 20-over bands, not configurable.
const (
	PhasePowerplay = "Powerplay"
	PhaseMiddle    = "Middle"
	PhaseDeath     = "Death"
)

// Phases classifies each delivery's over index into one of three fixed
// bands: overs 0-6 are the powerplay, 7-15 the middle overs, 16 onward the
// death overs. The classification is total over the integer over index.
type Phases struct{}

func (Phases) Name() string { return "phases" }

func (Phases) Apply(ds *dataset.Dataset) error {
	for i := range ds.Rows {
		ds.Rows[i].MatchPhase = PhaseOf(ds.Rows[i].Over)
	}
	return nil
}

// PhaseOf returns the phase label for an over index.
func PhaseOf(over int) string {
	switch {
	case over <= 6:
		return PhasePowerplay
	case over <= 15:
		return PhaseMiddle
	default:
		return PhaseDeath
	}
}
