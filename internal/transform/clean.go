package transform

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"ipldw/internal/dataset"
)

// Clean normalizes the free-text columns: surrounding whitespace is trimmed
// and the text is put into Unicode NFC form so that composed and decomposed
// spellings of the same name produce the same natural key. Missing extras
// types default to "none" and missing wicket descriptors to "not out".
//
// The event date is untouched; numeric columns were already decoded leniently
// (unparseable -> 0) at extraction time.
type Clean struct{}

func (Clean) Name() string { return "clean" }

func (Clean) Apply(ds *dataset.Dataset) error {
	for i := range ds.Rows {
		r := &ds.Rows[i]

		for _, p := range []*string{
			&r.Season, &r.Batter, &r.Bowler, &r.NonStriker, &r.PlayerOut,
			&r.NextBatter, &r.Umpire, &r.BattingTeam, &r.BowlingTeam,
			&r.TossWinner, &r.MatchWonBy, &r.PlayerOfMatch, &r.Venue, &r.City,
			&r.EventName, &r.MatchType, &r.Gender, &r.TeamType, &r.Stage,
			&r.MatchNumber, &r.ExtraType, &r.WicketKind, &r.Fielders,
			&r.BattingPartners,
		} {
			*p = cleanText(*p)
		}

		if r.ExtraType == "" {
			r.ExtraType = "none"
		}
		if r.WicketKind == "" {
			r.WicketKind = "not out"
		}
	}
	return nil
}

func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
