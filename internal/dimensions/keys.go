// Package dimensions builds the seven dimension tables of the warehouse from
// the transformed event log and resolves natural keys back to surrogate keys
// for the fact load.
//
// Surrogate keys are allocated here, not by the database: each dimension's
// distinct natural keys are sorted and numbered from 1, so the same input
// always produces the same keys. Dates use the YYYYMMDD integer form of the
// calendar date as their key.
package dimensions

import (
	"sort"
	"time"

	"ipldw/internal/dataset"
)

// VenueKey is the composite natural key of a venue. The same ground name can
// appear in more than one city, so city participates in identity.
type VenueKey struct {
	Venue string
	City  string
}

// EventKey is the composite natural key of a tournament event.
type EventKey struct {
	Name string
	Year int
}

// Keys holds the allocated natural-key to surrogate-key maps for one build.
type Keys struct {
	Players map[string]int
	Teams   map[string]int
	Venues  map[VenueKey]int
	Events  map[EventKey]int
	Umpires map[string]int
}

// DateID returns the YYYYMMDD integer key for a calendar date.
func DateID(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// DayKey normalizes a timestamp to its calendar-date string, the form used to
// key date lookups.
func DayKey(t time.Time) string { return t.Format("2006-01-02") }

// AllocateKeys scans the dataset and assigns surrogate keys for every
// dimension with generated keys. Empty natural keys are never allocated.
// Events and umpires are only allocated when their source column is present.
func AllocateKeys(ds *dataset.Dataset) *Keys {
	players := map[string]struct{}{}
	teams := map[string]struct{}{}
	venues := map[VenueKey]struct{}{}
	events := map[EventKey]struct{}{}
	umpires := map[string]struct{}{}

	hasEvents := ds.Has(dataset.ColEventName)
	hasUmpires := ds.Has(dataset.ColUmpire)

	for i := range ds.Rows {
		r := &ds.Rows[i]
		for _, name := range []string{r.Batter, r.Bowler, r.NonStriker, r.PlayerOut, r.NextBatter, r.PlayerOfMatch} {
			if name != "" {
				players[name] = struct{}{}
			}
		}
		for _, name := range []string{r.BattingTeam, r.BowlingTeam, r.TossWinner, r.MatchWonBy} {
			if name != "" {
				teams[name] = struct{}{}
			}
		}
		if r.Venue != "" {
			venues[VenueKey{Venue: r.Venue, City: r.City}] = struct{}{}
		}
		if hasEvents && r.EventName != "" {
			events[EventKey{Name: r.EventName, Year: r.Year}] = struct{}{}
		}
		if hasUmpires && r.Umpire != "" {
			umpires[r.Umpire] = struct{}{}
		}
	}

	return &Keys{
		Players: numberStrings(players),
		Teams:   numberStrings(teams),
		Venues:  numberVenues(venues),
		Events:  numberEvents(events),
		Umpires: numberStrings(umpires),
	}
}

func numberStrings(set map[string]struct{}) map[string]int {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make(map[string]int, len(names))
	for i, n := range names {
		out[n] = i + 1
	}
	return out
}

func numberVenues(set map[VenueKey]struct{}) map[VenueKey]int {
	keys := make([]VenueKey, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Venue != keys[j].Venue {
			return keys[i].Venue < keys[j].Venue
		}
		return keys[i].City < keys[j].City
	})
	out := make(map[VenueKey]int, len(keys))
	for i, k := range keys {
		out[k] = i + 1
	}
	return out
}

func numberEvents(set map[EventKey]struct{}) map[EventKey]int {
	keys := make([]EventKey, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		return keys[i].Year < keys[j].Year
	})
	out := make(map[EventKey]int, len(keys))
	for i, k := range keys {
		out[k] = i + 1
	}
	return out
}
