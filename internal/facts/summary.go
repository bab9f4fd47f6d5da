package facts

import (
	"sort"

	"ipldw/internal/dataset"
	"ipldw/internal/dimensions"
)

var inningsColumns = []string{
	"match_id", "innings_number", "batting_team_id", "bowling_team_id",
	"date_id", "venue_id", "total_runs", "total_wickets", "total_overs",
	"total_balls",
}

// buildInningsSummaries aggregates the delivery rows to innings grain. Date
// and venue come from the match's first row, not the innings'.
func (l *Loader) buildInningsSummaries(rows []*dataset.Row, report *UnresolvedReport) [][]any {
	type groupKey struct {
		match    int
		innings  int
		batting  string
		bowling  string
	}
	type groupAgg struct {
		runs    int
		wickets int
		balls   int
	}

	aggs := map[groupKey]*groupAgg{}
	firstRow := map[int]*dataset.Row{}
	var order []groupKey

	for _, r := range rows {
		if _, ok := firstRow[r.MatchID]; !ok {
			firstRow[r.MatchID] = r
		}
		k := groupKey{r.MatchID, r.Innings, r.BattingTeam, r.BowlingTeam}
		a, ok := aggs[k]
		if !ok {
			a = &groupAgg{}
			aggs[k] = a
			order = append(order, k)
		}
		a.runs += r.RunsTotal
		a.balls++
		if r.IsWicket {
			a.wickets++
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].match != order[j].match {
			return order[i].match < order[j].match
		}
		return order[i].innings < order[j].innings
	})

	res := l.Resolver
	out := make([][]any, 0, len(order))
	for _, k := range order {
		a := aggs[k]
		first := firstRow[k.match]
		out = append(out, []any{
			k.match, k.innings,
			resolveName(report, "fact_innings_summary.batting_team_id", res.Teams, k.batting),
			resolveName(report, "fact_innings_summary.bowling_team_id", res.Teams, k.bowling),
			resolveDate(report, "fact_innings_summary.date_id", res.Dates, dimensions.DayKey(first.Date)),
			resolveVenue(report, "fact_innings_summary.venue_id", res.Venues, dimensions.VenueKey{Venue: first.Venue, City: first.City}),
			a.runs, a.wickets, float64(a.balls) / 6.0, a.balls,
		})
	}
	return out
}

var matchColumns = []string{
	"match_id", "date_id", "venue_id", "team1_id", "team2_id",
	"toss_winner_id", "match_winner_id", "player_of_match_id",
	"team1_score", "team1_wickets", "team1_overs",
	"team2_score", "team2_wickets", "team2_overs",
}

// buildMatchSummaries materializes one row per match: attributes from the
// first chronological delivery, per-innings totals from the maximum running
// cumulative columns (which peak at the innings' last delivery).
func (l *Loader) buildMatchSummaries(rows []*dataset.Row, report *UnresolvedReport) [][]any {
	type inningsMax struct {
		seen    bool
		runs    int
		wickets int
		balls   int
	}
	type matchAgg struct {
		first   *dataset.Row
		innings [2]inningsMax
	}

	aggs := map[int]*matchAgg{}
	var order []int

	for _, r := range rows {
		a, ok := aggs[r.MatchID]
		if !ok {
			a = &matchAgg{first: r}
			aggs[r.MatchID] = a
			order = append(order, r.MatchID)
		}
		m := &a.innings[r.Innings-1]
		m.seen = true
		if r.TeamRuns > m.runs {
			m.runs = r.TeamRuns
		}
		if r.TeamWickets > m.wickets {
			m.wickets = r.TeamWickets
		}
		if r.TeamBalls > m.balls {
			m.balls = r.TeamBalls
		}
	}
	sort.Ints(order)

	res := l.Resolver
	out := make([][]any, 0, len(order))
	for _, matchID := range order {
		a := aggs[matchID]
		first := a.first

		row := []any{
			matchID,
			resolveDate(report, "fact_match_summary.date_id", res.Dates, dimensions.DayKey(first.Date)),
			resolveVenue(report, "fact_match_summary.venue_id", res.Venues, dimensions.VenueKey{Venue: first.Venue, City: first.City}),
			resolveName(report, "fact_match_summary.team1_id", res.Teams, first.BattingTeam),
			resolveName(report, "fact_match_summary.team2_id", res.Teams, first.BowlingTeam),
			resolveName(report, "fact_match_summary.toss_winner_id", res.Teams, first.TossWinner),
			resolveName(report, "fact_match_summary.match_winner_id", res.Teams, first.MatchWonBy),
			resolveName(report, "fact_match_summary.player_of_match_id", res.Players, first.PlayerOfMatch),
		}
		for _, m := range a.innings {
			if m.seen {
				row = append(row, m.runs, m.wickets, float64(m.balls)/6.0)
			} else {
				row = append(row, nil, nil, nil)
			}
		}
		out = append(out, row)
	}
	return out
}
