package facts

import (
	"ipldw/internal/dataset"
	"ipldw/internal/dimensions"
)

var deliveryColumns = []string{
	"match_id", "date_id", "batter_id", "bowler_id", "non_striker_id",
	"batting_team_id", "bowling_team_id", "venue_id", "umpire_id",
	"innings", "over_number", "ball_number", "ball_sequence",
	"bat_position", "non_striker_position", "match_phase",
	"runs_scored", "runs_extras", "runs_total", "runs_bowler",
	"balls_faced", "runs_target", "runs_required", "balls_remaining",
	"team_runs", "team_balls", "team_wickets",
	"batter_runs", "batter_balls", "bowler_wickets",
	"current_run_rate", "required_run_rate", "pressure_index",
	"is_valid_ball", "is_wicket", "is_boundary", "is_six", "is_four",
	"is_dot_ball", "is_new_batter", "is_striker_out",
	"extra_type", "wicket_kind", "player_out_id", "fielders",
	"batting_partners", "next_batter_id",
}

// buildDeliveries materializes the per-delivery fact rows in dataset order.
func (l *Loader) buildDeliveries(ds *dataset.Dataset, rows []*dataset.Row, report *UnresolvedReport) [][]any {
	res := l.Resolver
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, []any{
			r.MatchID,
			resolveDate(report, "fact_ball_delivery.date_id", res.Dates, dimensions.DayKey(r.Date)),
			resolveName(report, "fact_ball_delivery.batter_id", res.Players, r.Batter),
			resolveName(report, "fact_ball_delivery.bowler_id", res.Players, r.Bowler),
			resolveName(report, "fact_ball_delivery.non_striker_id", res.Players, r.NonStriker),
			resolveName(report, "fact_ball_delivery.batting_team_id", res.Teams, r.BattingTeam),
			resolveName(report, "fact_ball_delivery.bowling_team_id", res.Teams, r.BowlingTeam),
			resolveVenue(report, "fact_ball_delivery.venue_id", res.Venues, dimensions.VenueKey{Venue: r.Venue, City: r.City}),
			resolveName(report, "fact_ball_delivery.umpire_id", res.Umpires, r.Umpire),
			r.Innings, r.Over, r.Ball, r.BallSequence,
			r.BatPosition, r.NonStrikerPosition, r.MatchPhase,
			r.RunsBatter, r.RunsExtras, r.RunsTotal, r.RunsBowler,
			r.BallsFaced, r.RunsTarget, r.RunsRequired, r.BallsRemaining,
			r.TeamRuns, r.TeamBalls, r.TeamWickets,
			r.BatterRuns, r.BatterBalls, r.BowlerWickets,
			r.CurrentRunRate, r.RequiredRunRate, r.PressureIndex,
			r.IsValidBall, r.IsWicket, r.IsBoundary, r.IsSix, r.IsFour,
			r.IsDotBall, r.IsNewBatter, r.IsStrikerOut,
			r.ExtraType, r.WicketKind,
			resolveName(report, "fact_ball_delivery.player_out_id", res.Players, r.PlayerOut),
			nullable(r.Fielders), nullable(r.BattingPartners),
			resolveName(report, "fact_ball_delivery.next_batter_id", res.Players, r.NextBatter),
		})
	}
	return out
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
