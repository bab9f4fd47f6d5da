// Package dataset defines the in-memory representation of the ball-by-ball
// event log that flows through the pipeline: one Row per delivery, plus a
// record of which source columns were actually present in the input file.
//
// Column presence matters independently of cell values: optional dimensions
// (events, umpires) are skipped entirely when their column is absent, and
// several boolean flags default differently depending on whether the column
// exists at all. The extractor records presence once, from the header.
package dataset

import (
	"sort"
	"time"
)

// Canonical source column names. These mirror the headers of the ball-by-ball
// export and are the names used for presence checks throughout the pipeline.
const (
	ColMatchID          = "match_id"
	ColDate             = "date"
	ColSeason           = "season"
	ColInnings          = "innings"
	ColOver             = "over"
	ColBall             = "ball"
	ColBatter           = "batter"
	ColBowler           = "bowler"
	ColNonStriker       = "non_striker"
	ColPlayerOut        = "player_out"
	ColNextBatter       = "next_batter"
	ColUmpire           = "umpire"
	ColBattingTeam      = "batting_team"
	ColBowlingTeam      = "bowling_team"
	ColTossWinner       = "toss_winner"
	ColMatchWonBy       = "match_won_by"
	ColPlayerOfMatch    = "player_of_match"
	ColVenue            = "venue"
	ColCity             = "city"
	ColEventName        = "event_name"
	ColMatchType        = "match_type"
	ColGender           = "gender"
	ColTeamType         = "team_type"
	ColStage            = "stage"
	ColMatchNumber      = "match_number"
	ColBallsPerOver     = "balls_per_over"
	ColRunsBatter       = "runs_batter"
	ColRunsExtras       = "runs_extras"
	ColRunsTotal        = "runs_total"
	ColRunsBowler       = "runs_bowler"
	ColRunsTarget       = "runs_target"
	ColBatPosition      = "bat_pos"
	ColNonStrikerPos    = "non_striker_pos"
	ColBallsFaced       = "balls_faced"
	ColBatterRuns       = "batter_runs"
	ColBatterBalls      = "batter_balls"
	ColBowlerWickets    = "bowler_wicket"
	ColTeamRuns         = "team_runs"
	ColTeamBalls        = "team_balls"
	ColTeamWickets      = "team_wicket"
	ColExtraType        = "extra_type"
	ColWicketKind       = "wicket_kind"
	ColFielders         = "fielders"
	ColBattingPartners  = "batting_partners"
	ColValidBall        = "valid_ball"
	ColNewBatter        = "new_batter"
	ColStrikerOut       = "striker_out"
)

// Row is one delivery of the event log. Source fields are populated by the
// extractor; the fields after the "Derived" marker are filled in by the
// transform chain and are zero until then.
//
// String fields use "" for an absent value. Numeric fields are decoded
// leniently at extraction time: unparseable or empty cells become 0.
type Row struct {
	MatchID int
	Date    time.Time
	Season  string
	Innings int
	Over    int
	Ball    int

	Batter     string
	Bowler     string
	NonStriker string
	PlayerOut  string
	NextBatter string
	Umpire     string

	BattingTeam   string
	BowlingTeam   string
	TossWinner    string
	MatchWonBy    string
	PlayerOfMatch string

	Venue string
	City  string

	EventName    string
	MatchType    string
	Gender       string
	TeamType     string
	Stage        string
	MatchNumber  string
	BallsPerOver int

	RunsBatter int
	RunsExtras int
	RunsTotal  int
	RunsBowler int
	RunsTarget int

	BatPosition        int
	NonStrikerPosition int
	BallsFaced         int
	BatterRuns         int
	BatterBalls        int
	BowlerWickets      int

	TeamRuns    int
	TeamBalls   int
	TeamWickets int

	ExtraType       string
	WicketKind      string
	Fielders        string
	BattingPartners string

	ValidBall  bool
	NewBatter  bool
	StrikerOut bool

	// Derived: filled by the transform chain.

	BallNo       float64
	BallSequence int

	Day        int
	Month      int
	Year       int
	DayOfWeek  string
	WeekOfYear int
	Quarter    int
	IsWeekend  bool

	BallsRemaining  int
	RunsRequired    int
	CurrentRunRate  float64
	RequiredRunRate float64
	PressureIndex   float64

	MatchPhase string

	IsWicket     bool
	IsBoundary   bool
	IsSix        bool
	IsFour       bool
	IsDotBall    bool
	IsNewBatter  bool
	IsStrikerOut bool
	IsValidBall  bool
}

// Dataset is the full event log plus the set of columns the source carried.
type Dataset struct {
	Rows []Row

	cols map[string]struct{}
}

// New returns a Dataset that reports the given source columns as present.
func New(columns []string) *Dataset {
	cols := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		cols[c] = struct{}{}
	}
	return &Dataset{cols: cols}
}

// Has reports whether the source input carried the named column.
func (d *Dataset) Has(col string) bool {
	_, ok := d.cols[col]
	return ok
}

// Columns returns the present source columns in sorted order.
func (d *Dataset) Columns() []string {
	out := make([]string, 0, len(d.cols))
	for c := range d.cols {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Rows) }
