package dimensions

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"ipldw/internal/dataset"
	"ipldw/internal/warehouse"
)

// DimensionTables lists the dimension tables in load order.
var DimensionTables = []string{
	"dim_date", "dim_player", "dim_team", "dim_venue",
	"dim_event", "dim_umpire", "dim_match",
}

// Store is the warehouse surface the builder needs. *warehouse.DB satisfies
// it; tests substitute fakes.
type Store interface {
	TruncateTolerant(ctx context.Context, tables ...string) []warehouse.Outcome
	InsertBatches(ctx context.Context, table string, columns []string, rows [][]any, batchSize int) (int64, error)
}

// Builder performs the full-refresh dimension load: tolerant truncate of all
// seven tables, then batched inserts with explicit surrogate keys.
type Builder struct {
	Store     Store
	Log       *logrus.Logger
	BatchSize int
}

// Build truncates and reloads every dimension and returns the allocated key
// maps. Events and umpires are skipped, with a warning, when their source
// column is absent; all other dimensions always load.
func (b *Builder) Build(ctx context.Context, ds *dataset.Dataset) (*Keys, error) {
	b.Log.Info("loading dimension tables")

	outcomes := b.Store.TruncateTolerant(ctx, DimensionTables...)
	if failed := warehouse.Failed(outcomes); len(failed) > 0 {
		b.Log.WithField("failed", len(failed)).Warn("some dimension truncates did not succeed")
	}

	keys := AllocateKeys(ds)

	loads := []struct {
		name string
		fn   func(context.Context, *dataset.Dataset, *Keys) error
	}{
		{"dim_date", b.loadDates},
		{"dim_player", b.loadPlayers},
		{"dim_team", b.loadTeams},
		{"dim_venue", b.loadVenues},
		{"dim_event", b.loadEvents},
		{"dim_umpire", b.loadUmpires},
		{"dim_match", b.loadMatches},
	}
	for _, l := range loads {
		if err := l.fn(ctx, ds, keys); err != nil {
			return nil, fmt.Errorf("load %s: %w", l.name, err)
		}
	}

	b.Log.Info("all dimensions loaded")
	return keys, nil
}

var dateColumns = []string{
	"date_id", "full_date", "day", "month", "year", "season",
	"day_of_week", "day_name", "week_of_year", "month_name",
	"quarter", "is_weekend", "is_holiday",
}

func (b *Builder) loadDates(ctx context.Context, ds *dataset.Dataset, _ *Keys) error {
	seen := map[int]struct{}{}
	var rows [][]any
	for i := range ds.Rows {
		r := &ds.Rows[i]
		id := DateID(r.Date)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, []any{
			id, r.Date, r.Day, r.Month, r.Year, nullStr(r.Season),
			r.DayOfWeek, r.DayOfWeek, r.WeekOfYear, r.Date.Month().String(),
			r.Quarter, r.IsWeekend, false,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i][0].(int) < rows[j][0].(int) })
	_, err := b.Store.InsertBatches(ctx, "dim_date", dateColumns, rows, b.BatchSize)
	return err
}

var playerColumns = []string{
	"player_id", "player_name", "player_role", "nationality",
	"batting_style", "bowling_style", "is_active", "debut_year",
}

func (b *Builder) loadPlayers(ctx context.Context, _ *dataset.Dataset, keys *Keys) error {
	rows := make([][]any, 0, len(keys.Players))
	for _, name := range sortedByID(keys.Players) {
		rows = append(rows, []any{
			keys.Players[name], name, nil, "India", nil, nil, true, nil,
		})
	}
	_, err := b.Store.InsertBatches(ctx, "dim_player", playerColumns, rows, b.BatchSize)
	return err
}

var teamColumns = []string{
	"team_id", "team_name", "team_short_name", "home_city", "team_color",
	"franchise_owner", "established_year", "is_active", "championships_won",
}

func (b *Builder) loadTeams(ctx context.Context, _ *dataset.Dataset, keys *Keys) error {
	rows := make([][]any, 0, len(keys.Teams))
	for _, name := range sortedByID(keys.Teams) {
		rows = append(rows, []any{
			keys.Teams[name], name, shortName(name), nil, nil, nil, nil, true, 0,
		})
	}
	_, err := b.Store.InsertBatches(ctx, "dim_team", teamColumns, rows, b.BatchSize)
	return err
}

var venueColumns = []string{
	"venue_id", "venue_name", "city", "state", "country", "capacity",
	"established_year", "pitch_type", "typical_score",
}

func (b *Builder) loadVenues(ctx context.Context, _ *dataset.Dataset, keys *Keys) error {
	vks := make([]VenueKey, 0, len(keys.Venues))
	for vk := range keys.Venues {
		vks = append(vks, vk)
	}
	sort.Slice(vks, func(i, j int) bool { return keys.Venues[vks[i]] < keys.Venues[vks[j]] })

	rows := make([][]any, 0, len(vks))
	for _, vk := range vks {
		rows = append(rows, []any{
			keys.Venues[vk], vk.Venue, nullStr(vk.City), nil, "India", nil, nil, nil, nil,
		})
	}
	_, err := b.Store.InsertBatches(ctx, "dim_venue", venueColumns, rows, b.BatchSize)
	return err
}

var eventColumns = []string{
	"event_id", "event_name", "event_year", "event_type",
	"total_matches", "start_date", "end_date",
}

func (b *Builder) loadEvents(ctx context.Context, ds *dataset.Dataset, keys *Keys) error {
	if !ds.Has(dataset.ColEventName) {
		b.Log.Warn("event_name column not found, skipping dim_event")
		return nil
	}
	eks := make([]EventKey, 0, len(keys.Events))
	for ek := range keys.Events {
		eks = append(eks, ek)
	}
	sort.Slice(eks, func(i, j int) bool { return keys.Events[eks[i]] < keys.Events[eks[j]] })

	rows := make([][]any, 0, len(eks))
	for _, ek := range eks {
		rows = append(rows, []any{
			keys.Events[ek], ek.Name, ek.Year, "League", nil, nil, nil,
		})
	}
	_, err := b.Store.InsertBatches(ctx, "dim_event", eventColumns, rows, b.BatchSize)
	return err
}

var umpireColumns = []string{
	"umpire_id", "umpire_name", "nationality", "experience_years",
	"is_elite_panel", "total_matches",
}

func (b *Builder) loadUmpires(ctx context.Context, ds *dataset.Dataset, keys *Keys) error {
	if !ds.Has(dataset.ColUmpire) {
		b.Log.Warn("umpire column not found, skipping dim_umpire")
		return nil
	}
	rows := make([][]any, 0, len(keys.Umpires))
	for _, name := range sortedByID(keys.Umpires) {
		rows = append(rows, []any{
			keys.Umpires[name], name, nil, nil, false, 0,
		})
	}
	_, err := b.Store.InsertBatches(ctx, "dim_umpire", umpireColumns, rows, b.BatchSize)
	return err
}

var matchColumns = []string{
	"match_id", "match_type", "balls_per_over", "gender", "team_type",
	"match_number", "event_stage",
}

func (b *Builder) loadMatches(ctx context.Context, ds *dataset.Dataset, _ *Keys) error {
	hasStage := ds.Has(dataset.ColStage)

	type matchRow struct {
		id  int
		row []any
	}
	seen := map[int]struct{}{}
	var matches []matchRow
	for i := range ds.Rows {
		r := &ds.Rows[i]
		if _, ok := seen[r.MatchID]; ok {
			continue
		}
		seen[r.MatchID] = struct{}{}

		var stage any
		if hasStage {
			stage = nullStr(r.Stage)
		}
		matches = append(matches, matchRow{
			id: r.MatchID,
			row: []any{
				r.MatchID, nullStr(r.MatchType), r.BallsPerOver,
				capitalize(r.Gender), nullStr(r.TeamType),
				matchNumber(r.MatchNumber), stage,
			},
		})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].id < matches[j].id })

	rows := make([][]any, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, m.row)
	}
	_, err := b.Store.InsertBatches(ctx, "dim_match", matchColumns, rows, b.BatchSize)
	return err
}

// sortedByID returns the map's keys ordered by their surrogate key.
func sortedByID(m map[string]int) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return m[names[i]] < m[names[j]] })
	return names
}

// shortName derives the three-letter team code used when no official
// abbreviation is known.
func shortName(team string) string {
	r := []rune(team)
	if len(r) > 3 {
		r = r[:3]
	}
	return strings.ToUpper(string(r))
}

// capitalize upper-cases the first rune and lower-cases the rest, matching
// how genders arrive ("male" becomes "Male").
func capitalize(s string) any {
	if s == "" {
		return nil
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// matchNumber parses the match number attribute. "Unknown" and anything
// non-numeric store as NULL.
func matchNumber(s string) any {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "unknown") {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return n
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
