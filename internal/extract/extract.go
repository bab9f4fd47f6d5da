// Package extract reads the ball-by-ball CSV export into a dataset.Dataset.
//
// Decoding is deliberately lenient for everything except structure: a missing
// required column is fatal, but an unparseable numeric cell decodes to 0 and
// an unparseable flag to false, with per-column null counts surfaced as a
// warning. The transform chain downstream relies on column presence, so the
// extractor records the full header on the Dataset.
package extract

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"ipldw/internal/dataset"
)

// RequiredColumns must all be present in the header for extraction to
// proceed.
var RequiredColumns = []string{
	dataset.ColMatchID, dataset.ColDate, dataset.ColInnings,
	dataset.ColBatter, dataset.ColBowler,
	dataset.ColBattingTeam, dataset.ColBowlingTeam,
	dataset.ColRunsTotal, dataset.ColVenue,
}

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// dateFormats are tried in order when parsing the event date.
var dateFormats = []string{"2006-01-02", "2006/01/02", "02-01-2006"}

// Extractor reads one CSV file.
type Extractor struct {
	Path string
	Log  *logrus.Logger
}

// Extract reads the file and returns the decoded dataset.
func (e *Extractor) Extract() (*dataset.Dataset, error) {
	e.Log.WithField("path", e.Path).Info("extracting data")

	f, err := os.Open(e.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	ds, err := e.decode(bufio.NewReaderSize(f, 256*1024))
	if err != nil {
		return nil, err
	}

	e.Log.WithFields(logrus.Fields{
		"rows":    ds.Len(),
		"columns": len(ds.Columns()),
	}).Info("extraction complete")
	return ds, nil
}

func (e *Extractor) decode(r io.Reader) (*dataset.Dataset, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	idx := make(map[string]int, len(header))
	columns := make([]string, 0, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		idx[name] = i
		columns = append(columns, name)
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	ds := dataset.New(columns)
	nulls := map[string]int{}
	line := 1

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		ds.Rows = append(ds.Rows, decodeRow(rec, idx, nulls))
	}

	if len(nulls) > 0 {
		cols := make([]string, 0, len(nulls))
		for c := range nulls {
			cols = append(cols, c)
		}
		sort.Strings(cols)
		for _, c := range cols {
			e.Log.WithFields(logrus.Fields{
				"column": c,
				"nulls":  nulls[c],
			}).Warn("null values in required column")
		}
	}

	return ds, nil
}

// decodeRow decodes one record. cell returns "" for columns the header does
// not carry, which downstream code treats as an absent value.
func decodeRow(rec []string, idx map[string]int, nulls map[string]int) dataset.Row {
	cell := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	required := func(col string) string {
		v := cell(col)
		if v == "" {
			nulls[col]++
		}
		return v
	}

	return dataset.Row{
		MatchID: atoi(required(dataset.ColMatchID)),
		Date:    parseDate(required(dataset.ColDate)),
		Season:  cell(dataset.ColSeason),
		Innings: atoi(required(dataset.ColInnings)),
		Over:    atoi(cell(dataset.ColOver)),
		Ball:    atoi(cell(dataset.ColBall)),

		Batter:     required(dataset.ColBatter),
		Bowler:     required(dataset.ColBowler),
		NonStriker: cell(dataset.ColNonStriker),
		PlayerOut:  cell(dataset.ColPlayerOut),
		NextBatter: cell(dataset.ColNextBatter),
		Umpire:     cell(dataset.ColUmpire),

		BattingTeam:   required(dataset.ColBattingTeam),
		BowlingTeam:   required(dataset.ColBowlingTeam),
		TossWinner:    cell(dataset.ColTossWinner),
		MatchWonBy:    cell(dataset.ColMatchWonBy),
		PlayerOfMatch: cell(dataset.ColPlayerOfMatch),

		Venue: required(dataset.ColVenue),
		City:  cell(dataset.ColCity),

		EventName:    cell(dataset.ColEventName),
		MatchType:    cell(dataset.ColMatchType),
		Gender:       cell(dataset.ColGender),
		TeamType:     cell(dataset.ColTeamType),
		Stage:        cell(dataset.ColStage),
		MatchNumber:  cell(dataset.ColMatchNumber),
		BallsPerOver: atoi(cell(dataset.ColBallsPerOver)),

		RunsBatter: atoi(cell(dataset.ColRunsBatter)),
		RunsExtras: atoi(cell(dataset.ColRunsExtras)),
		RunsTotal:  atoi(required(dataset.ColRunsTotal)),
		RunsBowler: atoi(cell(dataset.ColRunsBowler)),
		RunsTarget: atoi(cell(dataset.ColRunsTarget)),

		BatPosition:        atoi(cell(dataset.ColBatPosition)),
		NonStrikerPosition: atoi(cell(dataset.ColNonStrikerPos)),
		BallsFaced:         atoi(cell(dataset.ColBallsFaced)),
		BatterRuns:         atoi(cell(dataset.ColBatterRuns)),
		BatterBalls:        atoi(cell(dataset.ColBatterBalls)),
		BowlerWickets:      atoi(cell(dataset.ColBowlerWickets)),

		TeamRuns:    atoi(cell(dataset.ColTeamRuns)),
		TeamBalls:   atoi(cell(dataset.ColTeamBalls)),
		TeamWickets: atoi(cell(dataset.ColTeamWickets)),

		ExtraType:       cell(dataset.ColExtraType),
		WicketKind:      cell(dataset.ColWicketKind),
		Fielders:        cell(dataset.ColFielders),
		BattingPartners: cell(dataset.ColBattingPartners),

		ValidBall:  parseBool(cell(dataset.ColValidBall), true),
		NewBatter:  parseBool(cell(dataset.ColNewBatter), false),
		StrikerOut: parseBool(cell(dataset.ColStrikerOut), false),
	}
}

// atoi decodes leniently: an empty or unparseable cell is 0. Floats that
// happen to be whole ("4.0") still decode.
func atoi(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// parseBool decodes a boolean cell; an empty cell yields the empty default.
// A delivery is legal unless marked otherwise, so valid_ball defaults true
// while the other flag columns default false.
func parseBool(s string, empty bool) bool {
	if s == "" {
		return empty
	}
	switch strings.ToLower(s) {
	case "true", "t", "1", "yes":
		return true
	}
	return false
}

func parseDate(s string) time.Time {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
