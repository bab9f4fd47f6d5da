package extract

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"ipldw/internal/dataset"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

const sampleCSV = `match_id,date,season,innings,over,ball,batter,bowler,non_striker,batting_team,bowling_team,venue,city,runs_batter,runs_extras,runs_total,team_runs,team_balls,team_wicket,valid_ball
1,2008-04-18,2007/08,1,0,1,BB McCullum,Z Khan, SC Ganguly ,Kolkata Knight Riders,Delhi Daredevils,Feroz Shah Kotla,Delhi,0,1,1,1,0,0,False
1,2008-04-18,2007/08,1,0,2,BB McCullum,Z Khan,SC Ganguly,Kolkata Knight Riders,Delhi Daredevils,Feroz Shah Kotla,Delhi,4,0,4.0,5,1,0,True
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deliveries.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// TestExtract_DecodesRows verifies typed decoding, whitespace trimming, and
// column presence tracking.
func TestExtract_DecodesRows(t *testing.T) {
	t.Parallel()

	e := &Extractor{Path: writeCSV(t, sampleCSV), Log: testLogger()}
	ds, err := e.Extract()
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("rows = %d, want 2", ds.Len())
	}

	r := ds.Rows[0]
	if r.MatchID != 1 || r.Innings != 1 || r.Over != 0 || r.Ball != 1 {
		t.Fatalf("row 0 indices = %+v", r)
	}
	want := time.Date(2008, time.April, 18, 0, 0, 0, 0, time.UTC)
	if !r.Date.Equal(want) {
		t.Fatalf("date = %v, want %v", r.Date, want)
	}
	if r.NonStriker != "SC Ganguly" {
		t.Fatalf("non-striker = %q, want trimmed value", r.NonStriker)
	}
	if r.ValidBall {
		t.Fatalf("row 0 valid_ball = true, want false")
	}
	if !ds.Rows[1].ValidBall {
		t.Fatalf("row 1 valid_ball = false, want true")
	}
	// "4.0" decodes as a whole float.
	if ds.Rows[1].RunsTotal != 4 {
		t.Fatalf("runs_total = %d, want 4", ds.Rows[1].RunsTotal)
	}

	if !ds.Has(dataset.ColValidBall) {
		t.Fatalf("valid_ball column not recorded as present")
	}
	if ds.Has(dataset.ColUmpire) {
		t.Fatalf("umpire column recorded as present but absent from header")
	}
}

// TestExtract_EmptyValidBallCell verifies that when the valid_ball column
// exists, an empty cell still decodes to a legal delivery. Only an explicit
// false marks the ball illegal.
func TestExtract_EmptyValidBallCell(t *testing.T) {
	t.Parallel()

	csv := `match_id,date,innings,over,ball,batter,bowler,batting_team,bowling_team,venue,runs_total,valid_ball
1,2008-04-18,1,0,1,BB McCullum,Z Khan,KKR,DD,Eden Gardens,0,
1,2008-04-18,1,0,2,BB McCullum,Z Khan,KKR,DD,Eden Gardens,1,false
`
	e := &Extractor{Path: writeCSV(t, csv), Log: testLogger()}
	ds, err := e.Extract()
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if !ds.Rows[0].ValidBall {
		t.Fatalf("empty valid_ball cell decoded as false, want true")
	}
	if ds.Rows[1].ValidBall {
		t.Fatalf("valid_ball = true for explicit false cell")
	}
}

// TestExtract_MissingRequiredColumns verifies structural validation is fatal
// and names the missing columns.
func TestExtract_MissingRequiredColumns(t *testing.T) {
	t.Parallel()

	csv := "match_id,date,innings,batter,bowler,batting_team,runs_total\n1,2008-04-18,1,a,b,KKR,0\n"
	e := &Extractor{Path: writeCSV(t, csv), Log: testLogger()}
	_, err := e.Extract()
	if err == nil {
		t.Fatalf("expected error for missing columns")
	}
	for _, col := range []string{"bowling_team", "venue"} {
		if !strings.Contains(err.Error(), col) {
			t.Fatalf("err = %v, want %s named", err, col)
		}
	}
}

// TestExtract_FileNotFound verifies a missing input path fails cleanly.
func TestExtract_FileNotFound(t *testing.T) {
	t.Parallel()

	e := &Extractor{Path: filepath.Join(t.TempDir(), "nope.csv"), Log: testLogger()}
	if _, err := e.Extract(); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

// TestAtoi covers the lenient numeric decode.
func TestAtoi(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int
	}{
		{"", 0}, {"7", 7}, {"4.0", 4}, {"n/a", 0}, {"-2", -2},
	}
	for _, c := range cases {
		if got := atoi(c.in); got != c.want {
			t.Fatalf("atoi(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}
