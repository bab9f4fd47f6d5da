package warehouse

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// MartNames lists the analytical materialized views refreshed after a load.
// The views themselves are defined by the warehouse DDL, not by this program;
// they are addressed by name only.
var MartNames = []string{
	"mart_death_over_specialists",
	"mart_powerplay_performers",
	"mart_pressure_performance",
	"mart_partnership_analysis",
	"mart_venue_analytics",
	"mart_player_stats",
}

// RefreshMarts refreshes every mart independently: one failure is recorded
// and the remaining marts still run. The per-mart outcomes are returned.
func (db *DB) RefreshMarts(ctx context.Context) []Outcome {
	return refreshEach(ctx, db.Pool, db.Log, db.Schema, MartNames)
}

func refreshEach(ctx context.Context, ex Execer, log *logrus.Logger, schema string, marts []string) []Outcome {
	outcomes := make([]Outcome, 0, len(marts))
	for _, mart := range marts {
		op := "refresh " + mart
		stmt := fmt.Sprintf("REFRESH MATERIALIZED VIEW %s.%s", pgIdent(schema), pgIdent(mart))
		_, err := ex.Exec(ctx, stmt)
		if err != nil {
			log.WithField("mart", mart).WithError(err).Error("mart refresh failed")
		} else {
			log.WithField("mart", mart).Info("mart refreshed")
		}
		outcomes = append(outcomes, Outcome{Op: op, Err: err})
	}
	return outcomes
}
