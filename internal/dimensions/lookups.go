package dimensions

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

// Querier is the read surface used to rebuild lookups from persisted
// dimension tables. *pgxpool.Pool satisfies it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Resolver maps natural keys to the surrogate keys currently persisted in the
// warehouse. It is rebuilt from the database before every fact load, so facts
// can run against dimensions populated by an earlier run.
type Resolver struct {
	Dates   map[string]int
	Players map[string]int
	Teams   map[string]int
	Venues  map[VenueKey]int
	Umpires map[string]int
}

// LoadResolver reads the dimension tables back into lookup maps. A missing
// umpire dimension degrades to an empty map; every other read error is fatal.
func LoadResolver(ctx context.Context, q Querier, schema string, log *logrus.Logger) (*Resolver, error) {
	log.Info("creating dimension lookups")

	r := &Resolver{
		Dates:   map[string]int{},
		Players: map[string]int{},
		Teams:   map[string]int{},
		Venues:  map[VenueKey]int{},
		Umpires: map[string]int{},
	}

	err := scanRows(ctx, q,
		fmt.Sprintf("SELECT date_id, full_date FROM %s.dim_date", schema),
		func(rows pgx.Rows) error {
			var id int
			var d time.Time
			if err := rows.Scan(&id, &d); err != nil {
				return err
			}
			r.Dates[DayKey(d)] = id
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("read dim_date: %w", err)
	}

	if err := scanNameMap(ctx, q, fmt.Sprintf("SELECT player_id, player_name FROM %s.dim_player", schema), r.Players); err != nil {
		return nil, fmt.Errorf("read dim_player: %w", err)
	}
	if err := scanNameMap(ctx, q, fmt.Sprintf("SELECT team_id, team_name FROM %s.dim_team", schema), r.Teams); err != nil {
		return nil, fmt.Errorf("read dim_team: %w", err)
	}

	err = scanRows(ctx, q,
		fmt.Sprintf("SELECT venue_id, venue_name, city FROM %s.dim_venue", schema),
		func(rows pgx.Rows) error {
			var id int
			var venue string
			var city *string
			if err := rows.Scan(&id, &venue, &city); err != nil {
				return err
			}
			vk := VenueKey{Venue: venue}
			if city != nil {
				vk.City = *city
			}
			r.Venues[vk] = id
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("read dim_venue: %w", err)
	}

	if err := scanNameMap(ctx, q, fmt.Sprintf("SELECT umpire_id, umpire_name FROM %s.dim_umpire", schema), r.Umpires); err != nil {
		log.WithError(err).Warn("dim_umpire not readable, umpire references will not resolve")
		r.Umpires = map[string]int{}
	}

	log.WithFields(logrus.Fields{
		"dates":   len(r.Dates),
		"players": len(r.Players),
		"teams":   len(r.Teams),
		"venues":  len(r.Venues),
		"umpires": len(r.Umpires),
	}).Info("dimension lookups ready")

	return r, nil
}

func scanNameMap(ctx context.Context, q Querier, sql string, dst map[string]int) error {
	return scanRows(ctx, q, sql, func(rows pgx.Rows) error {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		dst[name] = id
		return nil
	})
}

func scanRows(ctx context.Context, q Querier, sql string, each func(pgx.Rows) error) error {
	rows, err := q.Query(ctx, sql)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := each(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
