package repo

import (
	"context"
	"database/sql"

	"github.com/radieske/odds-warehouse-poc/internal/odds-query/dto"
)

type ReadRepo struct {
	DB *sql.DB
}

func (r *ReadRepo) ListEvents(ctx context.Context) ([]dto.Event, error) {
	const q = `
		SELECT event_id, sport_key, sport_title, commence_time_utc, home_team, away_team
		FROM events
		ORDER BY commence_time_utc NULLS LAST, event_id;
	`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dto.Event
	for rows.Next() {
		var e dto.Event
		var title, home, away sql.NullString
		var commence sql.NullTime
		if err := rows.Scan(&e.EventID, &e.SportKey, &title, &commence, &home, &away); err != nil {
			return nil, err
		}
		e.SportTitle = title.String
		e.HomeTeam = home.String
		e.AwayTeam = away.String
		if commence.Valid {
			t := commence.Time
			e.CommenceTime = &t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *ReadRepo) ListBookmakers(ctx context.Context) ([]dto.Bookmaker, error) {
	const q = `
		SELECT bookmaker_key, bookmaker_title
		FROM bookmakers
		ORDER BY bookmaker_key;
	`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dto.Bookmaker
	for rows.Next() {
		var b dto.Bookmaker
		var title sql.NullString
		if err := rows.Scan(&b.BookmakerKey, &title); err != nil {
			return nil, err
		}
		b.BookmakerTitle = title.String
		out = append(out, b)
	}
	return out, rows.Err()
}

// LatestByEvent lê a view latest_odds: um snapshot por tupla
// (bookmaker, market, outcome), o de maior (market_last_update, ingest_ts_utc)
func (r *ReadRepo) LatestByEvent(ctx context.Context, eventID string) ([]dto.LatestOdd, error) {
	const q = `
		SELECT event_id, bookmaker_key, market_key, outcome_name, is_home_team,
		       price_american, line_point, market_last_update, ingest_ts_utc
		FROM latest_odds
		WHERE event_id = $1
		ORDER BY bookmaker_key, market_key, outcome_name;
	`
	rows, err := r.DB.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dto.LatestOdd
	for rows.Next() {
		var o dto.LatestOdd
		var isHome sql.NullBool
		var point sql.NullFloat64
		var lastUpdate sql.NullTime
		if err := rows.Scan(&o.EventID, &o.BookmakerKey, &o.MarketKey, &o.OutcomeName,
			&isHome, &o.PriceAmerican, &point, &lastUpdate, &o.IngestTs); err != nil {
			return nil, err
		}
		if isHome.Valid {
			v := isHome.Bool
			o.IsHomeTeam = &v
		}
		if point.Valid {
			v := point.Float64
			o.LinePoint = &v
		}
		if lastUpdate.Valid {
			t := lastUpdate.Time
			o.MarketLastUpdate = &t
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// History lê a série temporal completa de uma tupla, em ordem cronológica
func (r *ReadRepo) History(ctx context.Context, eventID, bookmakerKey, marketKey, outcomeName string) ([]dto.HistoryPoint, error) {
	const q = `
		SELECT price_american, line_point, market_last_update, ingest_ts_utc
		FROM odds_snapshots
		WHERE event_id = $1 AND bookmaker_key = $2 AND market_key = $3 AND outcome_name = $4
		ORDER BY market_last_update NULLS FIRST, ingest_ts_utc;
	`
	rows, err := r.DB.QueryContext(ctx, q, eventID, bookmakerKey, marketKey, outcomeName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dto.HistoryPoint
	for rows.Next() {
		var h dto.HistoryPoint
		var point sql.NullFloat64
		var lastUpdate sql.NullTime
		if err := rows.Scan(&h.PriceAmerican, &point, &lastUpdate, &h.IngestTs); err != nil {
			return nil, err
		}
		if point.Valid {
			v := point.Float64
			h.LinePoint = &v
		}
		if lastUpdate.Valid {
			t := lastUpdate.Time
			h.MarketLastUpdate = &t
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
