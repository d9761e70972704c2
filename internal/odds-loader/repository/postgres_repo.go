package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/radieske/odds-warehouse-poc/pkg/contracts/events"
)

// PostgresRepo implementa a persistência do warehouse de odds.
// Dimensões (events, bookmakers) são upsert-por-chave-natural: chaves novas
// entram, repetidas são ignoradas. A tabela fato odds_snapshots é só append.
type PostgresRepo struct {
	DB *sql.DB
}

// NewPostgresRepo retorna uma instância de repositório Postgres
func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

// UpsertEvent insere o evento se a chave natural ainda não existir
func (r *PostgresRepo) UpsertEvent(ctx context.Context, e events.EventRow) error {
	const q = `
		INSERT INTO events
		  (event_id, sport_key, sport_title, commence_time_utc, home_team, away_team)
		VALUES
		  ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (event_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, q,
		e.EventID, e.SportKey, e.SportTitle, e.CommenceTimeUTC, e.HomeTeam, e.AwayTeam,
	)
	return err
}

// UpsertBookmakers insere os bookmakers cuja chave ainda não existe
func (r *PostgresRepo) UpsertBookmakers(ctx context.Context, rows []events.BookmakerRow) error {
	const q = `
		INSERT INTO bookmakers (bookmaker_key, bookmaker_title)
		VALUES ($1,$2)
		ON CONFLICT (bookmaker_key) DO NOTHING
	`
	for _, b := range rows {
		if _, err := r.DB.ExecContext(ctx, q, b.BookmakerKey, b.BookmakerTitle); err != nil {
			return fmt.Errorf("upsert bookmaker %s: %w", b.BookmakerKey, err)
		}
	}
	return nil
}

// InsertSnapshots faz append das linhas fato em um único INSERT multi-values.
// Sem ON CONFLICT: duplicatas da mesma tupla lógica são observações novas.
func (r *PostgresRepo) InsertSnapshots(ctx context.Context, rows []events.SnapshotRow) error {
	if len(rows) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`
		INSERT INTO odds_snapshots
		  (event_id, bookmaker_key, market_key, outcome_name, is_home_team,
		   price_american, line_point, event_commence_utc, market_last_update, ingest_ts_utc)
		VALUES `)

	args := make([]any, 0, len(rows)*10)
	for i, s := range rows {
		if i > 0 {
			sb.WriteString(",")
		}
		base := i * 10
		sb.WriteString(fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10))
		args = append(args,
			s.EventID, s.BookmakerKey, s.MarketKey, s.OutcomeName, s.IsHomeTeam,
			s.PriceAmerican, s.LinePoint, s.EventCommenceUTC, s.MarketLastUpdate, s.IngestTsUTC,
		)
	}

	if _, err := r.DB.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert snapshots: %w", err)
	}
	return nil
}
