package schema

import (
	"context"
	"database/sql"
	"fmt"
)

// DDL do warehouse de odds: duas dimensões, uma tabela fato append-only e a
// view de snapshot mais recente por tupla (event, bookmaker, market, outcome).
//
// odds_snapshots não tem chave primária, unique nem foreign keys de propósito:
// cada execução de ingestão só faz append e tolera linhas órfãs. A integridade
// referencial é convenção do pipeline, não garantia do banco. A view resolve
// a "última odd" em tempo de leitura, nunca em tempo de escrita.
const DDL = `
CREATE TABLE IF NOT EXISTS events (
	event_id          TEXT PRIMARY KEY,
	sport_key         TEXT NOT NULL,
	sport_title       TEXT,
	commence_time_utc TIMESTAMPTZ,
	home_team         TEXT,
	away_team         TEXT,
	created_at_utc    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS bookmakers (
	bookmaker_key   TEXT PRIMARY KEY,
	bookmaker_title TEXT,
	created_at_utc  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS odds_snapshots (
	event_id           TEXT NOT NULL,
	bookmaker_key      TEXT NOT NULL,
	market_key         TEXT NOT NULL, -- h2h, spreads, totals (texto livre)
	outcome_name       TEXT NOT NULL,
	is_home_team       BOOLEAN,
	price_american     INTEGER NOT NULL,
	line_point         DOUBLE PRECISION,
	event_commence_utc TIMESTAMPTZ,
	market_last_update TIMESTAMPTZ,
	ingest_ts_utc      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_snapshots_tuple
	ON odds_snapshots(event_id, bookmaker_key, market_key, outcome_name);

CREATE OR REPLACE VIEW latest_odds AS
SELECT event_id, bookmaker_key, market_key, outcome_name, is_home_team,
	price_american, line_point, event_commence_utc, market_last_update, ingest_ts_utc
FROM (
	SELECT s.*, ROW_NUMBER() OVER (
		PARTITION BY event_id, bookmaker_key, market_key, outcome_name
		ORDER BY market_last_update DESC NULLS LAST, ingest_ts_utc DESC
	) AS rn
	FROM odds_snapshots s
) ranked
WHERE rn = 1;
`

// Ensure aplica o DDL de forma idempotente (IF NOT EXISTS / OR REPLACE)
func Ensure(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, DDL); err != nil {
		return fmt.Errorf("apply warehouse schema: %w", err)
	}
	return nil
}
