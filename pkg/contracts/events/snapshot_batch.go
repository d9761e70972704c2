package events

import "time"

// Linhas achatadas do feed de odds, no formato das tabelas do warehouse.
// Um SnapshotBatch por evento esportivo é publicado no tópico "odds_snapshot_batches".

// EventRow é a linha de dimensão da tabela events
type EventRow struct {
	EventID         string     `json:"event_id"`
	SportKey        string     `json:"sport_key"`
	SportTitle      string     `json:"sport_title"`
	CommenceTimeUTC *time.Time `json:"commence_time_utc"`
	HomeTeam        string     `json:"home_team"`
	AwayTeam        string     `json:"away_team"`
}

// BookmakerRow é a linha de dimensão da tabela bookmakers
type BookmakerRow struct {
	BookmakerKey   string `json:"bookmaker_key"`
	BookmakerTitle string `json:"bookmaker_title"`
}

// SnapshotRow é uma linha append-only da tabela odds_snapshots:
// um outcome precificado de um mercado, de um bookmaker, em um instante
type SnapshotRow struct {
	EventID          string     `json:"event_id"`
	BookmakerKey     string     `json:"bookmaker_key"`
	MarketKey        string     `json:"market_key"` // "h2h", "spreads", "totals"
	OutcomeName      string     `json:"outcome_name"`
	IsHomeTeam       *bool      `json:"is_home_team"` // nil quando o outcome não é um time (Over/Under)
	PriceAmerican    int        `json:"price_american"`
	LinePoint        *float64   `json:"line_point"` // nil em h2h
	EventCommenceUTC *time.Time `json:"event_commence_utc"`
	MarketLastUpdate *time.Time `json:"market_last_update"`
	IngestTsUTC      time.Time  `json:"ingest_ts_utc"` // carimbado pelo loader na persistência
}

// SnapshotBatch agrupa as linhas achatadas de um único evento esportivo
type SnapshotBatch struct {
	Event      EventRow       `json:"event"`
	Bookmakers []BookmakerRow `json:"bookmakers"`
	Snapshots  []SnapshotRow  `json:"snapshots"`
	FetchedAt  time.Time      `json:"fetched_at"`
	Source     string         `json:"source"` // "odds-ingest-service", "feed-simulator"
}
