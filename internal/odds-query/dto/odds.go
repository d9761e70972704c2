package dto

import "time"

// Event representa um evento esportivo (ex: partida de NFL)
type Event struct {
	EventID      string     `json:"eventId"`
	SportKey     string     `json:"sportKey"`
	SportTitle   string     `json:"sportTitle,omitempty"`
	CommenceTime *time.Time `json:"commenceTime,omitempty"`
	HomeTeam     string     `json:"homeTeam,omitempty"`
	AwayTeam     string     `json:"awayTeam,omitempty"`
}

// Bookmaker representa uma casa de apostas cadastrada
type Bookmaker struct {
	BookmakerKey   string `json:"bookmakerKey"`
	BookmakerTitle string `json:"bookmakerTitle,omitempty"`
}

// LatestOdd é uma linha da view latest_odds: o snapshot mais recente
// de uma tupla (bookmaker, market, outcome) de um evento
type LatestOdd struct {
	EventID          string     `json:"eventId"`
	BookmakerKey     string     `json:"bookmakerKey"`
	MarketKey        string     `json:"marketKey"`
	OutcomeName      string     `json:"outcomeName"`
	IsHomeTeam       *bool      `json:"isHomeTeam,omitempty"`
	PriceAmerican    int        `json:"priceAmerican"`
	LinePoint        *float64   `json:"linePoint,omitempty"`
	MarketLastUpdate *time.Time `json:"marketLastUpdate,omitempty"`
	IngestTs         time.Time  `json:"ingestTs"`
}

// HistoryPoint é uma observação da série temporal de uma tupla
type HistoryPoint struct {
	PriceAmerican    int        `json:"priceAmerican"`
	LinePoint        *float64   `json:"linePoint,omitempty"`
	MarketLastUpdate *time.Time `json:"marketLastUpdate,omitempty"`
	IngestTs         time.Time  `json:"ingestTs"`
}
