package oddsapi

import "time"

// Formato do GET /v4/sports/{sport}/odds da the-odds-api.
// O feed-simulator local emite exatamente o mesmo shape.

type APIEvent struct {
	ID           string         `json:"id"`
	SportKey     string         `json:"sport_key"`
	SportTitle   string         `json:"sport_title"`
	CommenceTime *time.Time     `json:"commence_time"`
	HomeTeam     string         `json:"home_team"`
	AwayTeam     string         `json:"away_team"`
	Bookmakers   []APIBookmaker `json:"bookmakers"`
}

type APIBookmaker struct {
	Key        string      `json:"key"`
	Title      string      `json:"title"`
	LastUpdate *time.Time  `json:"last_update"`
	Markets    []APIMarket `json:"markets"`
}

type APIMarket struct {
	Key        string       `json:"key"` // h2h, spreads, totals
	LastUpdate *time.Time   `json:"last_update"`
	Outcomes   []APIOutcome `json:"outcomes"`
}

type APIOutcome struct {
	Name  string   `json:"name"`
	Price int      `json:"price"` // formato americano: +270, -340
	Point *float64 `json:"point"` // nil em h2h
}

// Quota reflete os headers de cota da API (x-requests-remaining/used)
type Quota struct {
	Remaining string
	Used      string
}
