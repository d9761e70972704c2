package flatten

import (
	"time"

	"github.com/radieske/odds-warehouse-poc/internal/oddsapi"
	"github.com/radieske/odds-warehouse-poc/pkg/contracts/events"
)

// Batches achata o payload aninhado do feed em um SnapshotBatch por evento,
// no formato das tabelas events/bookmakers/odds_snapshots.
func Batches(apiEvents []oddsapi.APIEvent, fetchedAt time.Time, source string) []events.SnapshotBatch {
	out := make([]events.SnapshotBatch, 0, len(apiEvents))
	for _, ev := range apiEvents {
		out = append(out, Batch(ev, fetchedAt, source))
	}
	return out
}

// Batch achata um único evento do feed
func Batch(ev oddsapi.APIEvent, fetchedAt time.Time, source string) events.SnapshotBatch {
	batch := events.SnapshotBatch{
		Event: events.EventRow{
			EventID:         ev.ID,
			SportKey:        ev.SportKey,
			SportTitle:      ev.SportTitle,
			CommenceTimeUTC: ev.CommenceTime,
			HomeTeam:        ev.HomeTeam,
			AwayTeam:        ev.AwayTeam,
		},
		FetchedAt: fetchedAt,
		Source:    source,
	}

	seen := make(map[string]struct{})
	for _, book := range ev.Bookmakers {
		if _, ok := seen[book.Key]; !ok {
			seen[book.Key] = struct{}{}
			batch.Bookmakers = append(batch.Bookmakers, events.BookmakerRow{
				BookmakerKey:   book.Key,
				BookmakerTitle: book.Title,
			})
		}

		for _, market := range book.Markets {
			// mercados sem last_update próprio herdam o do bookmaker
			lastUpdate := market.LastUpdate
			if lastUpdate == nil {
				lastUpdate = book.LastUpdate
			}

			for _, outcome := range market.Outcomes {
				batch.Snapshots = append(batch.Snapshots, events.SnapshotRow{
					EventID:          ev.ID,
					BookmakerKey:     book.Key,
					MarketKey:        market.Key,
					OutcomeName:      outcome.Name,
					IsHomeTeam:       homeFlag(outcome.Name, ev.HomeTeam, ev.AwayTeam),
					PriceAmerican:    outcome.Price,
					LinePoint:        outcome.Point,
					EventCommenceUTC: ev.CommenceTime,
					MarketLastUpdate: lastUpdate,
				})
			}
		}
	}

	return batch
}

// homeFlag é tri-estado: true/false quando o outcome é o time da casa/visitante,
// nil quando não é um time (Over/Under, empate)
func homeFlag(outcome, homeTeam, awayTeam string) *bool {
	if outcome == "" || homeTeam == "" {
		return nil
	}
	switch outcome {
	case homeTeam:
		v := true
		return &v
	case awayTeam:
		v := false
		return &v
	}
	return nil
}
