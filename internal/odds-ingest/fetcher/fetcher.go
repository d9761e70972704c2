package fetcher

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/odds-warehouse-poc/internal/odds-ingest/flatten"
	"github.com/radieske/odds-warehouse-poc/internal/oddsapi"
	"github.com/radieske/odds-warehouse-poc/pkg/contracts/events"
)

// Feed abstrai a origem das odds (the-odds-api real ou feed-simulator)
type Feed interface {
	FetchOdds(ctx context.Context, sport, regions, markets string) ([]oddsapi.APIEvent, oddsapi.Quota, error)
}

// Publisher abstrai o destino dos batches achatados (Kafka)
type Publisher interface {
	Publish(ctx context.Context, b events.SnapshotBatch) error
}

// Fetcher roda o ciclo fetch -> flatten -> publish em intervalo fixo.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa.
type Fetcher struct {
	Log       *zap.Logger
	Feed      Feed
	Publisher Publisher

	Sport    string
	Regions  string
	Markets  string
	Interval time.Duration
	Source   string

	OnFetch     func(nEvents int) // métricas (counter++)
	OnPublished func()            // métricas
	OnError     func(string)      // métricas por fase
}

// Run executa um ciclo imediato e depois um a cada Interval, até o contexto encerrar
func (f *Fetcher) Run(ctx context.Context) error {
	f.runOnce(ctx)

	ticker := time.NewTicker(f.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			f.runOnce(ctx)
		}
	}
}

// runOnce busca o feed, achata e publica um batch por evento.
// Falhas não derrubam o loop: o próximo tick tenta de novo.
func (f *Fetcher) runOnce(ctx context.Context) {
	apiEvents, quota, err := f.Feed.FetchOdds(ctx, f.Sport, f.Regions, f.Markets)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		f.Log.Warn("odds fetch failed", zap.Error(err))
		if f.OnError != nil {
			f.OnError("fetch")
		}
		return
	}

	if f.OnFetch != nil {
		f.OnFetch(len(apiEvents))
	}
	f.Log.Info("odds feed fetched",
		zap.Int("events", len(apiEvents)),
		zap.String("quota_remaining", quota.Remaining),
	)

	batches := flatten.Batches(apiEvents, time.Now().UTC(), f.Source)
	for _, b := range batches {
		if err := f.Publisher.Publish(ctx, b); err != nil {
			f.Log.Warn("batch publish failed",
				zap.String("event_id", b.Event.EventID),
				zap.Error(err),
			)
			if f.OnError != nil {
				f.OnError("publish")
			}
			continue
		}
		if f.OnPublished != nil {
			f.OnPublished()
		}
	}
}
