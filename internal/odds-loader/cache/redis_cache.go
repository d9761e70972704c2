package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/odds-warehouse-poc/pkg/contracts/events"
)

// LatestCache mantém no Redis a odd mais recente por tupla
// (event, bookmaker, market, outcome) de cada evento, uma chave por evento.
// Client: cliente Redis
// TTL: tempo de expiração dos registros
type LatestCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewLatestCache cria uma instância de cache Redis com TTL configurável
func NewLatestCache(c *redis.Client, ttl time.Duration) *LatestCache {
	return &LatestCache{Client: c, TTL: ttl}
}

// key gera a chave Redis das odds mais recentes de um evento
func key(eventID string) string { return "odds:latest:" + eventID }

// MergeLatest funde as linhas novas com as cacheadas, mantendo por tupla a de
// maior (market_last_update, ingest_ts_utc), e regrava a chave com TTL.
func (c *LatestCache) MergeLatest(ctx context.Context, eventID string, rows []events.SnapshotRow) error {
	var existing []events.SnapshotRow
	b, err := c.Client.Get(ctx, key(eventID)).Bytes()
	if err == nil {
		_ = json.Unmarshal(b, &existing)
	} else if err != redis.Nil {
		return err
	}

	merged := Merge(existing, rows)
	out, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key(eventID), out, c.TTL).Err()
}

// Merge mantém por tupla a linha mais recente, com a mesma ordenação da view
// latest_odds: market_last_update desc (NULL por último), ingest_ts_utc desc
func Merge(existing, incoming []events.SnapshotRow) []events.SnapshotRow {
	byTuple := make(map[string]events.SnapshotRow, len(existing)+len(incoming))
	order := make([]string, 0, len(existing)+len(incoming))

	for _, r := range existing {
		k := tupleKey(r)
		if _, ok := byTuple[k]; !ok {
			order = append(order, k)
		}
		byTuple[k] = r
	}
	for _, r := range incoming {
		k := tupleKey(r)
		cur, ok := byTuple[k]
		if !ok {
			order = append(order, k)
			byTuple[k] = r
			continue
		}
		if newer(r, cur) {
			byTuple[k] = r
		}
	}

	out := make([]events.SnapshotRow, 0, len(order))
	for _, k := range order {
		out = append(out, byTuple[k])
	}
	return out
}

func tupleKey(r events.SnapshotRow) string {
	return r.EventID + "|" + r.BookmakerKey + "|" + r.MarketKey + "|" + r.OutcomeName
}

// newer compara (market_last_update, ingest_ts_utc); last_update nulo perde
// de qualquer não-nulo, espelhando NULLS LAST da view
func newer(a, b events.SnapshotRow) bool {
	switch {
	case a.MarketLastUpdate == nil && b.MarketLastUpdate != nil:
		return false
	case a.MarketLastUpdate != nil && b.MarketLastUpdate == nil:
		return true
	case a.MarketLastUpdate != nil && b.MarketLastUpdate != nil:
		if a.MarketLastUpdate.After(*b.MarketLastUpdate) {
			return true
		}
		if b.MarketLastUpdate.After(*a.MarketLastUpdate) {
			return false
		}
	}
	return a.IngestTsUTC.After(b.IngestTsUTC)
}
