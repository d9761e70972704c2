package consumer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/odds-warehouse-poc/internal/odds-loader/cache"
	"github.com/radieske/odds-warehouse-poc/internal/odds-loader/repository"
	"github.com/radieske/odds-warehouse-poc/pkg/contracts/events"
)

// fakeReader entrega as mensagens enfileiradas e depois bloqueia até o contexto encerrar
type fakeReader struct {
	msgs []kafka.Message
	i    int
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if f.i < len(f.msgs) {
		m := f.msgs[f.i]
		f.i++
		return m, nil
	}
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

type fakeDLQ struct {
	got []kafka.Message
}

func (f *fakeDLQ) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.got = append(f.got, msgs...)
	return nil
}

func sampleBatch() events.SnapshotBatch {
	update := time.Date(2026, 9, 10, 12, 5, 0, 0, time.UTC)
	return events.SnapshotBatch{
		Event: events.EventRow{
			EventID:  "ev1",
			SportKey: "americanfootball_nfl",
			HomeTeam: "Kansas City Chiefs",
			AwayTeam: "Buffalo Bills",
		},
		Bookmakers: []events.BookmakerRow{
			{BookmakerKey: "draftkings", BookmakerTitle: "DraftKings"},
		},
		Snapshots: []events.SnapshotRow{
			{
				EventID:          "ev1",
				BookmakerKey:     "draftkings",
				MarketKey:        "h2h",
				OutcomeName:      "Kansas City Chiefs",
				PriceAmerican:    -150,
				MarketLastUpdate: &update,
			},
		},
		FetchedAt: update,
		Source:    "test",
	}
}

func TestLoader_PersistsBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO events").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO bookmakers").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO odds_snapshots").WillReturnResult(sqlmock.NewResult(0, 1))

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	payload, err := json.Marshal(sampleBatch())
	require.NoError(t, err)

	var persisted, cached int
	var after events.SnapshotBatch

	ctx, cancel := context.WithCancel(context.Background())
	l := &Loader{
		Log:    zap.NewNop(),
		Reader: &fakeReader{msgs: []kafka.Message{{Key: []byte("ev1"), Value: payload}}},
		Repo:   repository.NewPostgresRepo(db),
		Cache:  cache.NewLatestCache(redisClient, time.Minute),
		OnPersist: func() {
			persisted++
		},
		OnCached: func() { cached++ },
		OnAfterPersist: func(b events.SnapshotBatch) {
			after = b
			cancel() // processou a única mensagem, encerra o loop
		},
	}

	err = l.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 1, persisted)
	assert.Equal(t, 1, cached)
	assert.Equal(t, "ev1", after.Event.EventID)
	require.Len(t, after.Snapshots, 1)
	assert.False(t, after.Snapshots[0].IngestTsUTC.IsZero(), "loader carimba o ingest_ts")

	require.NoError(t, mock.ExpectationsWereMet())
	assert.True(t, mr.Exists("odds:latest:ev1"))
}

func TestLoader_InvalidMessageGoesToDLQ(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	dlq := &fakeDLQ{}
	var decodeErrors int

	ctx, cancel := context.WithCancel(context.Background())
	l := &Loader{
		Log:    zap.NewNop(),
		Reader: &fakeReader{msgs: []kafka.Message{{Key: []byte("k"), Value: []byte("{not json")}}},
		Repo:   repository.NewPostgresRepo(db),
		Cache:  cache.NewLatestCache(redisClient, time.Minute),
		DLQ:    dlq,
		OnError: func(stage string) {
			if stage == "decode" {
				decodeErrors++
				cancel()
			}
		},
	}

	err = l.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 1, decodeErrors)
	require.Len(t, dlq.got, 1)
	assert.Equal(t, []byte("{not json"), dlq.got[0].Value)

	// nada chega ao banco
	require.NoError(t, mock.ExpectationsWereMet())
}
