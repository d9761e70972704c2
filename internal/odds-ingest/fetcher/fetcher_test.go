package fetcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/odds-warehouse-poc/internal/oddsapi"
	"github.com/radieske/odds-warehouse-poc/pkg/contracts/events"
)

type fakeFeed struct {
	events []oddsapi.APIEvent
	err    error
	calls  int
}

func (f *fakeFeed) FetchOdds(ctx context.Context, sport, regions, markets string) ([]oddsapi.APIEvent, oddsapi.Quota, error) {
	f.calls++
	return f.events, oddsapi.Quota{Remaining: "499"}, f.err
}

type fakePublisher struct {
	batches []events.SnapshotBatch
	err     error
}

func (p *fakePublisher) Publish(ctx context.Context, b events.SnapshotBatch) error {
	if p.err != nil {
		return p.err
	}
	p.batches = append(p.batches, b)
	return nil
}

func TestFetcher_PublishesOneBatchPerEvent(t *testing.T) {
	feed := &fakeFeed{events: []oddsapi.APIEvent{
		{ID: "ev1", SportKey: "americanfootball_nfl"},
		{ID: "ev2", SportKey: "americanfootball_nfl"},
	}}
	pub := &fakePublisher{}

	ctx, cancel := context.WithCancel(context.Background())
	var published int

	f := &Fetcher{
		Log:       zap.NewNop(),
		Feed:      feed,
		Publisher: pub,
		Sport:     "americanfootball_nfl",
		Regions:   "us",
		Markets:   "h2h",
		Interval:  time.Hour, // só o ciclo imediato roda
		Source:    "test",
		OnPublished: func() {
			published++
			if published == 2 {
				cancel()
			}
		},
	}

	err := f.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 1, feed.calls)
	require.Len(t, pub.batches, 2)
	assert.Equal(t, "ev1", pub.batches[0].Event.EventID)
	assert.Equal(t, "ev2", pub.batches[1].Event.EventID)
	assert.Equal(t, "test", pub.batches[0].Source)
}

func TestFetcher_FetchErrorDoesNotStopLoop(t *testing.T) {
	feed := &fakeFeed{err: errors.New("feed down")}
	pub := &fakePublisher{}

	ctx, cancel := context.WithCancel(context.Background())

	var stages []string
	f := &Fetcher{
		Log:       zap.NewNop(),
		Feed:      feed,
		Publisher: pub,
		Interval:  5 * time.Millisecond,
		OnError: func(stage string) {
			stages = append(stages, stage)
			if len(stages) == 2 {
				cancel() // duas falhas seguidas: o loop seguiu vivo após a primeira
			}
		},
	}

	err := f.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, feed.calls, 2)
	assert.Equal(t, []string{"fetch", "fetch"}, stages[:2])
	assert.Empty(t, pub.batches)
}

func TestFetcher_PublishErrorCountsPerBatch(t *testing.T) {
	feed := &fakeFeed{events: []oddsapi.APIEvent{{ID: "ev1"}}}
	pub := &fakePublisher{err: errors.New("kafka down")}

	ctx, cancel := context.WithCancel(context.Background())

	f := &Fetcher{
		Log:       zap.NewNop(),
		Feed:      feed,
		Publisher: pub,
		Interval:  time.Hour,
		OnError: func(stage string) {
			assert.Equal(t, "publish", stage)
			cancel()
		},
	}

	err := f.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, pub.batches)
}
