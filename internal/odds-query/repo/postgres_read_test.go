package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEvents(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	commence := time.Date(2026, 9, 13, 17, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"event_id", "sport_key", "sport_title", "commence_time_utc", "home_team", "away_team"}).
		AddRow("ev1", "americanfootball_nfl", "NFL", commence, "Kansas City Chiefs", "Buffalo Bills").
		AddRow("ev2", "americanfootball_nfl", nil, nil, nil, nil)

	mock.ExpectQuery("FROM events").WillReturnRows(rows)

	r := &ReadRepo{DB: db}
	out, err := r.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "ev1", out[0].EventID)
	assert.Equal(t, "NFL", out[0].SportTitle)
	require.NotNil(t, out[0].CommenceTime)
	assert.Equal(t, commence, *out[0].CommenceTime)

	// colunas nulas viram zero values / nil
	assert.Empty(t, out[1].SportTitle)
	assert.Nil(t, out[1].CommenceTime)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookmakers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"bookmaker_key", "bookmaker_title"}).
		AddRow("draftkings", "DraftKings").
		AddRow("fanduel", nil)

	mock.ExpectQuery("FROM bookmakers").WillReturnRows(rows)

	r := &ReadRepo{DB: db}
	out, err := r.ListBookmakers(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "DraftKings", out[0].BookmakerTitle)
	assert.Empty(t, out[1].BookmakerTitle)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestByEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	update := time.Date(2026, 9, 10, 12, 5, 0, 0, time.UTC)
	ingest := update.Add(5 * time.Minute)
	rows := sqlmock.NewRows([]string{
		"event_id", "bookmaker_key", "market_key", "outcome_name", "is_home_team",
		"price_american", "line_point", "market_last_update", "ingest_ts_utc",
	}).
		AddRow("ev1", "draftkings", "h2h", "Kansas City Chiefs", true, -150, nil, update, ingest).
		AddRow("ev1", "draftkings", "totals", "Over", nil, -110, 47.5, nil, ingest)

	mock.ExpectQuery("FROM latest_odds").WithArgs("ev1").WillReturnRows(rows)

	r := &ReadRepo{DB: db}
	out, err := r.LatestByEvent(context.Background(), "ev1")
	require.NoError(t, err)
	require.Len(t, out, 2)

	h2h := out[0]
	require.NotNil(t, h2h.IsHomeTeam)
	assert.True(t, *h2h.IsHomeTeam)
	assert.Equal(t, -150, h2h.PriceAmerican)
	assert.Nil(t, h2h.LinePoint)
	require.NotNil(t, h2h.MarketLastUpdate)
	assert.Equal(t, update, *h2h.MarketLastUpdate)

	totals := out[1]
	assert.Nil(t, totals.IsHomeTeam)
	require.NotNil(t, totals.LinePoint)
	assert.Equal(t, 47.5, *totals.LinePoint)
	assert.Nil(t, totals.MarketLastUpdate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t1 := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(5 * time.Minute)
	rows := sqlmock.NewRows([]string{"price_american", "line_point", "market_last_update", "ingest_ts_utc"}).
		AddRow(-150, nil, t1, t1.Add(time.Minute)).
		AddRow(-140, nil, t2, t2.Add(time.Minute))

	mock.ExpectQuery("FROM odds_snapshots").
		WithArgs("ev1", "draftkings", "h2h", "Kansas City Chiefs").
		WillReturnRows(rows)

	r := &ReadRepo{DB: db}
	out, err := r.History(context.Background(), "ev1", "draftkings", "h2h", "Kansas City Chiefs")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, -150, out[0].PriceAmerican)
	assert.Equal(t, -140, out[1].PriceAmerican)
	require.NoError(t, mock.ExpectationsWereMet())
}
