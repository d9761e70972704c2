package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/odds-warehouse-poc/pkg/contracts/events"
)

func TestUpsertEvent_InsertsMissingKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	commence := time.Date(2026, 9, 13, 17, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO events").
		WithArgs("ev1", "americanfootball_nfl", "NFL", &commence, "Kansas City Chiefs", "Buffalo Bills").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresRepo(db)
	err = repo.UpsertEvent(context.Background(), events.EventRow{
		EventID:         "ev1",
		SportKey:        "americanfootball_nfl",
		SportTitle:      "NFL",
		CommenceTimeUTC: &commence,
		HomeTeam:        "Kansas City Chiefs",
		AwayTeam:        "Buffalo Bills",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertEvent_DuplicateKeyIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// ON CONFLICT DO NOTHING: chave repetida não gera erro, só zero linhas
	mock.ExpectExec("ON CONFLICT \\(event_id\\) DO NOTHING").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostgresRepo(db)
	err = repo.UpsertEvent(context.Background(), events.EventRow{EventID: "ev1", SportKey: "nfl"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertBookmakers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO bookmakers").
		WithArgs("draftkings", "DraftKings").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO bookmakers").
		WithArgs("fanduel", "FanDuel").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostgresRepo(db)
	err = repo.UpsertBookmakers(context.Background(), []events.BookmakerRow{
		{BookmakerKey: "draftkings", BookmakerTitle: "DraftKings"},
		{BookmakerKey: "fanduel", BookmakerTitle: "FanDuel"},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSnapshots_AppendOnlyMultiValues(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ingest := time.Date(2026, 9, 10, 12, 10, 0, 0, time.UTC)
	update := ingest.Add(-5 * time.Minute)
	home := true

	// duas linhas viram um único INSERT com 20 placeholders; sem ON CONFLICT,
	// a mesma tupla lógica pode repetir à vontade (inclusive event_id órfão)
	mock.ExpectExec("INSERT INTO odds_snapshots").
		WithArgs(
			"orphan-event", "draftkings", "h2h", "Kansas City Chiefs", &home,
			-150, nil, nil, &update, ingest,
			"orphan-event", "draftkings", "h2h", "Kansas City Chiefs", &home,
			-150, nil, nil, &update, ingest,
		).
		WillReturnResult(sqlmock.NewResult(0, 2))

	row := events.SnapshotRow{
		EventID:          "orphan-event",
		BookmakerKey:     "draftkings",
		MarketKey:        "h2h",
		OutcomeName:      "Kansas City Chiefs",
		IsHomeTeam:       &home,
		PriceAmerican:    -150,
		MarketLastUpdate: &update,
		IngestTsUTC:      ingest,
	}

	repo := NewPostgresRepo(db)
	err = repo.InsertSnapshots(context.Background(), []events.SnapshotRow{row, row})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSnapshots_EmptyIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepo(db)
	assert.NoError(t, repo.InsertSnapshots(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}
