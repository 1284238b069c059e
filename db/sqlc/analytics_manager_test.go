package sqlc

import (
	"context"
	"database/sql"
	"net"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var testIpNet = net.IPNet{IP: net.ParseIP("10.1.2.3").To4(), Mask: net.CIDRMask(32, 32)}

func newTestDbManager(t *testing.T) (DbManager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewDbManager(New(db), testIpNet), mock
}

func TestIncrementGamesCreatedCount(t *testing.T) {
	dbm, mock := newTestDbManager(t)

	mock.ExpectExec(`INSERT INTO game_server_analytics \(server_ip, games_created\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, dbm.Analytics.IncrementGamesCreatedCount(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementGamesFinishedCount(t *testing.T) {
	tests := []struct {
		name          string
		won           bool
		expectedQuery string
	}{
		{name: "won", won: true, expectedQuery: `SET games_won = game_server_analytics.games_won \+ 1`},
		{name: "lost", won: false, expectedQuery: `SET games_lost = game_server_analytics.games_lost \+ 1`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dbm, mock := newTestDbManager(t)

			mock.ExpectExec(test.expectedQuery).
				WithArgs(sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, 1))

			require.NoError(t, dbm.Analytics.IncrementGamesFinishedCount(context.Background(), test.won))
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGetGameServerCounts(t *testing.T) {
	dbm, mock := newTestDbManager(t)

	mock.ExpectQuery(`SELECT server_ip, games_created, games_won, games_lost FROM game_server_analytics WHERE server_ip = \$1`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"server_ip", "games_created", "games_won", "games_lost"}).
			AddRow([]byte("10.1.2.3/32"), 7, 3, 2))

	counts, err := dbm.Analytics.GetGameServerCounts(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(7), counts.GamesCreated)
	require.Equal(t, int64(3), counts.GamesWon)
	require.Equal(t, int64(2), counts.GamesLost)
	require.True(t, counts.ServerIp.Valid)
	require.Equal(t, "10.1.2.3", counts.ServerIp.IPNet.IP.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGameServerCountsNoRows(t *testing.T) {
	dbm, mock := newTestDbManager(t)

	mock.ExpectQuery(`SELECT server_ip`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	_, err := dbm.Analytics.GetGameServerCounts(context.Background())
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAnalyticsManagerServerIp(t *testing.T) {
	dbm, _ := newTestDbManager(t)

	serverIp := dbm.Analytics.ServerIp()
	require.True(t, serverIp.Valid)
	require.Equal(t, "10.1.2.3", serverIp.IPNet.IP.String())
}
