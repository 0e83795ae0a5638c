package mysqldb_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warncke/immutable-db/pkg/database"
	"github.com/warncke/immutable-db/pkg/database/mysqldb"
	"github.com/warncke/immutable-db/pkg/errorx"
)

func newMockConn(t *testing.T) (sqlmock.Sqlmock, database.Conn) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	return mock, mysqldb.WrapDB(db)
}

// TestConnectBuildsConnection verifies that Connect accepts an opaque
// params map and returns a usable handle without dialing.
func TestConnectBuildsConnection(t *testing.T) {
	driver := mysqldb.New(mysqldb.WithPingInterval(0))

	conn, err := driver.Connect(map[string]any{
		"host":     "localhost",
		"port":     3306,
		"user":     "test",
		"password": "secret",
		"db":       "testdb",
	})
	require.NoError(t, err)
	require.NotNil(t, conn)
	require.NoError(t, conn.Destroy())
}

// TestQueryScansRows verifies that result set statements are scanned
// into rows keyed by column name, with byte slices decoded to strings
// and NULL kept as nil for the normalizer.
func TestQueryScansRows(t *testing.T) {
	mock, conn := newMockConn(t)

	mock.ExpectQuery("SELECT id, name, email FROM users").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "email"}).
			AddRow(int64(1), []byte("alice"), nil).
			AddRow(int64(2), []byte("bob"), []byte("bob@example.com")))

	result, err := conn.QueryContext(context.Background(), "SELECT id, name, email FROM users", nil, nil)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)

	assert.Equal(t, int64(1), result.Rows[0]["id"])
	assert.Equal(t, "alice", result.Rows[0]["name"])
	assert.Nil(t, result.Rows[0]["email"])
	assert.Contains(t, result.Rows[0], "email")

	assert.Equal(t, "bob@example.com", result.Rows[1]["email"])

	assert.Equal(t, "2", result.Info.NumRows)
	assert.Equal(t, "0", result.Info.AffectedRows)
	assert.Equal(t, "0", result.Info.InsertId)
}

// TestQueryBindsNamedParams verifies that :name placeholders are bound
// from the params map in order of appearance.
func TestQueryBindsNamedParams(t *testing.T) {
	mock, conn := newMockConn(t)

	mock.ExpectQuery("SELECT * FROM users WHERE name = ? AND age > ?").
		WithArgs("alice", 21).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	result, err := conn.QueryContext(context.Background(),
		"SELECT * FROM users WHERE name = :name AND age > :age",
		map[string]any{"name": "alice", "age": 21}, nil)
	require.NoError(t, err)
	assert.Equal(t, "1", result.Info.NumRows)
}

// TestExecReportsInfo verifies that non-result-set statements are
// dispatched through Exec and report affected rows and insert id as
// string-encoded values.
func TestExecReportsInfo(t *testing.T) {
	mock, conn := newMockConn(t)

	mock.ExpectExec("INSERT INTO users (name) VALUES (?)").
		WithArgs("alice").
		WillReturnResult(sqlmock.NewResult(42, 1))

	result, err := conn.QueryContext(context.Background(),
		"INSERT INTO users (name) VALUES (:name)",
		map[string]any{"name": "alice"}, nil)
	require.NoError(t, err)

	assert.Empty(t, result.Rows)
	assert.Equal(t, "0", result.Info.NumRows)
	assert.Equal(t, "1", result.Info.AffectedRows)
	assert.Equal(t, "42", result.Info.InsertId)
}

// TestQueryErrorCarriesServerCode verifies that server errors surface
// as QueryError with the numeric error code and the server message.
func TestQueryErrorCarriesServerCode(t *testing.T) {
	mock, conn := newMockConn(t)

	serverErr := &mysql.MySQLError{Number: 1064, Message: "You have an error in your SQL syntax"}
	mock.ExpectQuery("SELECT * FORM users").WillReturnError(serverErr)

	_, err := conn.QueryContext(context.Background(), "SELECT * FORM users", nil, nil)
	require.Error(t, err)

	var queryErr *errorx.QueryError
	require.True(t, errors.As(err, &queryErr))
	assert.Equal(t, 1064, queryErr.Code)
	assert.True(t, queryErr.IsOperational)
	assert.Equal(t, "You have an error in your SQL syntax", queryErr.Error())

	// The original driver error stays reachable.
	assert.True(t, errors.Is(err, error(serverErr)))
}

// TestEndClosesDatabase verifies graceful close reaches the pool.
func TestEndClosesDatabase(t *testing.T) {
	mock, conn := newMockConn(t)

	mock.ExpectClose()
	require.NoError(t, conn.End())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestDestroyClosesDatabase verifies forced close reaches the pool.
func TestDestroyClosesDatabase(t *testing.T) {
	mock, conn := newMockConn(t)

	mock.ExpectClose()
	require.NoError(t, conn.Destroy())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestWatchdogRoutesPingFailures verifies that the connection watchdog
// routes ping failures to the registered error handler.
func TestWatchdogRoutesPingFailures(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing().WillReturnError(errors.New("server has gone away"))

	conn := mysqldb.WrapDB(db, mysqldb.WithPingInterval(10*time.Millisecond))
	defer conn.End()

	notified := make(chan error, 1)
	conn.OnError(func(err error) {
		select {
		case notified <- err:
		default:
		}
	})

	select {
	case err := <-notified:
		assert.Contains(t, err.Error(), "connection check failed")
	case <-time.After(2 * time.Second):
		t.Fatal("watchdog did not report the ping failure")
	}
}
