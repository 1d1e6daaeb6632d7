package executor_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/recordguard/query/domain"
	"github.com/satishbabariya/recordguard/query/executor"
	"github.com/satishbabariya/recordguard/query/sqlgen"
)

// recordingConn answers every exec with result and refuses queries.
type recordingConn struct {
	result sql.Result
	err    error
	execs  []string
}

func (c *recordingConn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	c.execs = append(c.execs, query)
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

func (c *recordingConn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, errors.New("queries not supported")
}

type insertResult struct {
	id          int64
	affectedErr error
}

func (r insertResult) LastInsertId() (int64, error) { return r.id, nil }

func (r insertResult) RowsAffected() (int64, error) {
	if r.affectedErr != nil {
		return 0, r.affectedErr
	}
	return 1, nil
}

func insertStatement() sqlgen.Statement {
	return sqlgen.Statement{
		Text:   "INSERT INTO orders (id, creatorId, businessUnitId) VALUES (@id, @creatorId, @businessUnitId)",
		Params: domain.Params{"id": "r-1"},
	}
}

func TestInsertAndReturnID_PostgresWithoutReturningColumn(t *testing.T) {
	dialect, err := sqlgen.NewDialect("postgres")
	require.NoError(t, err)

	conn := &recordingConn{result: driver.RowsAffected(1)}
	exec := executor.New(dialect)
	assert.False(t, exec.ReturnsGeneratedID())

	id, err := exec.InsertAndReturnID(context.Background(), insertStatement(),
		domain.ExecutionContext{CallerUserID: "u1", CallerBusinessUnit: "bu1", Conn: conn})

	assert.ErrorIs(t, err, executor.ErrNoGeneratedID)
	assert.Zero(t, id)
	assert.Empty(t, conn.execs, "nothing may run before the id can be read back")
}

func TestReturnsGeneratedID(t *testing.T) {
	assert.True(t, executor.New(sqlgen.NewMySQL()).ReturnsGeneratedID())
	assert.True(t, executor.New(sqlgen.NewSQLite()).ReturnsGeneratedID())
	assert.True(t, executor.New(sqlgen.NewPostgres("rid")).ReturnsGeneratedID())
	assert.False(t, executor.New(sqlgen.NewPostgres("")).ReturnsGeneratedID())
}

func TestInsertAndReturnID_RowsAffectedUnavailable(t *testing.T) {
	conn := &recordingConn{result: insertResult{id: 7, affectedErr: errors.New("not supported")}}

	var events []executor.QueryEvent
	exec := executor.New(sqlgen.NewMySQL(), executor.WithMiddleware(
		func(ctx context.Context, event *executor.QueryEvent, next func() error) error {
			err := next()
			events = append(events, *event)
			return err
		},
	))

	id, err := exec.InsertAndReturnID(context.Background(), insertStatement(),
		domain.ExecutionContext{CallerUserID: "u1", CallerBusinessUnit: "bu1", Conn: conn})
	require.NoError(t, err)

	assert.Equal(t, int64(7), id)
	require.Len(t, events, 1)
	assert.Equal(t, int64(-1), events[0].RowsAffected)
	assert.Equal(t, []string{"INSERT INTO orders (id, creatorId, businessUnitId) VALUES (?, ?, ?)"}, conn.execs)
}

func TestMiddleware_Order(t *testing.T) {
	var calls []string
	trace := func(name string) executor.Middleware {
		return func(ctx context.Context, event *executor.QueryEvent, next func() error) error {
			calls = append(calls, name+" before")
			err := next()
			calls = append(calls, name+" after")
			return err
		}
	}

	conn := &recordingConn{result: insertResult{}}
	exec := executor.New(sqlgen.NewMySQL(), executor.WithMiddleware(trace("outer"), trace("inner")))

	require.NoError(t, exec.RunNonQuery(context.Background(), sqlgen.Statement{Text: "DELETE FROM orders"},
		domain.ExecutionContext{Conn: conn}))

	assert.Equal(t, []string{"outer before", "inner before", "inner after", "outer after"}, calls)
}

func TestTimingAndErrorMiddleware(t *testing.T) {
	storeErr := errors.New("disk full")
	conn := &recordingConn{err: storeErr}

	var timed []string
	var durations []time.Duration
	var failed []string
	exec := executor.New(sqlgen.NewMySQL(), executor.WithMiddleware(
		executor.ErrorMiddleware(func(query string, err error) {
			failed = append(failed, query+": "+err.Error())
		}),
		executor.TimingMiddleware(func(op, query string, d time.Duration) {
			timed = append(timed, op+" "+query)
			durations = append(durations, d)
		}),
	))

	err := exec.RunNonQuery(context.Background(), sqlgen.Statement{Text: "DELETE FROM orders"},
		domain.ExecutionContext{Conn: conn})
	assert.ErrorIs(t, err, storeErr)

	assert.Equal(t, []string{"exec DELETE FROM orders"}, timed)
	require.Len(t, durations, 1)
	assert.GreaterOrEqual(t, durations[0], time.Duration(0))
	assert.Equal(t, []string{"DELETE FROM orders: disk full"}, failed)
}
