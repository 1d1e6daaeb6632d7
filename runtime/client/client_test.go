package client_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/recordguard/query/domain"
	"github.com/satishbabariya/recordguard/runtime/client"
)

const schema = `CREATE TABLE accounts (
	rid INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	name TEXT,
	closedOn DATETIME,
	creatorId TEXT,
	businessUnitId TEXT
)`

func openClient(t *testing.T) *client.Client {
	t.Helper()
	c, err := client.Open("sqlite", filepath.Join(t.TempDir(), "records.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Connect(context.Background()))
	_, err = c.DB().Exec(schema)
	require.NoError(t, err)
	return c
}

func grants(bu string, level domain.Level) []domain.PermissionGrant {
	return []domain.PermissionGrant{{BusinessUnitID: bu, Read: level}}
}

func TestOpen_UnsupportedProvider(t *testing.T) {
	_, err := client.Open("oracle", "")
	assert.Error(t, err)
}

func TestCreateAndGetRecord(t *testing.T) {
	c := openClient(t)
	ctx := context.Background()
	ec := c.Context("u1", "bu1", grants("bu1", domain.Owner))

	created, err := c.CreateRecord(ctx, ec, "accounts", domain.ColumnValues{"name": "acme", "closedOn": time.Time{}})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, int64(1), created.GeneratedID)

	row, err := c.GetRecordByID(ctx, ec, "accounts", created.ID)
	require.NoError(t, err)
	require.NotNil(t, row)

	m := row.Map()
	assert.Equal(t, "acme", m["name"])
	assert.Equal(t, "u1", m["creatorId"])
	assert.Equal(t, "bu1", m["businessUnitId"])
	assert.Nil(t, m["closedOn"])
}

func TestGetRecordByID_BlankTable(t *testing.T) {
	c := openClient(t)

	row, err := c.GetRecordByID(context.Background(), c.Context("u1", "bu1", nil), "  ", "x")
	assert.NoError(t, err)
	assert.Nil(t, row)
}

func TestGetRecordByID_Denied(t *testing.T) {
	c := openClient(t)
	ctx := context.Background()

	created, err := c.CreateRecord(ctx, c.Context("u1", "bu1", nil), "accounts", domain.ColumnValues{"name": "acme"})
	require.NoError(t, err)

	_, err = c.GetRecordByID(ctx, c.Context("u1", "bu1", grants("bu1", domain.Denied)), "accounts", created.ID)
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}

func TestGetRecordByID_OtherBusinessUnit(t *testing.T) {
	c := openClient(t)
	ctx := context.Background()

	created, err := c.CreateRecord(ctx, c.Context("u1", "bu1", nil), "accounts", domain.ColumnValues{"name": "acme"})
	require.NoError(t, err)

	row, err := c.GetRecordByID(ctx, c.Context("u2", "bu2", grants("bu2", domain.BusinessUnit)), "accounts", created.ID)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestQuery(t *testing.T) {
	c := openClient(t)
	ctx := context.Background()

	for _, caller := range []struct{ user, bu, name string }{
		{"u1", "A", "one"},
		{"u2", "B", "two"},
		{"u1", "C", "three"},
	} {
		_, err := c.CreateRecord(ctx, c.Context(caller.user, caller.bu, nil), "accounts", domain.ColumnValues{"name": caller.name})
		require.NoError(t, err)
	}

	q := domain.NewQueryDescriptor("accounts")
	q.Columns = "name"
	q.OrderBy = "rid"

	rows, err := c.Query(ctx, c.Context("u1", "A", grants("A", domain.Owner)), q)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "one", rows[0].Map()["name"])
	assert.Equal(t, "three", rows[1].Map()["name"])

	q = domain.NewQueryDescriptor("accounts")
	_, err = c.Query(ctx, c.Context("u1", "A", grants("A", domain.Unrestricted)), q)
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}

func TestUpdateRecord(t *testing.T) {
	c := openClient(t)
	ctx := context.Background()
	ec := c.Context("u1", "bu1", grants("bu1", domain.Owner))

	created, err := c.CreateRecord(ctx, ec, "accounts", domain.ColumnValues{"name": "acme"})
	require.NoError(t, err)

	require.NoError(t, c.UpdateRecord(ctx, ec, "accounts", created.ID, domain.ColumnValues{"name": "globex"}))

	row, err := c.GetRecordByID(ctx, ec, "accounts", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "globex", row.Map()["name"])

	err = c.UpdateRecord(ctx, ec, "accounts", created.ID, domain.ColumnValues{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExecuteNonQuery(t *testing.T) {
	c := openClient(t)
	ctx := context.Background()
	ec := c.Context("u1", "bu1", grants("bu1", domain.Owner))

	_, err := c.CreateRecord(ctx, ec, "accounts", domain.ColumnValues{"name": "acme"})
	require.NoError(t, err)

	err = c.ExecuteNonQuery(ctx, ec, "DELETE FROM accounts WHERE name = @name", domain.Params{"name": "acme"})
	require.NoError(t, err)

	var n int
	require.NoError(t, c.DB().QueryRow("SELECT COUNT(*) FROM accounts").Scan(&n))
	assert.Equal(t, 0, n)
}

func TestTransaction_Rollback(t *testing.T) {
	c := openClient(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := c.Transaction(ctx, c.Context("u1", "bu1", nil), func(ec domain.ExecutionContext) error {
		if _, err := c.CreateRecord(ctx, ec, "accounts", domain.ColumnValues{"name": "acme"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, c.DB().QueryRow("SELECT COUNT(*) FROM accounts").Scan(&n))
	assert.Equal(t, 0, n)
}

func TestTransaction_Commit(t *testing.T) {
	c := openClient(t)
	ctx := context.Background()

	err := c.Transaction(ctx, c.Context("u1", "bu1", nil), func(ec domain.ExecutionContext) error {
		_, err := c.CreateRecord(ctx, ec, "accounts", domain.ColumnValues{"name": "acme"})
		return err
	})
	require.NoError(t, err)

	var n int
	require.NoError(t, c.DB().QueryRow("SELECT COUNT(*) FROM accounts").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestDriverErrorCode(t *testing.T) {
	c := openClient(t)
	ctx := context.Background()
	ec := c.Context("u1", "bu1", nil)

	_, err := c.CreateRecord(ctx, ec, "accounts", domain.ColumnValues{"id": "dup", "name": "a"})
	require.NoError(t, err)
	_, err = c.CreateRecord(ctx, ec, "accounts", domain.ColumnValues{"id": "dup", "name": "b"})
	require.Error(t, err)

	code, ok := client.DriverErrorCode(err)
	assert.True(t, ok)
	assert.Equal(t, "2067", code) // SQLITE_CONSTRAINT_UNIQUE

	_, ok = client.DriverErrorCode(errors.New("plain"))
	assert.False(t, ok)
}

// execOnlyConn mimics drivers without LastInsertId support.
type execOnlyConn struct {
	execs []string
}

func (c *execOnlyConn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	c.execs = append(c.execs, query)
	return driver.RowsAffected(1), nil
}

func (c *execOnlyConn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, errors.New("queries not supported")
}

func TestCreateRecord_PostgresWithoutReturningColumn(t *testing.T) {
	c, err := client.NewFromDB("postgres", nil)
	require.NoError(t, err)

	conn := &execOnlyConn{}
	ec := domain.ExecutionContext{CallerUserID: "u1", CallerBusinessUnit: "bu1", Conn: conn}

	created, err := c.CreateRecord(context.Background(), ec, "accounts", domain.ColumnValues{"name": "acme"})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Zero(t, created.GeneratedID)
	assert.Equal(t, []string{
		"INSERT INTO accounts (name, id, creatorId, businessUnitId) VALUES ($1, $2, $3, $4)",
	}, conn.execs)
}
