package core

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO required)

	"github.com/coregx/sqlbridge/internal/client"
)

// setupSQLiteDriver creates a driver over an in-memory SQLite client.
func setupSQLiteDriver(t *testing.T) *Driver {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)

	c := client.Wrap(db, client.SQLite)
	d := NewDriver(c)
	t.Cleanup(func() { _ = d.Destroy() })
	return d
}

// acquire returns a connection for tests; SQLite needs no release.
func acquire(t *testing.T, d *Driver) *Connection {
	t.Helper()

	conn, err := d.AcquireConnection(context.Background())
	require.NoError(t, err)
	return conn
}

func createUsersTable(t *testing.T, conn *Connection) {
	t.Helper()

	_, err := conn.ExecuteQuery(context.Background(), RawQuery(
		"create table users (id integer primary key autoincrement, name text not null)"))
	require.NoError(t, err)
}

func TestConnection_ExecuteQuery_Select(t *testing.T) {
	d := setupSQLiteDriver(t)
	conn := acquire(t, d)
	ctx := context.Background()

	createUsersTable(t, conn)

	for _, name := range []string{"Alice", "Bob", "Carol"} {
		_, err := conn.ExecuteQuery(ctx, CompiledQuery{
			SQL:  "insert into users (name) values (?)",
			Args: []any{name},
		})
		require.NoError(t, err)
	}

	res, err := conn.ExecuteQuery(ctx, RawQuery("select id, name from users order by id"))
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)
	assert.Equal(t, "Alice", res.Rows[0]["name"])
	assert.Equal(t, "Carol", res.Rows[2]["name"])
}

func TestConnection_ExecuteQuery_NonRowStatement(t *testing.T) {
	d := setupSQLiteDriver(t)
	conn := acquire(t, d)

	res, err := conn.ExecuteQuery(context.Background(), RawQuery("create table t (id integer)"))
	require.NoError(t, err)

	// Non-row statements normalize to an empty sequence, never an error.
	assert.NotNil(t, res.Rows)
	assert.Empty(t, res.Rows)
}

func TestConnection_ExecuteQuery_ErrorWrapping(t *testing.T) {
	d := setupSQLiteDriver(t)
	conn := acquire(t, d)

	_, err := conn.ExecuteQuery(context.Background(), RawQuery("select * from missing_table"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), ExecuteErrorPrefix+": "),
		"error %q should carry the fixed prefix", err.Error())
	assert.Error(t, errors.Unwrap(err), "wrapped error should expose the original")
}

func TestConnection_StreamQuery_SingleBatch(t *testing.T) {
	d := setupSQLiteDriver(t)
	conn := acquire(t, d)
	ctx := context.Background()

	createUsersTable(t, conn)
	for _, name := range []string{"Alice", "Bob"} {
		_, err := conn.ExecuteQuery(ctx, CompiledQuery{
			SQL:  "insert into users (name) values (?)",
			Args: []any{name},
		})
		require.NoError(t, err)
	}

	want, err := conn.ExecuteQuery(ctx, RawQuery("select * from users order by id"))
	require.NoError(t, err)

	var batches []QueryResult
	for res, err := range conn.StreamQuery(ctx, RawQuery("select * from users order by id"), 64) {
		require.NoError(t, err)
		batches = append(batches, res)
	}

	require.Len(t, batches, 1, "streaming yields exactly one batch")
	assert.Equal(t, want.Rows, batches[0].Rows)
}

func TestConnection_StreamQuery_Error(t *testing.T) {
	d := setupSQLiteDriver(t)
	conn := acquire(t, d)

	count := 0
	for _, err := range conn.StreamQuery(context.Background(), RawQuery("select * from nope"), 10) {
		count++
		assert.Error(t, err)
	}
	assert.Equal(t, 1, count)
}

func TestConnection_CountInsertDelete(t *testing.T) {
	d := setupSQLiteDriver(t)
	conn := acquire(t, d)
	ctx := context.Background()

	createUsersTable(t, conn)

	_, err := conn.ExecuteQuery(ctx, CompiledQuery{
		SQL:  "insert into users (name) values (?)",
		Args: []any{"Alice"},
	})
	require.NoError(t, err)

	res, err := conn.ExecuteQuery(ctx, RawQuery("select count(*) as n from users"))
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.EqualValues(t, 1, res.Rows[0]["n"])

	_, err = conn.ExecuteQuery(ctx, CompiledQuery{
		SQL:  "delete from users where name = ?",
		Args: []any{"Alice"},
	})
	require.NoError(t, err)

	res, err = conn.ExecuteQuery(ctx, RawQuery("select count(*) as n from users"))
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.EqualValues(t, 0, res.Rows[0]["n"])
}
