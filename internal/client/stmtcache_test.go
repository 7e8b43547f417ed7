package client

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupCacheDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func prepareStmt(t *testing.T, db *sql.DB, query string) *sql.Stmt {
	t.Helper()
	stmt, err := db.Prepare(query)
	require.NoError(t, err)
	return stmt
}

func TestNewStmtCache_CapacityDefaults(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		expected int
	}{
		{name: "positive capacity", capacity: 16, expected: 16},
		{name: "zero capacity defaults", capacity: 0, expected: DefaultStmtCacheCapacity},
		{name: "negative capacity defaults", capacity: -5, expected: DefaultStmtCacheCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newStmtCache(tt.capacity)
			assert.Equal(t, tt.expected, sc.capacity)
		})
	}
}

func TestStmtCache_GetPut(t *testing.T) {
	db := setupCacheDB(t)
	sc := newStmtCache(4)

	stmt, found := sc.get("select 1")
	assert.Nil(t, stmt)
	assert.False(t, found)

	prepared := prepareStmt(t, db, "select 1")
	sc.put("select 1", prepared)

	stmt, found = sc.get("select 1")
	assert.True(t, found)
	assert.Same(t, prepared, stmt)

	stats := sc.stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRate, 0.001)
}

func TestStmtCache_EvictsLRU(t *testing.T) {
	db := setupCacheDB(t)
	sc := newStmtCache(2)

	for i := 0; i < 3; i++ {
		query := fmt.Sprintf("select %d", i)
		sc.put(query, prepareStmt(t, db, query))
	}

	_, found := sc.get("select 0")
	assert.False(t, found, "oldest entry should be evicted")
	_, found = sc.get("select 2")
	assert.True(t, found)

	assert.Equal(t, uint64(1), sc.stats().Evictions)
}

func TestSQLClient_StatementCache(t *testing.T) {
	db := setupCacheDB(t)
	c := Wrap(db, SQLite, WithStatementCache(8))
	ctx := context.Background()

	_, err := c.Unsafe(ctx, "create table items (id integer primary key, name text)", nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := c.Unsafe(ctx, "insert into items (name) values (?)", []any{fmt.Sprintf("item%d", i)})
		require.NoError(t, err)
	}

	raw, err := c.Unsafe(ctx, "select count(*) as n from items", nil)
	require.NoError(t, err)
	rows := raw.([]Row)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 5, rows[0]["n"])

	stats := c.CacheStats()
	assert.Equal(t, 3, stats.Size)
	assert.Equal(t, uint64(4), stats.Hits, "repeated insert shape should hit the cache")
}

func TestSQLClient_CacheStats_Disabled(t *testing.T) {
	db := setupCacheDB(t)
	c := Wrap(db, SQLite)

	assert.Equal(t, CacheStats{}, c.CacheStats())
}
