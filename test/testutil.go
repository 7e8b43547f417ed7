//go:build integration
// +build integration

package test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO required)

	"github.com/coregx/sqlbridge"
)

// BackendSetup bundles a live client, its dialect, and container cleanup.
type BackendSetup struct {
	Client    sqlbridge.Client
	Dialect   *sqlbridge.Dialect
	Container testcontainers.Container
	Backend   string
}

// Close tears down the client and the backing container, if any.
func (bs *BackendSetup) Close() {
	if bs.Dialect != nil {
		bs.Dialect.Driver().Destroy() //nolint:errcheck
	}
	if bs.Container != nil {
		bs.Container.Terminate(context.Background()) //nolint:errcheck
	}
}

func newSetup(t *testing.T, backend, dsn string, container testcontainers.Container, opts ...sqlbridge.ClientOption) *BackendSetup {
	t.Helper()
	c, err := sqlbridge.OpenClient(backend, dsn, opts...)
	require.NoError(t, err)
	return &BackendSetup{
		Client:    c,
		Dialect:   sqlbridge.NewDialect(c),
		Container: container,
		Backend:   backend,
	}
}

// SetupPostgres starts a PostgreSQL backend. Uses an env DSN when provided,
// otherwise a throwaway container.
func SetupPostgres(t *testing.T) *BackendSetup {
	ctx := context.Background()

	if dsn := os.Getenv("POSTGRES_TEST_DSN"); dsn != "" {
		return newSetup(t, sqlbridge.Postgres, dsn, nil)
	}

	pgContainer, err := postgres.Run(
		ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skip("Docker not available for PostgreSQL integration tests: " + err.Error())
	}

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	return newSetup(t, sqlbridge.Postgres, dsn, pgContainer)
}

// SetupMySQL starts a MySQL backend. Uses an env DSN when provided, otherwise
// a throwaway container.
func SetupMySQL(t *testing.T) *BackendSetup {
	ctx := context.Background()

	if dsn := os.Getenv("MYSQL_TEST_DSN"); dsn != "" {
		return newSetup(t, sqlbridge.MySQL, dsn, nil)
	}

	mysqlContainer, err := mysql.Run(
		ctx,
		"mysql:8.0",
		mysql.WithDatabase("testdb"),
		mysql.WithUsername("user"),
		mysql.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("port: 3306  MySQL Community Server").
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skip("Docker not available for MySQL integration tests: " + err.Error())
	}

	dsn, err := mysqlContainer.ConnectionString(ctx)
	require.NoError(t, err)

	return newSetup(t, sqlbridge.MySQL, dsn, mysqlContainer)
}

// SetupMariaDB starts a MariaDB backend. Uses an env DSN when provided,
// otherwise a throwaway container running the mariadb image through the
// MySQL-compatible module.
func SetupMariaDB(t *testing.T) *BackendSetup {
	ctx := context.Background()

	if dsn := os.Getenv("MARIADB_TEST_DSN"); dsn != "" {
		return newSetup(t, sqlbridge.MariaDB, dsn, nil)
	}

	mariaContainer, err := mysql.Run(
		ctx,
		"mariadb:11",
		mysql.WithDatabase("testdb"),
		mysql.WithUsername("user"),
		mysql.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("mariadbd: ready for connections").
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skip("Docker not available for MariaDB integration tests: " + err.Error())
	}

	dsn, err := mariaContainer.ConnectionString(ctx)
	require.NoError(t, err)

	return newSetup(t, sqlbridge.MariaDB, dsn, mariaContainer)
}

// SetupSQLite opens an in-memory SQLite backend. Always works, no external
// dependencies. The modernc driver registers under "sqlite" rather than
// "sqlite3", so the client wraps an explicitly opened handle.
func SetupSQLite(t *testing.T) *BackendSetup {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)

	c := sqlbridge.WrapDB(db, sqlbridge.SQLite)
	return &BackendSetup{
		Client:  c,
		Dialect: sqlbridge.NewDialect(c),
		Backend: sqlbridge.SQLite,
	}
}

// CreateAccountsTable creates the accounts table used by the lifecycle tests.
func CreateAccountsTable(t *testing.T, bs *BackendSetup) {
	var ddl string
	switch bs.Backend {
	case sqlbridge.Postgres:
		ddl = `
			CREATE TABLE IF NOT EXISTS accounts (
				id SERIAL PRIMARY KEY,
				owner VARCHAR(255) NOT NULL,
				balance INTEGER DEFAULT 0
			)
		`
	case sqlbridge.MySQL, sqlbridge.MariaDB:
		ddl = `
			CREATE TABLE IF NOT EXISTS accounts (
				id INT AUTO_INCREMENT PRIMARY KEY,
				owner VARCHAR(255) NOT NULL,
				balance INT DEFAULT 0
			)
		`
	default:
		ddl = `
			CREATE TABLE IF NOT EXISTS accounts (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				owner VARCHAR(255) NOT NULL,
				balance INTEGER DEFAULT 0
			)
		`
	}

	_, err := bs.Client.Unsafe(context.Background(), ddl, nil)
	require.NoError(t, err)
}

// InsertAccount inserts one account row through the dialect's compiler.
func InsertAccount(t *testing.T, bs *BackendSetup, owner string, balance int) {
	ctx := context.Background()
	q := bs.Dialect.QueryCompiler().Compile(
		"insert into accounts (owner, balance) values (?, ?)",
		[]any{owner, balance},
	)
	_, err := bs.Client.Unsafe(ctx, q.SQL, q.Args)
	require.NoError(t, err)
}
