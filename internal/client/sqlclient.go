package client

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/coregx/sqlbridge/internal/logger"
)

// SQLClient implements Client on top of database/sql. One instance wraps one
// *sql.DB and serves all three backends; the backend tag decides dialect
// behavior in the layers above, not here.
type SQLClient struct {
	db     *sql.DB
	config Config
	log    logger.Logger
	stmts  *stmtCache
}

// Option is a functional option for configuring SQLClient.
type Option func(*SQLClient)

// WithMaxOpenConns sets the maximum number of open connections.
func WithMaxOpenConns(n int) Option {
	return func(c *SQLClient) {
		c.db.SetMaxOpenConns(n)
	}
}

// WithMaxIdleConns sets the maximum number of idle connections.
func WithMaxIdleConns(n int) Option {
	return func(c *SQLClient) {
		c.db.SetMaxIdleConns(n)
	}
}

// WithLogger sets the logger used for statement-level debug logging.
func WithLogger(log logger.Logger) Option {
	return func(c *SQLClient) {
		c.log = log
	}
}

// WithStatementCache enables an LRU cache of prepared statements on the
// shared pool, bounded to capacity entries. Statements executed on reserved
// connections bypass the cache. A capacity of zero or less selects
// DefaultStmtCacheCapacity.
func WithStatementCache(capacity int) Option {
	return func(c *SQLClient) {
		c.stmts = newStmtCache(capacity)
	}
}

// driverName maps a backend tag to the database/sql driver name it is served
// by. MariaDB speaks the MySQL wire protocol and shares its driver. Unknown
// tags are passed through unchanged so callers can register custom drivers.
func driverName(backend string) string {
	switch backend {
	case Postgres:
		return "postgres"
	case MySQL, MariaDB:
		return "mysql"
	case SQLite:
		return "sqlite3"
	default:
		return backend
	}
}

// Open creates a client for the given backend tag and DSN. The matching
// database/sql driver must be registered by the caller (blank import).
func Open(backend, dsn string, opts ...Option) (*SQLClient, error) {
	db, err := sql.Open(driverName(backend), dsn)
	if err != nil {
		return nil, err
	}
	c := Wrap(db, backend, opts...)
	c.config.DSN = dsn
	return c, nil
}

// Wrap builds a client around an existing *sql.DB. The caller keeps ownership
// of pool configuration already applied to db; Close still closes it.
//
// For the embedded backend the pool is capped to a single connection: the
// driver runs transaction statements through the shared handle, and with an
// in-memory DSN every extra pool connection would be a distinct empty
// database. The cap makes the handle behave as the one serialized connection
// the embedded engine actually has.
func Wrap(db *sql.DB, backend string, opts ...Option) *SQLClient {
	if backend == SQLite {
		db.SetMaxOpenConns(1)
	}
	c := &SQLClient{
		db:     db,
		config: Config{Backend: backend},
		log:    &logger.NoopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the client configuration.
func (c *SQLClient) Config() Config {
	return c.config
}

// DB returns the underlying *sql.DB instance.
func (c *SQLClient) DB() *sql.DB {
	return c.db
}

// Unsafe executes pre-formed SQL text with positional parameters on the
// shared pool. With a statement cache enabled the text is prepared once and
// reused for subsequent executions.
func (c *SQLClient) Unsafe(ctx context.Context, query string, args []any) (any, error) {
	c.log.Debug("executing statement", "backend", c.config.Backend, "sql", query)
	if c.stmts != nil {
		stmt, err := c.stmts.prepared(ctx, c.db, query)
		if err != nil {
			return nil, err
		}
		return runUnsafe(ctx, stmtExecer{stmt}, query, args)
	}
	return runUnsafe(ctx, c.db, query, args)
}

// CacheStats reports prepared statement cache metrics. Zero value when the
// cache is disabled.
func (c *SQLClient) CacheStats() CacheStats {
	if c.stmts == nil {
		return CacheStats{}
	}
	return c.stmts.stats()
}

// Reserve checks out one physical connection from the pool. The returned
// handle executes every statement on that same connection until released.
func (c *SQLClient) Reserve(ctx context.Context) (Reserved, error) {
	conn, err := c.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	c.log.Debug("reserved connection", "backend", c.config.Backend)
	return &reservedConn{conn: conn, log: c.log}, nil
}

// Close tears down the underlying pool, closing any cached statements first.
func (c *SQLClient) Close() error {
	if c.stmts != nil {
		c.stmts.closeAll()
	}
	return c.db.Close()
}

// reservedConn is a Reserved backed by a *sql.Conn. database/sql guarantees
// the wrapped connection stays checked out until Close returns it to the pool.
type reservedConn struct {
	conn *sql.Conn
	log  logger.Logger
}

func (r *reservedConn) Unsafe(ctx context.Context, query string, args []any) (any, error) {
	r.log.Debug("executing statement on reserved connection", "sql", query)
	return runUnsafe(ctx, r.conn, query, args)
}

func (r *reservedConn) Release() error {
	r.log.Debug("released connection")
	return r.conn.Close()
}

// execer is the subset of *sql.DB and *sql.Conn the raw entry point needs.
type execer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// stmtExecer adapts a prepared *sql.Stmt to the execer shape; the query text
// is already bound into the statement and is ignored.
type stmtExecer struct {
	stmt *sql.Stmt
}

func (s stmtExecer) QueryContext(ctx context.Context, _ string, args ...any) (*sql.Rows, error) {
	return s.stmt.QueryContext(ctx, args...)
}

func (s stmtExecer) ExecContext(ctx context.Context, _ string, args ...any) (sql.Result, error) {
	return s.stmt.ExecContext(ctx, args...)
}

// runUnsafe routes row-returning statements through QueryContext and
// materializes every row as a column-keyed record; everything else goes
// through ExecContext and returns the driver's sql.Result as-is.
func runUnsafe(ctx context.Context, ex execer, query string, args []any) (any, error) {
	if !returnsRows(query) {
		return ex.ExecContext(ctx, query, args...)
	}

	rows, err := ex.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]Row, 0)
	for rows.Next() {
		record := Row{}
		if err := sqlx.MapScan(rows, record); err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// returnsRows reports whether a statement produces a result set. Detection is
// by leading keyword, with a RETURNING check for backends that support
// row-returning writes.
func returnsRows(query string) bool {
	q := strings.ToUpper(strings.TrimSpace(query))
	for _, prefix := range []string{"SELECT", "WITH", "VALUES", "SHOW", "PRAGMA", "EXPLAIN"} {
		if strings.HasPrefix(q, prefix) {
			return true
		}
	}
	return strings.Contains(q, " RETURNING ")
}
