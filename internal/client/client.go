// Package client defines the contract of the multi-backend SQL client the
// adapter executes through, and provides a database/sql-backed implementation
// covering PostgreSQL, MySQL/MariaDB, and SQLite.
package client

import "context"

// Supported backend tags. A Config carries exactly one of these; anything
// else is treated as unrecognized and handled by the dialect's fallback.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	MariaDB  = "mariadb"
	SQLite   = "sqlite"
)

// Row is a single result record keyed by column name. Values are returned
// as the underlying driver produced them; no type coercion happens here.
type Row = map[string]any

// Config describes the client as it was constructed. Backend is fixed at
// construction time and read by every backend-conditional branch in the adapter.
type Config struct {
	// Backend is the backend tag (Postgres, MySQL, MariaDB, SQLite, or other).
	Backend string
	// DSN is the data source name the client was opened with, if any.
	DSN string
}

// Executor is the raw execution entry point shared by the client handle and
// reserved connections. The SQL text is pre-formed with placeholder markers;
// it is sent verbatim with positional parameters, bypassing any builder layer.
//
// For row-returning statements the result is []Row. For other statement
// forms the result shape is backend-dependent and callers must not rely on it.
type Executor interface {
	Unsafe(ctx context.Context, query string, args []any) (any, error)
}

// Reserved is an exclusively-held physical connection checked out from the
// pool. It must be released exactly once when the unit of work ends.
type Reserved interface {
	Executor
	Release() error
}

// Client is the long-lived handle to the multi-backend SQL client. Pooling,
// transport, and backend protocol are entirely its concern; the adapter only
// reads its configuration, executes raw SQL, and reserves connections.
type Client interface {
	Executor
	// Config returns the client configuration, including the backend tag.
	Config() Config
	// Reserve checks out a sticky connection. It may suspend while the pool
	// has no free slot. Not supported for the embedded backend.
	Reserve(ctx context.Context) (Reserved, error)
	// Close tears down the client and all pooled connections.
	Close() error
}
