// Package sqlbridge adapts a type-safe SQL query-builder's execution contract
// to a single multi-backend SQL client covering PostgreSQL, MySQL/MariaDB,
// and SQLite. It bridges connection acquisition and release, query execution
// with result-shape normalization, and the transaction lifecycle across
// backends with different transaction dialects and connection models.
package sqlbridge

import (
	"context"
	"errors"

	"github.com/coregx/sqlbridge/internal/client"
	"github.com/coregx/sqlbridge/internal/core"
	"github.com/coregx/sqlbridge/internal/dialect"
	"github.com/coregx/sqlbridge/internal/logger"
	"github.com/coregx/sqlbridge/internal/tracer"
)

// Supported backend tags.
const (
	Postgres = client.Postgres
	MySQL    = client.MySQL
	MariaDB  = client.MariaDB
	SQLite   = client.SQLite
)

type (
	// Client is the multi-backend SQL client handle the adapter executes through.
	Client = client.Client
	// SQLClient is the database/sql-backed Client implementation.
	SQLClient = client.SQLClient
	// Config describes a client's backend tag and DSN.
	Config = client.Config
	// Reserved is an exclusively-held pool connection.
	Reserved = client.Reserved
	// Row is a result record keyed by column name.
	Row = client.Row
	// ClientOption is a functional option for configuring SQLClient.
	ClientOption = client.Option
	// CacheStats reports prepared statement cache metrics.
	CacheStats = client.CacheStats

	// Driver owns connection acquisition and transaction boundaries.
	Driver = core.Driver
	// Connection executes compiled queries on one live connection.
	Connection = core.Connection
	// CompiledQuery is the (SQL text, parameter list) pair produced by the
	// host query-builder.
	CompiledQuery = core.CompiledQuery
	// QueryResult is a normalized row sequence.
	QueryResult = core.QueryResult
	// TxSettings carries optional isolation level and access mode.
	TxSettings = core.TxSettings
	// DriverOption is a functional option for configuring Driver.
	DriverOption = core.Option

	// Dialect assembles the backend-specific toolkit for one client.
	Dialect = dialect.Dialect
	// QueryCompiler compiles '?'-marked statements for a backend.
	QueryCompiler = dialect.QueryCompiler
	// Adapter reports backend capability quirks.
	Adapter = dialect.Adapter
	// Introspector reads schema metadata from a backend's catalog.
	Introspector = dialect.Introspector
	// TableMetadata describes an introspected table.
	TableMetadata = dialect.TableMetadata
	// ColumnMetadata describes an introspected column.
	ColumnMetadata = dialect.ColumnMetadata

	// Logger is the structured logging interface.
	Logger = logger.Logger
	// Tracer is the tracing interface.
	Tracer = tracer.Tracer
)

// Re-export constructors and options.
var (
	// OpenClient opens a client for a backend tag and DSN.
	OpenClient = client.Open
	// WrapDB builds a client around an existing *sql.DB.
	WrapDB = client.Wrap
	// NewDialect creates a dialect for a client handle.
	NewDialect = dialect.New
	// NewDriver creates a driver bound to a client handle.
	NewDriver = core.NewDriver
	// RawQuery builds a CompiledQuery from bare statement text.
	RawQuery = core.RawQuery

	// Client options
	WithMaxOpenConns   = client.WithMaxOpenConns
	WithMaxIdleConns   = client.WithMaxIdleConns
	WithClientLogger   = client.WithLogger
	WithStatementCache = client.WithStatementCache

	// Driver options
	WithLogger          = core.WithLogger
	WithTracer          = core.WithTracer
	WithSensitiveFields = core.WithSensitiveFields

	// Observability adapters
	NewSlogAdapter = logger.NewSlogAdapter
	NewOtelTracer  = tracer.NewOtelTracer
)

// Transactional runs fn inside a transaction on a freshly acquired
// connection. The transaction commits when fn returns nil and rolls back when
// fn returns an error or panics; the connection is released in every case.
func Transactional(ctx context.Context, d *Dialect, settings TxSettings, fn func(conn *Connection) error) (err error) {
	drv := d.Driver()

	conn, err := drv.AcquireConnection(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if relErr := drv.ReleaseConnection(ctx); relErr != nil && err == nil {
			err = relErr
		}
	}()

	if err = drv.BeginTransaction(ctx, conn, settings); err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = drv.RollbackTransaction(ctx, conn) //nolint:errcheck
			panic(p)
		}
	}()

	if err = fn(conn); err != nil {
		if rbErr := drv.RollbackTransaction(ctx, conn); rbErr != nil {
			err = errors.Join(err, rbErr)
		}
		return err
	}
	return drv.CommitTransaction(ctx, conn)
}
