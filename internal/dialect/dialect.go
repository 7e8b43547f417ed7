// Package dialect selects the backend-specific toolkit (query compiler,
// capability adapter, schema introspector) matching a client's backend tag,
// and exposes the driver bound to that client.
package dialect

import (
	"context"

	"github.com/coregx/sqlbridge/internal/client"
	"github.com/coregx/sqlbridge/internal/core"
)

// QueryCompiler turns backend-agnostic statement text with '?' markers into a
// compiled query in the backend's placeholder style.
type QueryCompiler interface {
	// Compile rewrites placeholder markers and pairs the text with its args.
	Compile(sql string, args []any) core.CompiledQuery
	// QuoteIdentifier quotes a table or column name for the backend.
	QuoteIdentifier(name string) string
}

// Adapter reports shallow capability quirks of a backend.
type Adapter interface {
	// SupportsReturning reports whether writes can return rows.
	SupportsReturning() bool
	// SupportsTransactionalDDL reports whether DDL participates in transactions.
	SupportsTransactionalDDL() bool
}

// TableMetadata describes one user table found by introspection.
type TableMetadata struct {
	Name string
}

// ColumnMetadata describes one column of an introspected table.
type ColumnMetadata struct {
	Name     string
	DataType string
	Nullable bool
}

// Introspector reads schema metadata from the backend's catalog.
type Introspector interface {
	Tables(ctx context.Context) ([]TableMetadata, error)
	Columns(ctx context.Context, table string) ([]ColumnMetadata, error)
}

// Dialect assembles the toolkit for one configured client. The accessors
// re-read the client's backend tag on every call; only the driver is a
// singleton, tied to the client handle for its lifetime.
type Dialect struct {
	client client.Client
	driver *core.Driver
}

// New creates a dialect for the given client handle. Driver options configure
// logging and tracing for the lifecycle the driver owns.
func New(c client.Client, opts ...core.Option) *Dialect {
	return &Dialect{
		client: c,
		driver: core.NewDriver(c, opts...),
	}
}

// Driver returns the one driver instance tied to the configured client.
func (d *Dialect) Driver() *core.Driver {
	return d.driver
}

// QueryCompiler returns the compiler matching the client's backend tag.
// MariaDB is treated identically to MySQL. Unrecognized tags fall back to the
// postgres toolkit; malformed configuration is not rejected here.
func (d *Dialect) QueryCompiler() QueryCompiler {
	switch d.client.Config().Backend {
	case client.SQLite:
		return &SQLiteCompiler{}
	case client.MySQL, client.MariaDB:
		return &MySQLCompiler{}
	default:
		return &PostgresCompiler{}
	}
}

// Adapter returns the capability adapter matching the client's backend tag.
func (d *Dialect) Adapter() Adapter {
	switch d.client.Config().Backend {
	case client.SQLite:
		return &SQLiteAdapter{}
	case client.MySQL, client.MariaDB:
		return &MySQLAdapter{}
	default:
		return &PostgresAdapter{}
	}
}

// Introspector returns a schema introspector reading through the given
// client handle.
func (d *Dialect) Introspector(c client.Client) Introspector {
	switch d.client.Config().Backend {
	case client.SQLite:
		return &SQLiteIntrospector{ex: c}
	case client.MySQL, client.MariaDB:
		return &MySQLIntrospector{ex: c}
	default:
		return &PostgresIntrospector{ex: c}
	}
}
