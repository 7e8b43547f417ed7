package dialect

import (
	"context"
	"strings"

	"github.com/coregx/sqlbridge/internal/client"
	"github.com/coregx/sqlbridge/internal/core"
)

// SQLiteCompiler compiles statements for SQLite.
type SQLiteCompiler struct{}

// Compile passes the text through unchanged; SQLite uses '?' markers natively.
func (c *SQLiteCompiler) Compile(sql string, args []any) core.CompiledQuery {
	return core.CompiledQuery{SQL: sql, Args: args}
}

// QuoteIdentifier quotes a SQLite identifier using double quotes.
func (c *SQLiteCompiler) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// SQLiteAdapter reports SQLite capabilities.
type SQLiteAdapter struct{}

// SupportsReturning reports RETURNING support (SQLite 3.35+).
func (a *SQLiteAdapter) SupportsReturning() bool { return true }

// SupportsTransactionalDDL reports transactional DDL support.
func (a *SQLiteAdapter) SupportsTransactionalDDL() bool { return true }

// SQLiteIntrospector reads schema metadata from sqlite_master and PRAGMA
// table_info.
type SQLiteIntrospector struct {
	ex client.Executor
}

// Tables lists user tables, excluding SQLite internal tables.
func (i *SQLiteIntrospector) Tables(ctx context.Context) ([]TableMetadata, error) {
	rows, err := queryRows(ctx, i.ex,
		`select name from sqlite_master
		 where type = 'table' and name not like 'sqlite_%'
		 order by name`, nil)
	if err != nil {
		return nil, err
	}

	tables := make([]TableMetadata, 0, len(rows))
	for _, row := range rows {
		tables = append(tables, TableMetadata{Name: stringField(row, "name")})
	}
	return tables, nil
}

// Columns lists the columns of one table in declaration order. PRAGMA does
// not accept bound parameters, so the table name is quoted inline.
func (i *SQLiteIntrospector) Columns(ctx context.Context, table string) ([]ColumnMetadata, error) {
	quoted := (&SQLiteCompiler{}).QuoteIdentifier(table)
	rows, err := queryRows(ctx, i.ex, "pragma table_info("+quoted+")", nil)
	if err != nil {
		return nil, err
	}

	cols := make([]ColumnMetadata, 0, len(rows))
	for _, row := range rows {
		cols = append(cols, ColumnMetadata{
			Name:     stringField(row, "name"),
			DataType: stringField(row, "type"),
			Nullable: !boolField(row, "notnull"),
		})
	}
	return cols, nil
}
